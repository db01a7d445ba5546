// Package reload keeps a resolver current while its rule sheet changes.
//
// A Holder never mutates a resolver in place. Each reload builds a complete
// new resolver and swaps it in atomically, so callers holding the previous
// one keep a consistent snapshot. A failed reload leaves the last good
// resolver active.
package reload

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/categorizer/rules"
)

// LoadFunc builds a fresh resolver.
type LoadFunc func(ctx context.Context) (*rules.Resolver, error)

// Holder serves the current resolver.
type Holder struct {
	load     LoadFunc
	current  atomic.Pointer[rules.Resolver]
	reloadMu sync.Mutex

	diag     rules.Diagnostics
	debounce time.Duration
	onReload func(err error)
}

// Option configures a Holder.
type Option func(*Holder)

// WithDiagnostics reports watcher problems to d.
func WithDiagnostics(d rules.Diagnostics) Option {
	return func(h *Holder) {
		if d != nil {
			h.diag = d
		}
	}
}

// WithDebounce sets how long file events settle before a reload.
func WithDebounce(d time.Duration) Option {
	return func(h *Holder) {
		h.debounce = d
	}
}

// OnReload registers fn to be called after every reload attempt triggered
// by the watcher. err is nil on success.
func OnReload(fn func(err error)) Option {
	return func(h *Holder) {
		h.onReload = fn
	}
}

// New builds the first resolver with load.
func New(ctx context.Context, load LoadFunc, opts ...Option) (*Holder, error) {
	h := &Holder{
		load:     load,
		diag:     rules.NopDiagnostics,
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}

	if err := h.Reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Resolver returns the current resolver.
func (h *Holder) Resolver() *rules.Resolver {
	return h.current.Load()
}

// Reload builds a new resolver and swaps it in. On error the current
// resolver stays active.
func (h *Holder) Reload(ctx context.Context) error {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	r, err := h.load(ctx)
	if err != nil {
		return err
	}
	h.current.Store(r)
	return nil
}

// Watch reloads whenever one of paths changes, until ctx is done. Bursts of
// events are debounced since editors write files in several steps.
func (h *Holder) Watch(ctx context.Context, paths ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	go h.run(ctx, watcher, paths)
	return nil
}

func (h *Holder) run(ctx context.Context, watcher *fsnotify.Watcher, paths []string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Spreadsheet applications save by writing a temporary file and
			// renaming it over the original.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			h.diag.Debugf("rule sheet changed: %s", event)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(h.debounce, func() {
				h.handleChange(ctx, watcher, paths)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.diag.Warnf("file watcher error: %v", err)
		}
	}
}

func (h *Holder) handleChange(ctx context.Context, watcher *fsnotify.Watcher, paths []string) {
	if ctx.Err() != nil {
		return
	}

	err := h.Reload(ctx)
	if err != nil {
		h.diag.Warnf("failed to reload rules, keeping previous table: %v", err)
	} else {
		h.diag.Infof("reloaded rules (%d rules)", h.Resolver().Dump().Len())
	}

	// Re-add the watches: a rename drops them.
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			h.diag.Warnf("failed to watch %s: %v", path, err)
		}
	}

	if h.onReload != nil {
		h.onReload(err)
	}
}
