package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/robinvdvleuten/categorizer/config"
	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/source"
	"github.com/robinvdvleuten/categorizer/telemetry"
)

// session holds what every command needs: the effective configuration, a
// logger for diagnostics and optional telemetry.
type session struct {
	cfg    *config.Config
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer

	collector telemetry.Collector
	once      sync.Once
}

func newSession(ctx *kong.Context, globals *Globals) (*session, context.Context, error) {
	return openSession(context.Background(), ctx.Stdout, ctx.Stderr, globals)
}

func openSession(runCtx context.Context, stdout, stderr io.Writer, globals *Globals) (*session, context.Context, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, nil, err
	}
	globals.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := log.ParseLevel(normalizeLevel(cfg.Log.Level))
	if err != nil {
		return nil, nil, err
	}

	s := &session{
		cfg: cfg,
		logger: log.NewWithOptions(stderr, log.Options{
			Level:  level,
			Prefix: "categorizer",
		}),
		stdout: stdout,
		stderr: stderr,
	}

	if globals.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, s.collector)
	}
	return s, runCtx, nil
}

// apply overrides configuration values with the flags that were set.
func (g *Globals) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Log.Level, g.LogLevel)
	set(&cfg.Rules.File, g.Rules)
	set(&cfg.Rules.Sheet, g.Sheet)
	set(&cfg.Rules.Columns.Payee, g.PayeeColumn)
	set(&cfg.Rules.Columns.Description, g.DescriptionColumn)
	set(&cfg.Rules.Columns.SourceAccount, g.SourceColumn)
	set(&cfg.Rules.Columns.DestinationAccount, g.DestinationColumn)
}

func normalizeLevel(level string) string {
	level = strings.ToLower(level)
	if level == "warning" {
		return "warn"
	}
	return level
}

// close prints the telemetry report, once.
func (s *session) close() {
	s.once.Do(func() {
		if s.collector != nil {
			_, _ = fmt.Fprintln(s.stderr)
			s.collector.Report(s.stderr)
		}
	})
}

// rulesFile returns path, or the configured rule file when path is empty.
func (s *session) rulesFile(path string) (string, error) {
	if path == "" {
		path = s.cfg.Rules.File
	}
	if path == "" {
		return "", fmt.Errorf("no rule sheet given: pass a file or set rules.file in the configuration")
	}
	return path, nil
}

func (s *session) options() []rules.Option {
	return []rules.Option{
		rules.WithColumns(s.cfg.RuleColumns()),
		rules.WithDiagnostics(s.logger),
	}
}

// loadResolver reads and compiles the rule sheet at path.
func (s *session) loadResolver(ctx context.Context, path string) (*rules.Resolver, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("load %s", filepath.Base(path)))
	defer timer.End()

	src, err := source.Open(path, s.cfg.Rules.Sheet)
	if err != nil {
		return nil, err
	}
	return rules.Load(ctx, src, s.options()...)
}

// reportLoadError prints err with context from the rule sheet at path.
func (s *session) reportLoadError(path string, err error) {
	var contents []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".tab":
		contents, _ = os.ReadFile(path)
	}

	renderer := NewErrorRenderer(path, contents)
	_, _ = fmt.Fprintln(s.stderr, renderer.Render(err))
	_, _ = fmt.Fprintln(s.stderr)
	printError(s.stderr, "invalid rule sheet")
}
