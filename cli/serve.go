package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/categorizer/reload"
	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/web"
)

type ServeCmd struct {
	Rules string `help:"Rule sheet (.csv, .tsv or .xlsx). Defaults to rules.file of the configuration." arg:"" optional:"" type:"path"`
	Host  string `help:"Address to bind to."`
	Port  int    `help:"Port to listen on."`
	Watch bool   `help:"Reload the rule sheet when it changes." short:"w"`
}

func (cmd *ServeCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, runCtx, err := newSession(ctx, globals)
	if err != nil {
		return err
	}
	defer s.close()

	path, err := s.rulesFile(cmd.Rules)
	if err != nil {
		return err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return err
	}

	cfg := s.cfg.Server
	if cmd.Host != "" {
		cfg.Host = cmd.Host
	}
	if cmd.Port != 0 {
		cfg.Port = cmd.Port
	}
	watch := cmd.Watch || cfg.Watch

	runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt)
	defer stop()

	var server *web.Server
	holder, err := reload.New(runCtx,
		func(ctx context.Context) (*rules.Resolver, error) {
			return s.loadResolver(ctx, path)
		},
		reload.WithDiagnostics(s.logger),
		reload.WithDebounce(cfg.Debounce),
		reload.OnReload(func(err error) {
			if server != nil {
				server.NotifyReload(err)
			}
		}),
	)
	if err != nil {
		s.reportLoadError(path, err)
		s.close()
		return NewCommandError(1)
	}

	version, commitSHA := buildInfo()
	server = web.NewWithVersion(cfg.Port, holder, version, commitSHA)
	server.Host = cfg.Host
	server.Logger = s.logger

	if watch {
		if err := holder.Watch(runCtx, path); err != nil {
			return err
		}
	}

	printInfof(s.stdout, "Starting server on %s:%d", server.Host, server.Port)
	printInfof(s.stdout, "Serving rules: %s", pathStyle.Render(path))
	if watch {
		printInfof(s.stdout, "Watching for changes")
	}

	return server.Start(runCtx)
}
