package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
)

type CheckCmd struct {
	Rules string `help:"Rule sheet (.csv, .tsv or .xlsx). Defaults to rules.file of the configuration." arg:"" optional:"" type:"path"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, runCtx, err := newSession(ctx, globals)
	if err != nil {
		return err
	}
	defer s.close()

	path, err := s.rulesFile(cmd.Rules)
	if err != nil {
		return err
	}

	resolver, err := s.loadResolver(runCtx, path)
	if err != nil {
		s.reportLoadError(path, err)
		s.close()
		return NewCommandError(1)
	}

	table := resolver.Dump()
	printSuccess(s.stdout, fmt.Sprintf("Check passed: %d rules for %d payees in %s",
		table.Len(), len(table.Payees()), pathStyle.Render(path)))

	return nil
}
