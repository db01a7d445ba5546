package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/categorizer/output"
	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/web"
)

type MatchCmd struct {
	Payee       string `help:"Payee of the transaction." arg:"" optional:""`
	Description string `help:"Description of the transaction." arg:"" optional:""`
	Format      string `help:"Output format." enum:"text,json" default:"text"`
}

func (cmd *MatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, runCtx, err := newSession(ctx, globals)
	if err != nil {
		return err
	}
	defer s.close()

	path, err := s.rulesFile("")
	if err != nil {
		return err
	}

	payee, description := cmd.Payee, cmd.Description
	if payee == "" && description == "" {
		p, d, ok, err := promptTransaction()
		if err != nil {
			return err
		}
		if ok {
			payee, description = p, d
		}
	}

	resolver, err := s.loadResolver(runCtx, path)
	if err != nil {
		s.reportLoadError(path, err)
		s.close()
		return NewCommandError(1)
	}

	rule, ok := resolver.Resolve(rules.NewToken(payee), rules.NewToken(description))
	result := web.NewMatchResponse(web.MatchRequest{Payee: payee, Description: description}, rule, ok)

	if cmd.Format == "json" {
		enc := json.NewEncoder(s.stdout)
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		writeMatch(s.stdout, result, rule)
	}

	if !result.Matched {
		return NewCommandError(1)
	}
	return nil
}

// writeMatch prints result along with the rule that decided it.
func writeMatch(w io.Writer, result web.MatchResponse, rule rules.Rule) {
	styles := output.NewStyles(w)

	printInfof(w, "payee %s, description %s",
		styles.Payee(quoteOrUnknown(result.Payee)),
		styles.Description(quoteOrUnknown(result.Description)))

	if !result.Matched {
		printError(w, "no rule matched: the rule table has no catch-all")
		return
	}

	destination := styles.Dim("(none)")
	if result.Destination != nil {
		destination = styles.Account(*result.Destination)
	}
	message := fmt.Sprintf("%s %s %s", styles.Account(result.Source), styles.Dim("->"), destination)

	switch {
	case rule.Payee.IsEmpty() && rule.Description.IsEmpty():
		message += " " + styles.CatchAll("(catch-all)")
	case rule.Description.IsEmpty():
		message += " " + styles.CatchAll(fmt.Sprintf("(catch-all of %s)", rule.Payee.Text()))
	}
	if result.Line > 0 {
		message += " " + styles.Dim(fmt.Sprintf("line %d", result.Line))
	}
	printSuccess(w, message)
}

func quoteOrUnknown(s string) string {
	if rules.NewToken(s).IsEmpty() {
		return "(unknown)"
	}
	return fmt.Sprintf("%q", s)
}
