package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/telemetry"
)

type CategorizeCmd struct {
	Transactions FileOrStdin `help:"Transactions CSV or OFX (use '-' for stdin, or omit for stdin)." arg:"" optional:""`

	Input       string `help:"Transactions format, detected from the file extension when auto." enum:"auto,csv,ofx" default:"auto"`
	Output      string `help:"Write to this file instead of stdout." short:"o" type:"path"`
	Format      string `help:"Output format: the input CSV with account columns appended, or JSON lines." enum:"csv,jsonl" default:"csv"`
	Payee       string `help:"Transaction column holding the payee." name:"txn-payee"`
	Description string `help:"Transaction column holding the description." name:"txn-description"`
	Delimiter   string `help:"Field delimiter of the transactions (',' or 'tab' or any single character)."`
}

func (cmd *CategorizeCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.Transactions.EnsureContents(); err != nil {
		return err
	}

	s, runCtx, err := newSession(ctx, globals)
	if err != nil {
		return err
	}
	defer s.close()

	txn := s.cfg.Transactions
	if cmd.Payee != "" {
		txn.Payee = cmd.Payee
	}
	if cmd.Description != "" {
		txn.Description = cmd.Description
	}
	if cmd.Delimiter != "" {
		txn.Delimiter = cmd.Delimiter
	}
	comma, err := txn.Comma()
	if err != nil {
		return err
	}

	path, err := s.rulesFile("")
	if err != nil {
		return err
	}
	resolver, err := s.loadResolver(runCtx, path)
	if err != nil {
		s.reportLoadError(path, err)
		s.close()
		return NewCommandError(1)
	}

	in, err := cmd.Transactions.Open()
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	var src transactionSource
	if cmd.Input == "ofx" || (cmd.Input == "auto" && isOFX(cmd.Transactions.Filename)) {
		src, err = readOFXTransactions(in)
		txn.Payee, txn.Description = ofxPayeeColumn, ofxDescriptionColumn
	} else {
		src, err = readCSVTransactions(in, comma)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(cmd.Transactions.Filename), err)
	}

	out := s.stdout
	if cmd.Output != "" {
		f, err := os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", cmd.Output, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	sum, err := categorize(runCtx, resolver, src, out, categorizeOptions{
		payee:       txn.Payee,
		description: txn.Description,
		comma:       comma,
		jsonLines:   cmd.Format == "jsonl",
		diag:        s.logger,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(cmd.Transactions.Filename), err)
	}

	sum.write(s.stderr)
	if sum.unmatched > 0 {
		return NewCommandError(1)
	}
	return nil
}

type categorizeOptions struct {
	payee       string
	description string
	comma       rune
	jsonLines   bool
	diag        rules.Diagnostics
}

// summary counts transactions by the kind of rule that decided them.
type summary struct {
	total           int
	exact           int
	payeeCatchAll   int
	descriptionOnly int
	catchAll        int
	unmatched       int
}

func (s *summary) add(rule rules.Rule, ok bool) {
	s.total++
	switch {
	case !ok:
		s.unmatched++
	case rule.Payee.IsEmpty() && rule.Description.IsEmpty():
		s.catchAll++
	case rule.Payee.IsEmpty():
		s.descriptionOnly++
	case rule.Description.IsEmpty():
		s.payeeCatchAll++
	default:
		s.exact++
	}
}

func (s *summary) write(w io.Writer) {
	printInfof(w, "Categorized %d transaction(s): %d by payee and description, %d by payee, %d by description, %d by catch-all",
		s.total, s.exact, s.payeeCatchAll, s.descriptionOnly, s.catchAll)
	if s.unmatched > 0 {
		printError(w, fmt.Sprintf("%d transaction(s) left without accounts", s.unmatched))
	}
}

type categorizedRow struct {
	Line        int     `json:"line"`
	Payee       string  `json:"payee"`
	Description string  `json:"description"`
	Matched     bool    `json:"matched"`
	Source      string  `json:"source"`
	Destination *string `json:"destination"`
	RuleLine    int     `json:"rule_line,omitempty"`
}

// categorize reads transactions from src and writes them to out with their
// accounts. Columns named like the rule sheet's account columns are
// overwritten, others are kept as they are.
func categorize(ctx context.Context, resolver *rules.Resolver, src transactionSource, out io.Writer, opts categorizeOptions) (summary, error) {
	timer := telemetry.FromContext(ctx).Start("categorize")
	defer timer.End()

	var sum summary

	header := src.Header()
	payeeIdx, descIdx := indexOf(header, opts.payee), indexOf(header, opts.description)
	if payeeIdx < 0 && descIdx < 0 {
		return sum, fmt.Errorf("neither payee column %q nor description column %q found", opts.payee, opts.description)
	}
	if payeeIdx < 0 {
		opts.diag.Warnf("no payee column %q, treating every payee as unknown", opts.payee)
	}
	if descIdx < 0 {
		opts.diag.Warnf("no description column %q, treating every description as unknown", opts.description)
	}

	var (
		w                  *csv.Writer
		enc                *json.Encoder
		sourceIdx, destIdx int
		width              = len(header)
	)
	if opts.jsonLines {
		enc = json.NewEncoder(out)
	} else {
		w = csv.NewWriter(out)
		w.Comma = opts.comma
		header, sourceIdx = ensureColumn(header, rules.DefaultSourceAccountColumn)
		header, destIdx = ensureColumn(header, rules.DefaultDestinationAccountColumn)
		if err := w.Write(header); err != nil {
			return sum, err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		rec, line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, err
		}

		payee, description := field(rec, payeeIdx), field(rec, descIdx)
		rule, ok := resolver.Resolve(rules.NewToken(payee), rules.NewToken(description))
		sum.add(rule, ok)
		if !ok {
			opts.diag.Warnf("line %d: no accounts for payee %q and description %q", line, payee, description)
		}

		if enc != nil {
			row := categorizedRow{Line: line, Payee: payee, Description: description, Matched: ok}
			if ok {
				row.Source = rule.Accounts.Source
				row.Destination = rule.Accounts.Destination
				row.RuleLine = rule.Line
			}
			if err := enc.Encode(row); err != nil {
				return sum, err
			}
			continue
		}

		// Fields beyond the header stay after the account columns.
		var extra []string
		if len(rec) > width {
			extra = rec[width:]
			opts.diag.Warnf("line %d: %d field(s) beyond the header, moved after the account columns", line, len(extra))
		}
		row := make([]string, len(header), len(header)+len(extra))
		copy(row, rec[:min(len(rec), width)])
		row[sourceIdx] = rule.Accounts.Source
		row[destIdx] = rule.Accounts.DestinationOr("")
		if err := w.Write(append(row, extra...)); err != nil {
			return sum, err
		}
	}

	if w != nil {
		w.Flush()
		if err := w.Error(); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func indexOf(header []string, column string) int {
	for i, label := range header {
		if strings.TrimSpace(label) == column {
			return i
		}
	}
	return -1
}

// ensureColumn returns header with column present and its index.
func ensureColumn(header []string, column string) ([]string, int) {
	if i := indexOf(header, column); i >= 0 {
		return header, i
	}
	return append(header, column), len(header)
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
