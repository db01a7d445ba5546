package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/categorizer/output"
	"github.com/robinvdvleuten/categorizer/rules"
)

type DumpCmd struct {
	Rules  string `help:"Rule sheet (.csv, .tsv or .xlsx). Defaults to rules.file of the configuration." arg:"" optional:"" type:"path"`
	Format string `help:"Output format." enum:"table,json,repr" default:"table"`
}

func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
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
	switch cmd.Format {
	case "json":
		enc := json.NewEncoder(s.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	case "repr":
		repr.New(s.stdout, repr.Indent("  "), repr.OmitEmpty(true)).Println(table.Rules())
		return nil
	default:
		writeTable(s.stdout, table)
		return nil
	}
}

const anyText = "*"

// writeTable prints the rules as aligned columns, grouped by payee.
func writeTable(w io.Writer, table *rules.Table) {
	styles := output.NewStyles(w)

	headers := []string{"PAYEE", "DESCRIPTION", "SOURCE", "DESTINATION", "LINE"}
	var rows [][]string
	for _, r := range table.Rules() {
		line := ""
		if r.Line > 0 {
			line = fmt.Sprint(r.Line)
		}
		rows = append(rows, []string{
			tokenText(r.Payee),
			tokenText(r.Description),
			r.Accounts.Source,
			r.Accounts.DestinationOr(""),
			line,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	styleCell := func(col int, text string) string {
		switch {
		case text == anyText && col < 2:
			return styles.CatchAll(text)
		case col == 0:
			return styles.Payee(text)
		case col == 1:
			return styles.Description(text)
		case col == 4:
			return styles.Dim(text)
		default:
			return styles.Account(text)
		}
	}

	writeRow := func(cells []string, style func(int, string) string) {
		var b strings.Builder
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(style(i, cell))
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	writeRow(headers, func(_ int, text string) string { return styles.Keyword(text) })
	for _, row := range rows {
		writeRow(row, styleCell)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.Dim(fmt.Sprintf("%d rules for %d payees", table.Len(), len(table.Payees()))))
}

func tokenText(t rules.Token) string {
	if t.IsEmpty() {
		return anyText
	}
	return t.Text()
}
