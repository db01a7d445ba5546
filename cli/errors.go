package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/categorizer/rules"
)

var (
	errMarkerStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders rule sheet errors with terminal styling and, for
// text sheets, the offending rows.
type ErrorRenderer struct {
	filename string
	source   []byte
}

// NewErrorRenderer creates a renderer. source may be nil for binary sheets.
func NewErrorRenderer(filename string, source []byte) *ErrorRenderer {
	return &ErrorRenderer{filename: filename, source: source}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var (
		dup      *rules.DuplicateRuleError
		schema   *rules.SchemaError
		catchAll *rules.MissingCatchAllError
	)

	switch {
	case errors.As(err, &dup):
		var buf strings.Builder
		buf.WriteString(errorStyle.Render(r.located(dup.Error())))
		if r.source != nil && dup.Line > 0 {
			buf.WriteString("\n\n")
			buf.WriteString(r.renderRows(dup.Line, dup.ExistingLine))
		}
		return buf.String()

	case errors.As(err, &schema):
		var buf strings.Builder
		buf.WriteString(errorStyle.Render(r.located(schema.Error())))
		buf.WriteString("\n\n   ")
		buf.WriteString(errContextStyle.Render("Map the columns with --payee-column, --description-column, --source-column and --destination-column."))
		return buf.String()

	case errors.As(err, &catchAll):
		var buf strings.Builder
		buf.WriteString(errorStyle.Render(r.located(catchAll.Error())))
		if r.source != nil {
			if header := r.line(1); header != "" {
				buf.WriteString("\n\n   ")
				buf.WriteString(errContextStyle.Render(header))
			}
		}
		return buf.String()
	}

	return errorStyle.Render(err.Error())
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) located(message string) string {
	if r.filename == "" {
		return message
	}
	return fmt.Sprintf("%s: %s", r.filename, message)
}

// line returns line n (1-based) of the source without its line ending.
func (r *ErrorRenderer) line(n int) string {
	lines := strings.Split(string(r.source), "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// renderRows shows the given sheet lines, marking the first as offending.
func (r *ErrorRenderer) renderRows(offending int, others ...int) string {
	lines := []int{offending}
	for _, n := range others {
		if n > 0 && n != offending {
			lines = append(lines, n)
		}
	}
	sort.Ints(lines)

	width := len(fmt.Sprint(lines[len(lines)-1]))

	var buf strings.Builder
	for _, n := range lines {
		text := r.line(n)
		if text == "" {
			continue
		}
		marker := "  "
		if n == offending {
			marker = errMarkerStyle.Render(">") + " "
		}
		buf.WriteString(" ")
		buf.WriteString(marker)
		buf.WriteString(errContextStyle.Render(fmt.Sprintf("%*d | %s", width, n, text)))
		buf.WriteByte('\n')
	}
	return buf.String()
}
