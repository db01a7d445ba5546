// Package output styles terminal output of rule tables and matches.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles renders text for a single writer. Colors degrade to plain text when
// the writer is not a terminal.
type Styles struct {
	output *termenv.Output
}

// NewStyles returns styles for w.
func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

// Payee renders a payee key (bold cyan).
func (s *Styles) Payee(text string) string {
	return s.output.String(text).Foreground(s.output.Color("6")).Bold().String()
}

// Description renders a description key.
func (s *Styles) Description(text string) string {
	return s.output.String(text).Foreground(s.output.Color("4")).String()
}

// Account renders an account name (yellow).
func (s *Styles) Account(text string) string {
	return s.output.String(text).Foreground(s.output.Color("3")).String()
}

// CatchAll renders the placeholder shown for empty keys and absent accounts.
func (s *Styles) CatchAll(text string) string {
	return s.output.String(text).Faint().Italic().String()
}

// Keyword renders bold text.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim renders secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Warning renders yellow bold text.
func (s *Styles) Warning(text string) string {
	return s.output.String(text).Foreground(s.output.Color("3")).Bold().String()
}

// Error renders red bold text.
func (s *Styles) Error(text string) string {
	return s.output.String(text).Foreground(s.output.Color("1")).Bold().String()
}
