package rules

import (
	"fmt"
	"strings"
)

// SchemaError is returned when the row source lacks required columns.
type SchemaError struct {
	Missing []string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s) %s (found %s)",
		quoteAll(e.Missing), quoteAll(e.Columns))
}

// DuplicateKind tells how two rules collide.
type DuplicateKind int

const (
	// DuplicateExact means the same payee and description text appear twice.
	DuplicateExact DuplicateKind = iota
	// DuplicateAmbiguous means a description also matches sibling
	// descriptions of the same payee.
	DuplicateAmbiguous
)

func (k DuplicateKind) String() string {
	switch k {
	case DuplicateExact:
		return "duplicate"
	case DuplicateAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// DuplicateRuleError is returned when a rule collides with another rule of
// the same payee.
type DuplicateRuleError struct {
	Kind        DuplicateKind
	Payee       Token
	Description Token
	Line        int

	// Existing is the rule the offending one collides with.
	Existing     AccountPair
	ExistingLine int

	// Conflicts lists the sibling descriptions matched by an ambiguous
	// description.
	Conflicts []Token
}

func (e *DuplicateRuleError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}

	switch e.Kind {
	case DuplicateAmbiguous:
		fmt.Fprintf(&b, "description %q of payee %q is ambiguous, it also matches %s",
			e.Description, e.Payee, quoteTokens(e.Conflicts))
	default:
		fmt.Fprintf(&b, "duplicate rule for payee %q and description %q", e.Payee, e.Description)
	}

	fmt.Fprintf(&b, " (existing: %s", e.Existing)
	if e.ExistingLine > 0 {
		fmt.Fprintf(&b, " on line %d", e.ExistingLine)
	}
	b.WriteString(")")
	return b.String()
}

// MissingCatchAllError is returned when no rule has both an empty payee and
// an empty description.
type MissingCatchAllError struct{}

func (e *MissingCatchAllError) Error() string {
	return "no catch-all rule: add a row with an empty payee and an empty description"
}

func quoteAll(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

func quoteTokens(tokens []Token) string {
	ss := make([]string, len(tokens))
	for i, t := range tokens {
		ss[i] = t.String()
	}
	return quoteAll(ss)
}
