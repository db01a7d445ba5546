package rules

import (
	"encoding/json"
	"fmt"
)

// AccountPair is the result of a match. A nil Destination means the rule
// did not supply one, which is distinct from an empty account name.
type AccountPair struct {
	Source      string  `json:"source"`
	Destination *string `json:"destination"`
}

// NewAccountPair returns a pair with a destination account.
func NewAccountPair(source, destination string) AccountPair {
	return AccountPair{Source: source, Destination: &destination}
}

// HasDestination reports whether the rule supplied a destination account.
func (p AccountPair) HasDestination() bool {
	return p.Destination != nil
}

// DestinationOr returns the destination account or fallback when absent.
func (p AccountPair) DestinationOr(fallback string) string {
	if p.Destination == nil {
		return fallback
	}
	return *p.Destination
}

func (p AccountPair) String() string {
	return fmt.Sprintf("%s -> %s", p.Source, p.DestinationOr("<absent>"))
}

// clone detaches the destination from the table's copy.
func (p AccountPair) clone() AccountPair {
	if p.Destination != nil {
		d := *p.Destination
		p.Destination = &d
	}
	return p
}

// Rule is one row of the table, as authored.
type Rule struct {
	Payee       Token       `json:"payee"`
	Description Token       `json:"description"`
	Accounts    AccountPair `json:"accounts"`
	// Line is the sheet row the rule came from, 0 when unknown.
	Line int `json:"line,omitempty"`
}

// Table is the two-level rule index: payee, then description.
//
// A Table is immutable once Build returns it and is safe for concurrent use.
// Keys are kept in insertion order so that candidate lists are deterministic.
type Table struct {
	payees []Token
	index  map[Token]*payeeRules
	size   int
}

type payeeRules struct {
	descriptions []Token
	rules        map[Token]Rule
}

func newTable() *Table {
	return &Table{index: make(map[Token]*payeeRules)}
}

func (t *Table) insert(r Rule) error {
	pr, ok := t.index[r.Payee]
	if !ok {
		pr = &payeeRules{rules: make(map[Token]Rule)}
		t.index[r.Payee] = pr
		t.payees = append(t.payees, r.Payee)
	}

	if existing, ok := pr.rules[r.Description]; ok {
		return &DuplicateRuleError{
			Kind:         DuplicateExact,
			Payee:        r.Payee,
			Description:  r.Description,
			Line:         r.Line,
			Existing:     existing.Accounts,
			ExistingLine: existing.Line,
		}
	}

	pr.rules[r.Description] = r
	pr.descriptions = append(pr.descriptions, r.Description)
	t.size++
	return nil
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return t.size
}

// Payees returns the payee keys in insertion order. Empty is included when
// the table has payee-less rules.
func (t *Table) Payees() []Token {
	return append([]Token(nil), t.payees...)
}

// Descriptions returns the description keys of payee in insertion order.
func (t *Table) Descriptions(payee Token) []Token {
	pr, ok := t.index[payee]
	if !ok {
		return nil
	}
	return append([]Token(nil), pr.descriptions...)
}

// Lookup returns the rule stored under the exact keys.
func (t *Table) Lookup(payee, description Token) (Rule, bool) {
	pr, ok := t.index[payee]
	if !ok {
		return Rule{}, false
	}
	r, ok := pr.rules[description]
	if ok {
		r.Accounts = r.Accounts.clone()
	}
	return r, ok
}

// Rules returns every rule, grouped by payee in insertion order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, t.size)
	for _, payee := range t.payees {
		pr := t.index[payee]
		for _, desc := range pr.descriptions {
			r := pr.rules[desc]
			r.Accounts = r.Accounts.clone()
			out = append(out, r)
		}
	}
	return out
}

type payeeDump struct {
	Payee        Token             `json:"payee"`
	Descriptions []descriptionDump `json:"descriptions"`
}

type descriptionDump struct {
	Description Token       `json:"description"`
	Accounts    AccountPair `json:"accounts"`
	Line        int         `json:"line,omitempty"`
}

// MarshalJSON renders the nested payee → description structure.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := make([]payeeDump, 0, len(t.payees))
	for _, payee := range t.payees {
		pr := t.index[payee]
		pd := payeeDump{Payee: payee, Descriptions: make([]descriptionDump, 0, len(pr.descriptions))}
		for _, desc := range pr.descriptions {
			r := pr.rules[desc]
			pd.Descriptions = append(pd.Descriptions, descriptionDump{
				Description: desc,
				Accounts:    r.Accounts,
				Line:        r.Line,
			})
		}
		out = append(out, pd)
	}
	return json.Marshal(out)
}
