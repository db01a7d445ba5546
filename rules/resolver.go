// Package rules compiles a spreadsheet of categorization rules into an
// indexed table and resolves transactions against it.
//
// A rule maps a (payee, description) pair to a source and an optional
// destination account. Empty cells act as catch-alls. Every table must hold
// the universal catch-all, a rule with neither payee nor description, so a
// match always produces an account pair.
//
// Example usage:
//
//	src, err := source.Open("rules.xlsx", "Sheet1")
//	if err != nil {
//		return err
//	}
//	r, err := rules.Load(ctx, src, rules.WithDiagnostics(logger))
//	if err != nil {
//		return err
//	}
//	accounts, _ := r.Match("Gas Station", "tank car #1")
package rules

import "context"

// maxSteps bounds the fallback cascade. Every step either resolves or moves
// the query closer to (Empty, Empty), which takes at most three steps.
const maxSteps = 4

// Resolver matches transactions against an immutable Table. It is safe for
// concurrent use.
type Resolver struct {
	table *Table
	diag  Diagnostics
}

// NewResolver returns a resolver over t. Only WithDiagnostics applies.
func NewResolver(t *Table, opts ...Option) *Resolver {
	s := newSettings(opts)
	return &Resolver{table: t, diag: s.diag}
}

// Load builds a table from src and returns a resolver over it.
func Load(ctx context.Context, src RowSource, opts ...Option) (*Resolver, error) {
	t, err := Build(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	return NewResolver(t, opts...), nil
}

// Dump returns the underlying table for inspection.
func (r *Resolver) Dump() *Table {
	return r.table
}

// Match returns the accounts for a transaction. Blank payee or description
// text means the value is unknown. ok is false only when the table has no
// catch-all rule, which Build never allows.
func (r *Resolver) Match(payee, description string) (accounts AccountPair, ok bool) {
	rule, ok := r.Resolve(NewToken(payee), NewToken(description))
	return rule.Accounts, ok
}

type payeeOutcome int

const (
	payeeFound payeeOutcome = iota
	payeeUnknown
	payeeAmbiguous
)

// Resolve walks the fallback cascade and returns the rule that decided the
// match:
//
//  1. no payee and no description: the universal catch-all;
//  2. an ambiguous payee, unless one key equals it exactly: the universal
//     catch-all;
//  3. an unknown payee: retry with no payee;
//  4. a unique description of the payee: that rule;
//  5. an unknown or ambiguous description: retry with no description, and
//     from the payee's catch-all fall to the universal one.
func (r *Resolver) Resolve(payee, description Token) (Rule, bool) {
	for step := 0; step < maxSteps; step++ {
		if payee.IsEmpty() && description.IsEmpty() {
			rule, ok := r.table.Lookup(Empty, Empty)
			if !ok {
				r.diag.Warnf("rule table has no catch-all rule")
			}
			return rule, ok
		}

		key, outcome := r.resolvePayee(payee)
		switch outcome {
		case payeeAmbiguous:
			r.diag.Debugf("payee %q is ambiguous, using catch-all", payee)
			payee, description = Empty, Empty

		case payeeUnknown:
			if payee.IsEmpty() {
				r.diag.Warnf("rule table has no payee-less rules")
				return Rule{}, false
			}
			r.diag.Debugf("no payee matches %q, searching description %q", payee, description)
			payee = Empty

		case payeeFound:
			pr := r.table.index[key]
			matches := searchKeys(description, pr.descriptions, false, r.diag)
			switch {
			case len(matches) == 1:
				rule := pr.rules[matches[0]]
				rule.Accounts = rule.Accounts.clone()
				r.diag.Debugf("payee %q and description %q resolved to line %d", payee, description, rule.Line)
				return rule, true
			case len(matches) == 0 && description.IsEmpty():
				r.diag.Debugf("payee %q has no catch-all, using catch-all", key)
				payee = Empty
			default:
				r.diag.Debugf("%d descriptions of payee %q match %q, using payee catch-all", len(matches), key, description)
				description = Empty
			}
		}
	}

	r.diag.Warnf("no rule resolved payee %q and description %q within %d steps", payee, description, maxSteps)
	return Rule{}, false
}

func (r *Resolver) resolvePayee(payee Token) (Token, payeeOutcome) {
	matches := searchKeys(payee, r.table.payees, false, r.diag)
	switch len(matches) {
	case 0:
		return Empty, payeeUnknown
	case 1:
		return matches[0], payeeFound
	}

	strict := searchKeys(payee, r.table.payees, true, r.diag)
	if len(strict) == 1 {
		r.diag.Debugf("payee %q shadows %d partial matches", strict[0], len(matches)-1)
		return strict[0], payeeFound
	}
	return Empty, payeeAmbiguous
}
