package rules

import (
	"context"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/categorizer/telemetry"
)

// Record is one row of a rule sheet, addressed by column label.
type Record interface {
	// Lookup returns the cell of column. ok is false when the row has no
	// such cell.
	Lookup(column string) (value string, ok bool)
}

// RowSource yields the rows of a rule sheet.
type RowSource interface {
	// Columns returns the header labels of the sheet.
	Columns() []string
	// Each calls fn for every row in order, stopping at the first error.
	// line is the row number within the sheet.
	Each(fn func(line int, rec Record) error) error
}

// Build reads every row of src into a Table and validates it.
//
// It fails with *SchemaError when src lacks a mapped column, with
// *DuplicateRuleError when two rules of a payee collide and with
// *MissingCatchAllError when no rule has both an empty payee and an empty
// description. No table is returned on failure.
func Build(ctx context.Context, src RowSource, opts ...Option) (*Table, error) {
	s := newSettings(opts)

	timer := telemetry.FromContext(ctx).Start("rules.build")
	defer timer.End()

	if err := checkSchema(src.Columns(), s.columns); err != nil {
		return nil, err
	}

	t := newTable()

	ingestTimer := timer.Child("rules.ingest")
	err := src.Each(func(line int, rec Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, ok := readRule(line, rec, s)
		if !ok {
			return nil
		}
		return t.insert(r)
	})
	ingestTimer.End()
	if err != nil {
		return nil, err
	}

	validateTimer := timer.Child("rules.validate")
	err = validate(t, s.diag)
	validateTimer.End()
	if err != nil {
		return nil, err
	}

	s.diag.Debugf("loaded %d rules for %d payees", t.Len(), len(t.payees))
	return t, nil
}

func checkSchema(columns []string, mapping ColumnMap) error {
	var missing []string
	for _, label := range mapping.Labels() {
		if !slices.Contains(columns, label) && !slices.Contains(missing, label) {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing, Columns: slices.Clone(columns)}
	}
	return nil
}

// readRule turns a row into a rule. ok is false for rows without any
// content in the mapped columns.
func readRule(line int, rec Record, s *settings) (r Rule, ok bool) {
	payee, _ := rec.Lookup(s.columns.Payee)
	description, _ := rec.Lookup(s.columns.Description)
	source, hasSource := cell(rec, s.columns.SourceAccount)
	destination, hasDestination := cell(rec, s.columns.DestinationAccount)

	r = Rule{
		Payee:       NewToken(payee),
		Description: NewToken(description),
		Accounts:    AccountPair{Source: source},
		Line:        line,
	}
	if hasDestination {
		r.Accounts.Destination = &destination
	}

	if r.Payee.IsEmpty() && r.Description.IsEmpty() && !hasSource && !hasDestination {
		s.diag.Debugf("line %d: skipping blank row", line)
		return Rule{}, false
	}
	if !hasSource {
		s.diag.Warnf("line %d: rule for payee %q and description %q has no source account",
			line, r.Payee, r.Description)
	}
	return r, true
}

// cell returns the trimmed cell text. ok is false for absent, blank and
// "nan" cells.
func cell(rec Record, column string) (string, bool) {
	v, ok := rec.Lookup(column)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, missingMarker) {
		return "", false
	}
	return v, true
}

func validate(t *Table, diag Diagnostics) error {
	if _, ok := t.Lookup(Empty, Empty); !ok {
		return &MissingCatchAllError{}
	}

	for _, payee := range t.payees {
		pr := t.index[payee]
		if _, ok := pr.rules[Empty]; !ok {
			diag.Warnf("no description catch-all for payee %q", payee)
		}

		for _, desc := range pr.descriptions {
			matches := searchKeys(desc, pr.descriptions, false, diag)
			if len(matches) <= 1 {
				continue
			}

			conflicts := make([]Token, 0, len(matches)-1)
			for _, m := range matches {
				if m != desc {
					conflicts = append(conflicts, m)
				}
			}
			offending, existing := pr.rules[desc], pr.rules[conflicts[0]]
			return &DuplicateRuleError{
				Kind:         DuplicateAmbiguous,
				Payee:        payee,
				Description:  desc,
				Line:         offending.Line,
				Existing:     existing.Accounts.clone(),
				ExistingLine: existing.Line,
				Conflicts:    conflicts,
			}
		}
	}
	return nil
}
