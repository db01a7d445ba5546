package rules_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/source"
)

const header = "payee,description,account-source,account-destination\n"

// fixture mirrors the categorizer sheet used across these tests.
const fixture = header + `Gas Station,tank car #1,Exp:Car:Volvo,Assets:Bank
Gas Station,tank car #2,Exp:Car:Saab,Assets:Bank
Gas Station,,Exp:Car,Assets:FIXME-NO-DESC
Gasoline Depot,diesel,Exp:Car:Fuel,Assets:Bank
A.B.C.,service,Exp:Software,Assets:Cash
,t-shirt,Exp:Clothes,
,,Exp:CATCH-ALL,Assets:CATCH-ALL
`

type recorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *recorder) add(level, format string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, level+": "+fmt.Sprintf(format, args...))
}

func (r *recorder) Debugf(format string, args ...any) { r.add("debug", format, args) }
func (r *recorder) Infof(format string, args ...any)  { r.add("info", format, args) }
func (r *recorder) Warnf(format string, args ...any)  { r.add("warn", format, args) }

func (r *recorder) warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if strings.HasPrefix(e, "warn: ") {
			out = append(out, strings.TrimPrefix(e, "warn: "))
		}
	}
	return out
}

func sheet(t *testing.T, csv string) *source.Rows {
	t.Helper()
	rows, err := source.ReadCSV(strings.NewReader(csv), ',')
	assert.NoError(t, err)
	return rows
}

func load(t *testing.T, csv string, opts ...rules.Option) *rules.Resolver {
	t.Helper()
	r, err := rules.Load(context.Background(), sheet(t, csv), opts...)
	assert.NoError(t, err)
	return r
}

func pair(source, destination string) rules.AccountPair {
	return rules.NewAccountPair(source, destination)
}

func sourceOnly(source string) rules.AccountPair {
	return rules.AccountPair{Source: source}
}
