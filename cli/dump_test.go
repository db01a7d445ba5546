package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/web"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, testResolver(t).Dump())

	assert.Equal(t, `PAYEE        DESCRIPTION  SOURCE         DESTINATION       LINE
Gas Station  tank car #1  Exp:Car:Volvo  Assets:Bank       2
Gas Station  *            Exp:Car                          3
*            t-shirt      Exp:Clothes    Assets:Cash       4
*            *            Exp:CATCH-ALL  Assets:CATCH-ALL  5

4 rules for 2 payees
`, buf.String())
}

func TestWriteMatch(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name        string
		payee       string
		description string
		want        []string
	}{
		{
			name:  "Exact",
			payee: "Gas Station", description: "tank car #1",
			want: []string{`payee "Gas Station", description "tank car #1"`, "Exp:Car:Volvo -> Assets:Bank line 2"},
		},
		{
			name:  "PayeeCatchAll",
			payee: "Gas Station", description: "oil",
			want: []string{"Exp:Car -> (none) (catch-all of Gas Station) line 3"},
		},
		{
			name:  "CatchAll",
			payee: "", description: "",
			want: []string{"payee (unknown), description (unknown)", "Exp:CATCH-ALL -> Assets:CATCH-ALL (catch-all) line 5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := web.MatchRequest{Payee: tt.payee, Description: tt.description}
			rule, ok := r.Resolve(rules.NewToken(q.Payee), rules.NewToken(q.Description))
			assert.True(t, ok)

			var buf bytes.Buffer
			writeMatch(&buf, web.NewMatchResponse(q, rule, ok), rule)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWriteMatchUnmatched(t *testing.T) {
	var buf bytes.Buffer
	writeMatch(&buf, web.MatchResponse{Payee: "Bakery"}, rules.Rule{})
	assert.True(t, strings.Contains(buf.String(), "no rule matched"))
}
