package rules_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/source"
)

func ExampleResolver_Match() {
	sheet := `payee,description,account-source,account-destination
Gas Station,tank car #1,Exp:Car:Volvo,Assets:Bank
Gas Station,,Exp:Car,
,,Exp:CATCH-ALL,Assets:CATCH-ALL
`
	rows, err := source.ReadCSV(strings.NewReader(sheet), ',')
	if err != nil {
		panic(err)
	}

	r, err := rules.Load(context.Background(), rows)
	if err != nil {
		panic(err)
	}

	for _, q := range [][2]string{
		{"gas station", "tank car #1"},
		{"gas station", ""},
		{"gas station", "tank car"},
		{"unknown payee", "unknown desc"},
	} {
		accounts, _ := r.Match(q[0], q[1])
		fmt.Println(accounts)
	}
	// Output:
	// Exp:Car:Volvo -> Assets:Bank
	// Exp:Car -> <absent>
	// Exp:Car -> <absent>
	// Exp:CATCH-ALL -> Assets:CATCH-ALL
}
