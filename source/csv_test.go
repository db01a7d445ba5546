package source

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestReadCSV(t *testing.T) {
	input := `payee,description,account-source,account-destination
Gas Station,tank car #1,Exp:Car:Volvo,Assets:Bank
Gas Station,,Exp:Car
,,Exp:CATCH-ALL,Assets:CATCH-ALL
`
	rows, err := ReadCSV(strings.NewReader(input), ',')
	assert.NoError(t, err)

	assert.Equal(t, []string{"payee", "description", "account-source", "account-destination"}, rows.Columns())

	got := collect(t, rows, "payee", "description", "account-source", "account-destination")
	assert.Equal(t, []row{
		{line: 2, values: map[string]string{
			"payee": "Gas Station", "description": "tank car #1",
			"account-source": "Exp:Car:Volvo", "account-destination": "Assets:Bank",
		}},
		{line: 3, values: map[string]string{
			"payee": "Gas Station", "description": "", "account-source": "Exp:Car",
		}},
		{line: 4, values: map[string]string{
			"payee": "", "description": "",
			"account-source": "Exp:CATCH-ALL", "account-destination": "Assets:CATCH-ALL",
		}},
	}, got)
}

func TestReadCSVKeepsPhysicalLines(t *testing.T) {
	input := "payee,account-source\n\nGas Station,Exp:Car\n\n\n,Exp:CATCH-ALL\n"
	rows, err := ReadCSV(strings.NewReader(input), ',')
	assert.NoError(t, err)

	got := collect(t, rows, "payee", "account-source")
	assert.Equal(t, []row{
		{line: 3, values: map[string]string{"payee": "Gas Station", "account-source": "Exp:Car"}},
		{line: 6, values: map[string]string{"payee": "", "account-source": "Exp:CATCH-ALL"}},
	}, got)
}

func TestReadCSVErrors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""), ',')
		assert.EqualError(t, err, "missing header row")
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("payee\n\"unterminated\n"), ',')
		assert.Error(t, err)
	})
}
