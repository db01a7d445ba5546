package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/charmbracelet/log"

	"github.com/robinvdvleuten/categorizer/rules"
)

func defaultCategorizeOptions() categorizeOptions {
	return categorizeOptions{
		payee:       "payee",
		description: "description",
		comma:       ',',
		diag:        rules.NopDiagnostics,
	}
}

func csvSource(t *testing.T, input string, comma rune) transactionSource {
	t.Helper()
	src, err := readCSVTransactions(strings.NewReader(input), comma)
	assert.NoError(t, err)
	return src
}

func TestCategorizeCSV(t *testing.T) {
	input := `date,payee,description,amount
2024-01-02,Gas Station,tank car #1,-50.00
2024-01-03,GAS STATION,oil change,-80.00
2024-01-04,Clothing Store,T-Shirt,-20.00
2024-01-05,,,-1.00
`
	var out bytes.Buffer
	sum, err := categorize(context.Background(), testResolver(t), csvSource(t, input, ','), &out, defaultCategorizeOptions())
	assert.NoError(t, err)

	assert.Equal(t, `date,payee,description,amount,account-source,account-destination
2024-01-02,Gas Station,tank car #1,-50.00,Exp:Car:Volvo,Assets:Bank
2024-01-03,GAS STATION,oil change,-80.00,Exp:Car,
2024-01-04,Clothing Store,T-Shirt,-20.00,Exp:Clothes,Assets:Cash
2024-01-05,,,-1.00,Exp:CATCH-ALL,Assets:CATCH-ALL
`, out.String())

	assert.Equal(t, summary{total: 4, exact: 1, payeeCatchAll: 1, descriptionOnly: 1, catchAll: 1}, sum)
}

func TestCategorizeOverwritesAccountColumns(t *testing.T) {
	input := "payee,account-source,description\nBakery,stale,bread\n"

	var out bytes.Buffer
	_, err := categorize(context.Background(), testResolver(t), csvSource(t, input, ','), &out, defaultCategorizeOptions())
	assert.NoError(t, err)

	assert.Equal(t, "payee,account-source,description,account-destination\nBakery,Exp:CATCH-ALL,bread,Assets:CATCH-ALL\n", out.String())
}

func TestCategorizeKeepsFieldsBeyondHeader(t *testing.T) {
	input := "payee,description\nShop,thing,KEEP-ME\nGas Station\n"

	var logs bytes.Buffer
	opts := defaultCategorizeOptions()
	opts.diag = log.New(&logs)

	var out bytes.Buffer
	_, err := categorize(context.Background(), testResolver(t), csvSource(t, input, ','), &out, opts)
	assert.NoError(t, err)

	assert.Equal(t, `payee,description,account-source,account-destination
Shop,thing,Exp:CATCH-ALL,Assets:CATCH-ALL,KEEP-ME
Gas Station,,Exp:Car,
`, out.String())
	assert.Contains(t, logs.String(), "line 2: 1 field(s) beyond the header")
}

func TestCategorizeKeepsFieldsBeyondExistingAccountColumns(t *testing.T) {
	input := "payee,account-source,account-destination\nShop,old,old,KEEP-ME\n"

	var out bytes.Buffer
	_, err := categorize(context.Background(), testResolver(t), csvSource(t, input, ','), &out, defaultCategorizeOptions())
	assert.NoError(t, err)

	assert.Equal(t, "payee,account-source,account-destination\nShop,Exp:CATCH-ALL,Assets:CATCH-ALL,KEEP-ME\n", out.String())
}

func TestCategorizeJSONLines(t *testing.T) {
	input := "payee;description\nGas Station;tank car #1\nGas Station;\n"
	opts := defaultCategorizeOptions()
	opts.comma = ';'
	opts.jsonLines = true

	var out bytes.Buffer
	_, err := categorize(context.Background(), testResolver(t), csvSource(t, input, opts.comma), &out, opts)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, 2, len(lines))

	var first, second categorizedRow
	assert.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, 2, first.Line)
	assert.True(t, first.Matched)
	assert.Equal(t, "Exp:Car:Volvo", first.Source)
	assert.Equal(t, "Assets:Bank", *first.Destination)
	assert.Equal(t, 2, first.RuleLine)

	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "Exp:Car", second.Source)
	assert.Zero(t, second.Destination)
	assert.True(t, strings.Contains(lines[1], `"destination":null`))
}

func TestCategorizeMissingColumns(t *testing.T) {
	t.Run("Both", func(t *testing.T) {
		var out bytes.Buffer
		_, err := categorize(context.Background(), testResolver(t), csvSource(t, "date,amount\n", ','), &out, defaultCategorizeOptions())
		assert.EqualError(t, err, `neither payee column "payee" nor description column "description" found`)
	})

	t.Run("DescriptionOnly", func(t *testing.T) {
		var out bytes.Buffer
		sum, err := categorize(context.Background(), testResolver(t), csvSource(t, "description\nt-shirt\n", ','), &out, defaultCategorizeOptions())
		assert.NoError(t, err)
		assert.Equal(t, 1, sum.descriptionOnly)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := readCSVTransactions(strings.NewReader(""), ',')
		assert.EqualError(t, err, "missing header row")
	})
}

func TestCategorizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := categorize(ctx, testResolver(t), csvSource(t, "payee\nBakery\n", ','), &out, defaultCategorizeOptions())
	assert.IsError(t, err, context.Canceled)
}

func TestSummaryWrite(t *testing.T) {
	var buf bytes.Buffer
	sum := summary{total: 3, exact: 1, catchAll: 1, unmatched: 1}
	sum.write(&buf)

	assert.Contains(t, buf.String(), "Categorized 3 transaction(s): 1 by payee and description, 0 by payee, 0 by description, 1 by catch-all")
	assert.Contains(t, buf.String(), "1 transaction(s) left without accounts")
}
