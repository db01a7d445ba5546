package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/source"
)

const ruleSheet = `payee,description,account-source,account-destination
Gas Station,tank car #1,Exp:Car:Volvo,Assets:Bank
Gas Station,,Exp:Car,
,t-shirt,Exp:Clothes,Assets:Cash
,,Exp:CATCH-ALL,Assets:CATCH-ALL
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func testResolver(t *testing.T) *rules.Resolver {
	t.Helper()
	src, err := source.ReadCSV(strings.NewReader(ruleSheet), ',')
	assert.NoError(t, err)
	r, err := rules.Load(context.Background(), src)
	assert.NoError(t, err)
	return r
}

func testSession(t *testing.T, globals *Globals) (*session, context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	s, ctx, err := openSession(context.Background(), &stdout, &stderr, globals)
	assert.NoError(t, err)
	return s, ctx, &stdout, &stderr
}

func TestSessionAppliesFlags(t *testing.T) {
	config := writeFile(t, "categorizer.yaml", `
rules:
  file: rules.csv
  columns:
    payee: Counterparty
log:
  level: info
`)

	s, _, _, _ := testSession(t, &Globals{
		Config:            config,
		LogLevel:          "debug",
		DescriptionColumn: "Memo",
	})

	assert.Equal(t, "debug", s.cfg.Log.Level)
	assert.Equal(t, rules.ColumnMap{
		Payee:              "Counterparty",
		Description:        "Memo",
		SourceAccount:      rules.DefaultSourceAccountColumn,
		DestinationAccount: rules.DefaultDestinationAccountColumn,
	}, s.cfg.RuleColumns())

	path, err := s.rulesFile("")
	assert.NoError(t, err)
	assert.Equal(t, "rules.csv", path)

	path, err = s.rulesFile("other.csv")
	assert.NoError(t, err)
	assert.Equal(t, "other.csv", path)
}

func TestSessionRejectsUnknownLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, _, err := openSession(context.Background(), &stdout, &stderr, &Globals{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestSessionWithoutRuleFile(t *testing.T) {
	s, _, _, _ := testSession(t, &Globals{})
	_, err := s.rulesFile("")
	assert.Error(t, err)
}

func TestSessionLoadResolver(t *testing.T) {
	path := writeFile(t, "rules.csv", ruleSheet)
	s, ctx, _, stderr := testSession(t, &Globals{LogLevel: "warn", Telemetry: true})

	r, err := s.loadResolver(ctx, path)
	assert.NoError(t, err)
	assert.Equal(t, 4, r.Dump().Len())

	s.close()
	assert.Contains(t, stderr.String(), "load rules.csv")
	assert.Contains(t, stderr.String(), "rules.build")
}

func TestSessionLogsWarnings(t *testing.T) {
	path := writeFile(t, "rules.csv", `payee,description,account-source,account-destination
Gas Station,tank car #1,Exp:Car:Volvo,Assets:Bank
,,Exp:CATCH-ALL,Assets:CATCH-ALL
`)
	s, ctx, _, stderr := testSession(t, &Globals{})

	_, err := s.loadResolver(ctx, path)
	assert.NoError(t, err)
	assert.Contains(t, stderr.String(), `no description catch-all for payee "Gas Station"`)
}

func TestSessionReportLoadError(t *testing.T) {
	path := writeFile(t, "rules.csv", `payee,description,account-source,account-destination
Gas Station,tank,Exp:Car:Volvo,Assets:Bank
Gas Station,tank,Exp:Car:Saab,Assets:Bank
,,Exp:CATCH-ALL,Assets:CATCH-ALL
`)
	s, ctx, _, stderr := testSession(t, &Globals{})

	_, err := s.loadResolver(ctx, path)
	assert.Error(t, err)

	s.reportLoadError(path, err)
	out := stderr.String()
	assert.Contains(t, out, "line 3: duplicate rule")
	assert.Contains(t, out, "Gas Station,tank,Exp:Car:Saab,Assets:Bank")
	assert.Contains(t, out, "invalid rule sheet")
}

func TestFileOrStdinOpen(t *testing.T) {
	t.Run("Stdin", func(t *testing.T) {
		f := FileOrStdin{Filename: "<stdin>", Contents: []byte("payee\n")}
		rc, err := f.Open()
		assert.NoError(t, err)
		defer func() { _ = rc.Close() }()

		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		assert.NoError(t, err)
		assert.Equal(t, "payee\n", buf.String())
		assert.Equal(t, "<stdin>", f.GetAbsoluteFilename())
	})

	t.Run("File", func(t *testing.T) {
		path := writeFile(t, "txns.csv", "payee\nBakery\n")
		f := FileOrStdin{Filename: path}
		rc, err := f.Open()
		assert.NoError(t, err)
		_ = rc.Close()
		assert.True(t, filepath.IsAbs(f.GetAbsoluteFilename()))
	})
}
