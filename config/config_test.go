package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/categorizer/rules"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categorizer.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, rules.DefaultColumns(), cfg.RuleColumns())
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
rules:
  file: rules.xlsx
  sheet: Sheet1
  columns:
    payee: Counterparty
    description: Memo
transactions:
  delimiter: ";"
log:
  level: debug
server:
  port: 9090
  watch: true
  debounce: 250ms
`)

	cfg, err := Load(path)
	assert.NoError(t, err)

	assert.Equal(t, "rules.xlsx", cfg.Rules.File)
	assert.Equal(t, "Sheet1", cfg.Rules.Sheet)
	assert.Equal(t, rules.ColumnMap{
		Payee:              "Counterparty",
		Description:        "Memo",
		SourceAccount:      "account-source",
		DestinationAccount: "account-destination",
	}, cfg.RuleColumns())
	assert.Equal(t, "payee", cfg.Transactions.Payee)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.Watch)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.Debounce)

	comma, err := cfg.Transactions.Comma()
	assert.NoError(t, err)
	assert.Equal(t, ';', comma)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"Syntax":    "rules: [",
		"LogLevel":  "log:\n  level: loud\n",
		"Delimiter": "transactions:\n  delimiter: ab\n",
		"Port":      "server:\n  port: 70000\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestComma(t *testing.T) {
	for delimiter, want := range map[string]rune{"": ',', ",": ',', "tab": '\t', `\t`: '\t', "|": '|'} {
		got, err := TransactionsConfig{Delimiter: delimiter}.Comma()
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
