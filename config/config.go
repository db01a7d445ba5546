// Package config loads the categorizer configuration file.
//
// Every setting has a default, so the file is optional:
//
//	rules:
//	  file: rules.xlsx
//	  sheet: Sheet1
//	  columns:
//	    payee: Counterparty
//	    description: Memo
//	transactions:
//	  payee: Name
//	  description: Reference
//	log:
//	  level: info
//	server:
//	  port: 8080
//	  watch: true
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/categorizer/rules"
)

// Config holds all settings.
type Config struct {
	Rules        RulesConfig        `yaml:"rules"`
	Transactions TransactionsConfig `yaml:"transactions"`
	Log          LogConfig          `yaml:"log"`
	Server       ServerConfig       `yaml:"server"`
}

// RulesConfig locates the rule sheet.
type RulesConfig struct {
	File    string        `yaml:"file"`
	Sheet   string        `yaml:"sheet"`
	Columns ColumnsConfig `yaml:"columns"`
}

// ColumnsConfig maps rule fields to sheet column labels.
type ColumnsConfig struct {
	Payee              string `yaml:"payee"`
	Description        string `yaml:"description"`
	SourceAccount      string `yaml:"source_account"`
	DestinationAccount string `yaml:"destination_account"`
}

// TransactionsConfig describes the CSV files fed to the categorize command.
type TransactionsConfig struct {
	Payee       string `yaml:"payee"`
	Description string `yaml:"description"`
	Delimiter   string `yaml:"delimiter"`
}

// LogConfig sets the diagnostics level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig holds settings of the serve command.
type ServerConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Rules: RulesConfig{
			Columns: ColumnsConfig{
				Payee:              rules.DefaultPayeeColumn,
				Description:        rules.DefaultDescriptionColumn,
				SourceAccount:      rules.DefaultSourceAccountColumn,
				DestinationAccount: rules.DefaultDestinationAccountColumn,
			},
		},
		Transactions: TransactionsConfig{
			Payee:       "payee",
			Description: "description",
			Delimiter:   ",",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     8080,
			Debounce: 100 * time.Millisecond,
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the YAML decoder cannot.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	if _, err := c.Transactions.Comma(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.Debounce < 0 {
		return fmt.Errorf("server.debounce must not be negative")
	}
	return nil
}

// RuleColumns returns the column mapping for rules.WithColumns.
func (c *Config) RuleColumns() rules.ColumnMap {
	return rules.ColumnMap{
		Payee:              c.Rules.Columns.Payee,
		Description:        c.Rules.Columns.Description,
		SourceAccount:      c.Rules.Columns.SourceAccount,
		DestinationAccount: c.Rules.Columns.DestinationAccount,
	}
}

// Comma returns the delimiter as a rune. "\t" and "tab" select tabs.
func (t TransactionsConfig) Comma() (rune, error) {
	switch t.Delimiter {
	case "", ",":
		return ',', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	}
	r := []rune(t.Delimiter)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("transactions.delimiter %q must be a single character", t.Delimiter)
	}
	return r[0], nil
}
