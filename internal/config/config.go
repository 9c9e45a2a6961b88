package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the repository root.
const FileName = "reconcile.yaml"

// Config represents the top-level reconcile.yaml configuration.
type Config struct {
	Ledger     LedgerConfig     `yaml:"ledger"`
	Statements StatementsConfig `yaml:"statements"`
	Git        GitConfig        `yaml:"git"`
	Reconcile  ReconcileConfig  `yaml:"reconcile"`
}

// LedgerConfig identifies the books and their currency.
type LedgerConfig struct {
	Name     string `yaml:"name"`
	Chart    string `yaml:"chart"`
	Currency string `yaml:"currency"` // ISO 4217 code used for display
}

// StatementsConfig controls statement import.
type StatementsConfig struct {
	Format       string        `yaml:"format"`
	BankAccounts []BankAccount `yaml:"bank_accounts,omitempty"`
}

// BankAccount maps a bank feed to a chart-of-accounts entry.
type BankAccount struct {
	Name      string `yaml:"name"`
	Format    string `yaml:"format,omitempty"`
	LastFour  string `yaml:"last_four"`
	AccountID int    `yaml:"account_id"`
	// OffsetID is the account imported lines are balanced against.
	OffsetID int `yaml:"offset_id,omitempty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// ReconcileConfig tunes statement auto-matching.
type ReconcileConfig struct {
	DateWindow  int     `yaml:"date_window"`
	MaxDistance float64 `yaml:"max_distance"`
}

// BankAccountFor returns the mapping for accountID, if any.
func (c *Config) BankAccountFor(accountID int) (BankAccount, bool) {
	for _, ba := range c.Statements.BankAccounts {
		if ba.AccountID == accountID {
			return ba, true
		}
	}
	return BankAccount{}, false
}

// Load reads a reconcile.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Ledger.Currency == "" {
		cfg.Ledger.Currency = "USD"
	}
	if cfg.Reconcile.DateWindow < 0 {
		return nil, fmt.Errorf("parsing config: reconcile.date_window must not be negative, got %d", cfg.Reconcile.DateWindow)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(name, chart string) *Config {
	return &Config{
		Ledger: LedgerConfig{
			Name:     name,
			Chart:    chart,
			Currency: "USD",
		},
		Statements: StatementsConfig{
			Format: "chase",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Reconcile",
			AuthorEmail: "reconcile@cleared.dev",
		},
		Reconcile: ReconcileConfig{
			DateWindow: 7,
		},
	}
}
