package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative consumers", func(c *Config) { c.NumConsumers = -1 }},
		{"zero firms", func(c *Config) { c.NumFirms = 0 }},
		{"mpc above one", func(c *Config) { c.MPC = 1.5 }},
		{"mpc zero", func(c *Config) { c.MPC = 0 }},
		{"unknown production", func(c *Config) { c.Production = "quadratic" }},
		{"unknown pricing", func(c *Config) { c.Pricing = "auction" }},
		{"unknown tax mode", func(c *Config) { c.TaxMode = "progressive" }},
		{"gamma above one", func(c *Config) { c.Gamma = 1.2 }},
		{"negative tax rate", func(c *Config) { c.TaxRate = -0.1 }},
		{"tax rate above one", func(c *Config) { c.TaxRate = 1.01 }},
		{"interest rate above cap", func(c *Config) { c.InterestRate = 0.11 }},
		{"negative interest rate", func(c *Config) { c.InterestRate = -0.01 }},
		{"wage below floor", func(c *Config) { c.InitialWage = 400 }},
		{"zero money supply", func(c *Config) { c.MoneySupply = 0 }},
		{"trade without partners", func(c *Config) { c.Trade.Enabled = true }},
		{"crypto price below floor", func(c *Config) {
			c.Financial.Enabled = true
			c.Financial.CryptoInitialPrice = 1000
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if _, ok := err.(*ValidationError); !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateTradePartnerRanges(t *testing.T) {
	cfg := Default()
	cfg.Trade.Enabled = true
	cfg.Trade.Partners = DefaultPartners()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default partners invalid: %v", err)
	}

	cfg.Trade.Partners[0].ExchangeRate = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for exchange rate above 10")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "econ.toml")

	data := []byte(`
seed = 7
num_consumers = 50
tax_rate = 0.25
pricing = "threshold"

[trade]
enabled = true
tariff_rate = 0.1

[[trade.partners]]
name = "China"
gdp = 500000
price_level = 8.0
exchange_rate = 7.0
import_propensity = 0.25
export_elasticity = 2.0
retaliation_sensitivity = 0.8
interest_rate = 0.03
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Seed)
	}
	if cfg.NumConsumers != 50 {
		t.Errorf("num_consumers = %d, want 50", cfg.NumConsumers)
	}
	if cfg.Pricing != PricingThreshold {
		t.Errorf("pricing = %q, want threshold", cfg.Pricing)
	}
	// Absent fields keep their defaults.
	if cfg.NumFirms != 10 {
		t.Errorf("num_firms = %d, want default 10", cfg.NumFirms)
	}
	if !cfg.Trade.Enabled || len(cfg.Trade.Partners) != 1 {
		t.Errorf("trade section not parsed: %+v", cfg.Trade)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("tax_rate = 2.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for tax_rate = 2.0")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyOverrides(map[string]float64{"mpc": 0.8, "tax_rate": 0.3}); err != nil {
		t.Fatalf("overrides rejected: %v", err)
	}
	if cfg.MPC != 0.8 || cfg.TaxRate != 0.3 {
		t.Errorf("overrides not applied: mpc=%v tax=%v", cfg.MPC, cfg.TaxRate)
	}

	if err := cfg.ApplyOverrides(map[string]float64{"not_a_parameter": 1}); err == nil {
		t.Fatal("expected error for unknown parameter")
	}

	if err := cfg.ApplyOverrides(map[string]float64{"mpc": 3}); err == nil {
		t.Fatal("expected error for out-of-range override")
	}
}
