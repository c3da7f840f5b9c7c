// Package config defines the closed, typed simulation configuration.
// Every field is range-validated at load time; out-of-range input is
// rejected with a ValidationError, never silently clamped.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ProductionFunc selects the firm production function variant.
type ProductionFunc string

const (
	ProductionCobbDouglas ProductionFunc = "cobb_douglas" // Q = A * L^gamma
	ProductionLinear      ProductionFunc = "linear"       // Q = A * L
)

// PricingRule selects the price adjustment variant.
type PricingRule string

const (
	PricingContinuous PricingRule = "continuous" // P' = P * (1 + theta_d*edr + theta_c*ucc)
	PricingThreshold  PricingRule = "threshold"  // discrete +-5% firm / +-3% market moves
)

// TaxMode selects single income tax vs itemized VAT/payroll/corporate.
type TaxMode string

const (
	TaxSingle   TaxMode = "single"
	TaxItemized TaxMode = "itemized"
)

// ValidationError reports an invalid configuration or policy value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// PartnerConfig describes one foreign trading partner.
type PartnerConfig struct {
	Name                   string  `toml:"name"`
	GDP                    float64 `toml:"gdp"`
	PriceLevel             float64 `toml:"price_level"`
	ExchangeRate           float64 `toml:"exchange_rate"` // foreign currency per domestic unit
	ImportPropensity       float64 `toml:"import_propensity"`
	ExportElasticity       float64 `toml:"export_elasticity"`
	RetaliationSensitivity float64 `toml:"retaliation_sensitivity"`
	InterestRate           float64 `toml:"interest_rate"`
}

// TradeConfig enables the multi-country trade and FX subsystem.
type TradeConfig struct {
	Enabled              bool            `toml:"enabled"`
	Partners             []PartnerConfig `toml:"partners"`
	TariffRate           float64         `toml:"tariff_rate"`
	ForeignReserves      float64         `toml:"foreign_reserves"`
	InterventionStrength float64         `toml:"intervention_strength"`
}

// FinancialConfig enables the stock and crypto market extension.
type FinancialConfig struct {
	Enabled            bool    `toml:"enabled"`
	SharesPerFirm      float64 `toml:"shares_per_firm"`
	CryptoInitialPrice float64 `toml:"crypto_initial_price"`
	MinWealthToInvest  float64 `toml:"min_wealth_to_invest"`
	InvestmentShare    float64 `toml:"investment_share"` // share of savings invested per tick
	RiskTolerance      float64 `toml:"risk_tolerance"`
}

// Config is the complete simulation configuration.
type Config struct {
	Seed int64 `toml:"seed"`

	// Population
	NumConsumers       int     `toml:"num_consumers"`
	NumFirms           int     `toml:"num_firms"`
	InitialWealthMean  float64 `toml:"initial_wealth_mean"`
	InitialWealthStd   float64 `toml:"initial_wealth_std"`
	InitialCapitalMean float64 `toml:"initial_capital_mean"`
	InitialCapitalStd  float64 `toml:"initial_capital_std"`

	// Household behaviour
	MPC float64 `toml:"mpc"` // marginal propensity to consume

	// Firm behaviour
	Production         ProductionFunc `toml:"production"`
	Pricing            PricingRule    `toml:"pricing"`
	Productivity       float64        `toml:"productivity"`
	Gamma              float64        `toml:"gamma"`
	Depreciation       float64        `toml:"depreciation"`        // delta
	InvestmentShare    float64        `toml:"investment_share"`    // xi
	ProductivityGrowth float64        `toml:"productivity_growth"` // kappa
	ThetaDemand        float64        `toml:"theta_demand"`
	ThetaCost          float64        `toml:"theta_cost"`

	// Fiscal policy
	TaxMode        TaxMode `toml:"tax_mode"`
	TaxRate        float64 `toml:"tax_rate"`
	VATRate        float64 `toml:"vat_rate"`
	PayrollRate    float64 `toml:"payroll_rate"`
	CorporateRate  float64 `toml:"corporate_rate"`
	WelfarePayment float64 `toml:"welfare_payment"`
	GovtSpending   float64 `toml:"govt_spending"`

	// Monetary policy
	InterestRate        float64 `toml:"interest_rate"`
	InflationTarget     float64 `toml:"inflation_target"`
	MoneySupply         float64 `toml:"money_supply"`
	AutoPolicy          bool    `toml:"auto_policy"`
	NeutralRate         float64 `toml:"neutral_rate"`
	BetaInflation       float64 `toml:"beta_inflation"`
	BetaUnemployment    float64 `toml:"beta_unemployment"`
	NaturalUnemployment float64 `toml:"natural_unemployment"`

	// Markets
	InitialWage      float64 `toml:"initial_wage"`
	InitialPrice     float64 `toml:"initial_price"`
	PriceSensitivity float64 `toml:"price_sensitivity"` // lambda for budget allocation across firms

	Trade     TradeConfig     `toml:"trade"`
	Financial FinancialConfig `toml:"financial"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Seed:               42,
		NumConsumers:       100,
		NumFirms:           10,
		InitialWealthMean:  5000,
		InitialWealthStd:   2000,
		InitialCapitalMean: 50000,
		InitialCapitalStd:  20000,

		MPC: 0.7,

		Production:         ProductionCobbDouglas,
		Pricing:            PricingContinuous,
		Productivity:       2.0,
		Gamma:              0.7,
		Depreciation:       0.05,
		InvestmentShare:    0.10,
		ProductivityGrowth: 0.10,
		ThetaDemand:        0.1,
		ThetaCost:          0.1,

		TaxMode:        TaxSingle,
		TaxRate:        0.20,
		VATRate:        0.15,
		PayrollRate:    0.10,
		CorporateRate:  0.20,
		WelfarePayment: 500,
		GovtSpending:   10000,

		InterestRate:        0.05,
		InflationTarget:     0.02,
		MoneySupply:         1_000_000,
		NeutralRate:         0.025,
		BetaInflation:       0.5,
		BetaUnemployment:    0.5,
		NaturalUnemployment: 0.05,

		InitialWage:      1000,
		InitialPrice:     10,
		PriceSensitivity: 1.0,

		Trade: TradeConfig{
			Enabled:              false,
			TariffRate:           0,
			ForeignReserves:      100_000,
			InterventionStrength: 1.0,
		},
		Financial: FinancialConfig{
			Enabled:            false,
			SharesPerFirm:      1000,
			CryptoInitialPrice: 50000,
			MinWealthToInvest:  5000,
			InvestmentShare:    0.2,
			RiskTolerance:      0.3,
		},
	}
}

// DefaultPartners returns the standard three-partner trade configuration.
func DefaultPartners() []PartnerConfig {
	return []PartnerConfig{
		{Name: "China", GDP: 500000, PriceLevel: 8.0, ExchangeRate: 7.0,
			ImportPropensity: 0.25, ExportElasticity: 2.0, RetaliationSensitivity: 0.8, InterestRate: 0.03},
		{Name: "EU", GDP: 600000, PriceLevel: 12.0, ExchangeRate: 0.9,
			ImportPropensity: 0.15, ExportElasticity: 1.5, RetaliationSensitivity: 0.6, InterestRate: 0.03},
		{Name: "RestOfWorld", GDP: 400000, PriceLevel: 10.0, ExchangeRate: 1.0,
			ImportPropensity: 0.10, ExportElasticity: 1.8, RetaliationSensitivity: 0.4, InterestRate: 0.03},
	}
}

// Load reads a TOML configuration file, applying defaults for absent fields.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against its documented range.
func (c Config) Validate() error {
	if c.NumConsumers <= 0 {
		return &ValidationError{"num_consumers", "must be positive"}
	}
	if c.NumFirms <= 0 {
		return &ValidationError{"num_firms", "must be positive"}
	}
	if c.InitialWealthMean < 0 || c.InitialCapitalMean < 0 {
		return &ValidationError{"initial_wealth_mean/initial_capital_mean", "must be non-negative"}
	}
	if c.MPC <= 0 || c.MPC > 1 {
		return &ValidationError{"mpc", "must be in (0, 1]"}
	}
	switch c.Production {
	case ProductionCobbDouglas, ProductionLinear:
	default:
		return &ValidationError{"production", fmt.Sprintf("unknown variant %q", c.Production)}
	}
	switch c.Pricing {
	case PricingContinuous, PricingThreshold:
	default:
		return &ValidationError{"pricing", fmt.Sprintf("unknown variant %q", c.Pricing)}
	}
	switch c.TaxMode {
	case TaxSingle, TaxItemized:
	default:
		return &ValidationError{"tax_mode", fmt.Sprintf("unknown mode %q", c.TaxMode)}
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		return &ValidationError{"gamma", "must be in (0, 1]"}
	}
	if c.Productivity <= 0 {
		return &ValidationError{"productivity", "must be positive"}
	}
	if c.Depreciation < 0 || c.Depreciation > 1 {
		return &ValidationError{"depreciation", "must be in [0, 1]"}
	}
	for _, r := range []struct {
		name string
		rate float64
	}{
		{"tax_rate", c.TaxRate},
		{"vat_rate", c.VATRate},
		{"payroll_rate", c.PayrollRate},
		{"corporate_rate", c.CorporateRate},
	} {
		if r.rate < 0 || r.rate > 1 {
			return &ValidationError{r.name, "must be in [0, 1]"}
		}
	}
	if c.WelfarePayment < 0 {
		return &ValidationError{"welfare_payment", "must be non-negative"}
	}
	if c.GovtSpending < 0 {
		return &ValidationError{"govt_spending", "must be non-negative"}
	}
	if c.InterestRate < 0 || c.InterestRate > 0.10 {
		return &ValidationError{"interest_rate", "must be in [0, 0.10]"}
	}
	if c.MoneySupply <= 0 {
		return &ValidationError{"money_supply", "must be positive"}
	}
	if c.InitialWage < 500 {
		return &ValidationError{"initial_wage", "must be at least the wage floor of 500"}
	}
	if c.InitialPrice <= 0 {
		return &ValidationError{"initial_price", "must be positive"}
	}
	if c.Trade.Enabled {
		if len(c.Trade.Partners) == 0 {
			return &ValidationError{"trade.partners", "at least one partner required when trade is enabled"}
		}
		if c.Trade.TariffRate < 0 || c.Trade.TariffRate > 1 {
			return &ValidationError{"trade.tariff_rate", "must be in [0, 1]"}
		}
		if c.Trade.ForeignReserves < 0 {
			return &ValidationError{"trade.foreign_reserves", "must be non-negative"}
		}
		for _, p := range c.Trade.Partners {
			if p.Name == "" {
				return &ValidationError{"trade.partners.name", "must not be empty"}
			}
			if p.GDP <= 0 || p.PriceLevel <= 0 {
				return &ValidationError{"trade.partners", p.Name + ": gdp and price_level must be positive"}
			}
			if p.ExchangeRate < 0.1 || p.ExchangeRate > 10.0 {
				return &ValidationError{"trade.partners.exchange_rate", p.Name + ": must be in [0.1, 10.0]"}
			}
			if p.RetaliationSensitivity < 0 || p.RetaliationSensitivity > 1 {
				return &ValidationError{"trade.partners.retaliation_sensitivity", p.Name + ": must be in [0, 1]"}
			}
		}
	}
	if c.Financial.Enabled {
		if c.Financial.SharesPerFirm <= 0 {
			return &ValidationError{"financial.shares_per_firm", "must be positive"}
		}
		if c.Financial.CryptoInitialPrice < 5000 || c.Financial.CryptoInitialPrice > 500000 {
			return &ValidationError{"financial.crypto_initial_price", "must be in [5000, 500000]"}
		}
	}
	return nil
}

// ApplyOverrides applies a flat calibration mapping (parameter name to
// value) on top of the configuration, then re-validates. Unknown names are
// rejected so that calibration typos surface immediately.
func (c *Config) ApplyOverrides(overrides map[string]float64) error {
	for name, v := range overrides {
		switch name {
		case "mpc":
			c.MPC = v
		case "productivity":
			c.Productivity = v
		case "gamma":
			c.Gamma = v
		case "depreciation":
			c.Depreciation = v
		case "investment_share":
			c.InvestmentShare = v
		case "productivity_growth":
			c.ProductivityGrowth = v
		case "theta_demand":
			c.ThetaDemand = v
		case "theta_cost":
			c.ThetaCost = v
		case "tax_rate":
			c.TaxRate = v
		case "vat_rate":
			c.VATRate = v
		case "payroll_rate":
			c.PayrollRate = v
		case "corporate_rate":
			c.CorporateRate = v
		case "welfare_payment":
			c.WelfarePayment = v
		case "govt_spending":
			c.GovtSpending = v
		case "interest_rate":
			c.InterestRate = v
		case "inflation_target":
			c.InflationTarget = v
		case "initial_wage":
			c.InitialWage = v
		case "initial_price":
			c.InitialPrice = v
		case "price_sensitivity":
			c.PriceSensitivity = v
		case "tariff_rate":
			c.Trade.TariffRate = v
		default:
			return &ValidationError{name, "unknown calibration parameter"}
		}
	}
	return c.Validate()
}
