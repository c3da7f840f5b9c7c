package agents

import (
	"github.com/talgya/macrosim/internal/config"
)

// Rate bounds for the policy rate, manual or rule-derived.
const (
	MinInterestRate = 0.0
	MaxInterestRate = 0.10
)

// CentralBank is the monetary authority: it sets or rule-derives the
// policy rate and manages the money supply.
type CentralBank struct {
	InterestRate    float64 `json:"interest_rate"`
	MoneySupply     float64 `json:"money_supply"`
	InflationTarget float64 `json:"inflation_target"`
	AutoPolicy      bool    `json:"auto_policy"`

	NeutralRate         float64 `json:"neutral_rate"`
	BetaInflation       float64 `json:"beta_inflation"`
	BetaUnemployment    float64 `json:"beta_unemployment"`
	NaturalUnemployment float64 `json:"natural_unemployment"`
}

// NewCentralBank creates the monetary authority from configuration.
func NewCentralBank(cfg config.Config) *CentralBank {
	return &CentralBank{
		InterestRate:        cfg.InterestRate,
		MoneySupply:         cfg.MoneySupply,
		InflationTarget:     cfg.InflationTarget,
		AutoPolicy:          cfg.AutoPolicy,
		NeutralRate:         cfg.NeutralRate,
		BetaInflation:       cfg.BetaInflation,
		BetaUnemployment:    cfg.BetaUnemployment,
		NaturalUnemployment: cfg.NaturalUnemployment,
	}
}

// TaylorTarget returns the rule-implied rate for the given inflation and
// unemployment gaps. Inputs are fractions (0.04 = 4%).
func (cb *CentralBank) TaylorTarget(inflation, unemployment float64) float64 {
	inflationGap := inflation - cb.InflationTarget
	unemploymentGap := unemployment - cb.NaturalUnemployment
	return cb.NeutralRate + cb.BetaInflation*inflationGap - cb.BetaUnemployment*unemploymentGap
}

// ApplyTaylorRule moves the policy rate 30% of the way toward the rule
// target; the rate never jumps instantly. No-op in manual mode.
func (cb *CentralBank) ApplyTaylorRule(inflation, unemployment float64) float64 {
	if !cb.AutoPolicy {
		return cb.InterestRate
	}

	target := cb.TaylorTarget(inflation, unemployment)
	cb.InterestRate += 0.3 * (target - cb.InterestRate)
	cb.InterestRate = clamp(cb.InterestRate, MinInterestRate, MaxInterestRate)
	return cb.InterestRate
}

// QuantitativeEasing expands the money supply by the given amount.
func (cb *CentralBank) QuantitativeEasing(amount float64) float64 {
	if amount < 0 {
		amount = 0
	}
	cb.MoneySupply += amount
	return amount
}

// QuantitativeTightening contracts the money supply, capped at 10% of the
// current supply per action.
func (cb *CentralBank) QuantitativeTightening(amount float64) float64 {
	if amount < 0 {
		amount = 0
	}
	reduction := amount
	if cap := cb.MoneySupply * 0.10; reduction > cap {
		reduction = cap
	}
	cb.MoneySupply -= reduction
	return reduction
}

// CrisisResponse applies a pre-configured emergency stance. Used by the
// scenario presets.
func (cb *CentralBank) CrisisResponse(kind string) {
	switch kind {
	case "recession":
		cb.InterestRate = 0.02
		cb.QuantitativeEasing(cb.MoneySupply * 0.10)
	case "inflation":
		cb.InterestRate = 0.08
		cb.QuantitativeTightening(cb.MoneySupply * 0.05)
	}
}
