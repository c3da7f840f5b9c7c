package market

import (
	"math"

	"github.com/talgya/macrosim/internal/agents"
)

// InterventionThreshold is the relative exchange-rate deviation from
// baseline beyond which the central bank intervenes.
const InterventionThreshold = 0.15

// CapitalMarket balances the financial account against the current account
// and stabilizes exchange rates through bounded reserve intervention.
type CapitalMarket struct {
	Reserves             float64 `json:"foreign_reserves"`
	InterventionStrength float64 `json:"intervention_strength"`

	// Per-partner exchange-rate baselines captured at initialization.
	baselines map[string]float64

	CapitalInflow float64 `json:"capital_inflow"` // informational in base config
}

// NewCapitalMarket creates the capital/FX market with the given reserves
// and records each partner's starting exchange rate as its baseline.
func NewCapitalMarket(reserves, strength float64, partners []*agents.ForeignSector) *CapitalMarket {
	baselines := make(map[string]float64, len(partners))
	for _, p := range partners {
		baselines[p.Name] = p.ExchangeRate
	}
	return &CapitalMarket{
		Reserves:             reserves,
		InterventionStrength: strength,
		baselines:            baselines,
	}
}

// Baseline returns the recorded baseline exchange rate for a partner.
func (m *CapitalMarket) Baseline(name string) float64 {
	return m.baselines[name]
}

// UpdateCapitalFlow computes the financial-account inflow that balances
// the current account plus the rate-differential carry component.
func (m *CapitalMarket) UpdateCapitalFlow(tradeBalance, domesticRate, foreignRate, domesticGDP float64) float64 {
	m.CapitalInflow = -tradeBalance + 0.5*(domesticRate-foreignRate)*domesticGDP
	return m.CapitalInflow
}

// Intervene stabilizes one partner's exchange rate when it has drifted
// more than the threshold from baseline. The bank commits up to
// 0.1 * reserves * intervention_strength per action, bounded by available
// reserves, and nudges the rate up to 5 percentage points back toward
// baseline. Returns the reserve amount committed.
func (m *CapitalMarket) Intervene(fs *agents.ForeignSector) float64 {
	baseline := m.baselines[fs.Name]
	if baseline <= 0 || m.Reserves <= 0 {
		return 0
	}

	deviation := (fs.ExchangeRate - baseline) / baseline
	if math.Abs(deviation) <= InterventionThreshold {
		return 0
	}

	maxCommit := 0.1 * m.Reserves * m.InterventionStrength
	commit := math.Min(maxCommit, m.Reserves)
	if commit <= 0 {
		return 0
	}

	// Full commitment moves the rate 5 points toward baseline.
	nudge := 0.05 * commit / math.Max(maxCommit, commit)
	if deviation > 0 {
		// Domestic currency too strong: buy foreign currency, rate falls.
		fs.ExchangeRate *= 1 - nudge
		m.Reserves += commit
	} else {
		// Domestic currency too weak: sell reserves, rate rises.
		fs.ExchangeRate *= 1 + nudge
		m.Reserves -= commit
	}

	if fs.ExchangeRate < agents.MinExchangeRate {
		fs.ExchangeRate = agents.MinExchangeRate
	}
	if fs.ExchangeRate > agents.MaxExchangeRate {
		fs.ExchangeRate = agents.MaxExchangeRate
	}
	return commit
}
