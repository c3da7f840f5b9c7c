// Package metrics computes aggregate economic indicators from the agent
// population. All calculators are pure functions; the only state is the
// append-only snapshot history owned by the orchestrator.
package metrics

import (
	"sort"

	"github.com/talgya/macrosim/internal/agents"
)

// Snapshot holds every indicator recorded for one tick. Trade and
// financial fields are zero when those subsystems are disabled.
type Snapshot struct {
	Tick int `json:"tick"`

	GDP          float64 `json:"gdp"`
	Unemployment float64 `json:"unemployment"` // percent
	Inflation    float64 `json:"inflation"`    // percent
	Gini         float64 `json:"gini"`
	AvgWage      float64 `json:"avg_wage"`
	Wage         float64 `json:"wage"` // market wage level
	PriceLevel   float64 `json:"price_level"`

	GovtDebt      float64 `json:"govt_debt"`
	BudgetBalance float64 `json:"budget_balance"`
	InterestRate  float64 `json:"interest_rate"` // percent
	MoneySupply   float64 `json:"money_supply"`

	// Aggregate household flows (stock-flow accounting).
	TotalWealth      float64 `json:"total_wealth"`
	TotalConsumption float64 `json:"total_consumption"`
	TotalNetIncome   float64 `json:"total_net_income"`
	TotalWelfare     float64 `json:"total_welfare"`

	// Trade (trade-enabled configurations).
	TradeBalance    float64 `json:"trade_balance,omitempty"`
	Imports         float64 `json:"imports,omitempty"`
	Exports         float64 `json:"exports,omitempty"`
	TariffRevenue   float64 `json:"tariff_revenue,omitempty"`
	ForeignReserves float64 `json:"foreign_reserves,omitempty"`

	// Financial markets extension.
	StockIndex  float64 `json:"stock_index,omitempty"`
	CryptoPrice float64 `json:"crypto_price,omitempty"`
}

// GDP is the total value of goods sold this tick (sum of firm revenues).
func GDP(firms []*agents.Firm) float64 {
	var gdp float64
	for _, f := range firms {
		gdp += f.Revenue
	}
	return gdp
}

// UnemploymentRate returns unemployed over labor force, as a percentage.
func UnemploymentRate(consumers []*agents.Consumer) float64 {
	if len(consumers) == 0 {
		return 0
	}
	unemployed := 0
	for _, c := range consumers {
		if !c.Employed {
			unemployed++
		}
	}
	return float64(unemployed) / float64(len(consumers)) * 100
}

// Gini computes the wealth inequality coefficient over the given values:
// G = 2*sum(i*w_i) / (n*sum(w_i)) - (n+1)/n, with w sorted ascending.
func Gini(wealth []float64) float64 {
	n := len(wealth)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, wealth)
	sort.Float64s(sorted)

	var total, cumulative float64
	for i, w := range sorted {
		total += w
		cumulative += float64(i+1) * w
	}
	if total == 0 {
		return 0
	}
	return 2*cumulative/(float64(n)*total) - float64(n+1)/float64(n)
}

// WealthGini computes the Gini coefficient over household wealth.
func WealthGini(consumers []*agents.Consumer) float64 {
	wealth := make([]float64, len(consumers))
	for i, c := range consumers {
		wealth[i] = c.Wealth
	}
	return Gini(wealth)
}

// AverageWage returns mean income across employed households.
func AverageWage(consumers []*agents.Consumer) float64 {
	var sum float64
	employed := 0
	for _, c := range consumers {
		if c.Employed {
			sum += c.Income
			employed++
		}
	}
	if employed == 0 {
		return 0
	}
	return sum / float64(employed)
}

// History is the append-only ordered sequence of per-tick snapshots.
type History struct {
	snaps []Snapshot
}

// Append records one tick's snapshot.
func (h *History) Append(s Snapshot) {
	h.snaps = append(h.snaps, s)
}

// All returns a copy of the full snapshot sequence.
func (h *History) All() []Snapshot {
	out := make([]Snapshot, len(h.snaps))
	copy(out, h.snaps)
	return out
}

// Len returns the number of recorded ticks.
func (h *History) Len() int {
	return len(h.snaps)
}

// Latest returns the most recent snapshot, or false when empty.
func (h *History) Latest() (Snapshot, bool) {
	if len(h.snaps) == 0 {
		return Snapshot{}, false
	}
	return h.snaps[len(h.snaps)-1], true
}

// Reset discards all recorded history.
func (h *History) Reset() {
	h.snaps = nil
}
