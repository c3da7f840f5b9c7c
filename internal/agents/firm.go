package agents

import (
	"math"

	"github.com/talgya/macrosim/internal/config"
)

// FirmID identifies a firm in the orchestrator's agent table.
type FirmID int

// priceEpsilon is the floor applied to firm prices so downstream
// quantity-demanded computations never divide by zero.
const priceEpsilon = 0.01

// Firm is a business: it hires workers, produces, prices its output,
// and invests retained profit into its capital stock.
type Firm struct {
	ID FirmID `json:"id"`

	Capital      float64 `json:"capital"` // physical capital stock
	Cash         float64 `json:"cash"`    // liquid financial position
	Productivity float64 `json:"productivity"`
	Gamma        float64 `json:"gamma"`

	Employees []ConsumerID `json:"employees"` // weak references

	LaborDemand    int     `json:"labor_demand"`
	Production     float64 `json:"production"`
	Inventory      float64 `json:"inventory"`
	Price          float64 `json:"price"`
	ExpectedDemand float64 `json:"expected_demand"`

	// Per-tick settlement flows.
	Revenue float64 `json:"revenue"`
	Costs   float64 `json:"costs"`
	Profit  float64 `json:"profit"`

	// Prior-tick state for adaptive pricing and hiring.
	LastProfit   float64 `json:"last_profit"`
	prevUnitCost float64
}

// NewFirm creates a firm with the given starting capital. Cash starts at
// 10% of capital, mirroring a firm that holds most value in plant.
func NewFirm(id FirmID, capital, productivity, gamma, price float64) *Firm {
	return &Firm{
		ID:           id,
		Capital:      capital,
		Cash:         capital * 0.1,
		Productivity: productivity,
		Gamma:        gamma,
		Price:        price,
	}
}

// ResetFlows clears per-tick settlement flows. Production and inventory
// are stocks and persist until the next Produce call.
func (f *Firm) ResetFlows() {
	f.Revenue = 0
	f.Costs = 0
	f.Profit = 0
}

// PlanLabor decides how many workers to seek this tick. Expected demand is
// translated to labor through productivity, then scaled down when borrowing
// is expensive and by recent profitability.
func (f *Firm) PlanLabor(interestRate float64) int {
	productivity := math.Max(f.Productivity, 0.1)
	base := f.ExpectedDemand / productivity

	interestFactor := math.Max(0.5, 1-2*interestRate)

	profitabilityFactor := 0.8
	if f.LastProfit > 0 {
		profitabilityFactor = 1.2
	}

	demand := int(math.Round(base * interestFactor * profitabilityFactor))
	if demand < 0 {
		demand = 0
	}
	f.LaborDemand = demand
	return demand
}

// Produce runs the configured production function over the current
// workforce and adds output to inventory.
func (f *Firm) Produce(fn config.ProductionFunc) float64 {
	labor := float64(len(f.Employees))
	if labor <= 0 {
		f.Production = 0
		return 0
	}

	switch fn {
	case config.ProductionLinear:
		f.Production = f.Productivity * labor
	default:
		f.Production = f.Productivity * math.Pow(labor, f.Gamma)
	}
	f.Inventory += f.Production
	return f.Production
}

// AdjustPriceContinuous applies the adaptive pricing rule
// P' = P * (1 + theta_d*excess_demand_ratio + theta_c*unit_cost_change).
// Both inputs are clamped to [-1, 1] and the combined adjustment is damped
// to +-5% per tick to keep the feedback loop stable.
func (f *Firm) AdjustPriceContinuous(demand, supply, wage, thetaD, thetaC float64) {
	excess := (demand - supply) / math.Max(supply, 1)
	excess = clamp(excess, -1, 1)

	var unitCost float64
	if f.Production > 0 {
		unitCost = float64(len(f.Employees)) * wage / f.Production
	}
	var costChange float64
	if f.prevUnitCost > 0 {
		costChange = (unitCost - f.prevUnitCost) / f.prevUnitCost
	}
	costChange = clamp(costChange, -1, 1)
	f.prevUnitCost = unitCost

	adjustment := clamp(thetaD*excess+thetaC*costChange, -0.05, 0.05)
	f.Price = math.Max(priceEpsilon, f.Price*(1+adjustment))
}

// AdjustPriceThreshold applies the discrete variant: +-5% when the
// demand/supply ratio crosses 1.1 or 0.9.
func (f *Firm) AdjustPriceThreshold(demand, supply float64) {
	ratio := demand / math.Max(supply, 1)
	switch {
	case ratio > 1.1:
		f.Price *= 1.05
	case ratio < 0.9:
		f.Price *= 0.95
	}
	f.Price = math.Max(priceEpsilon, f.Price)
}

// Sell moves up to the demanded quantity out of inventory and records
// revenue at the current price. Returns the quantity actually sold.
func (f *Firm) Sell(quantity float64) float64 {
	sold := math.Min(quantity, f.Inventory)
	if sold < 0 {
		sold = 0
	}
	f.Inventory -= sold
	f.Revenue += sold * f.Price
	return sold
}

// PayWages charges the wage bill against cash.
func (f *Firm) PayWages(wage float64) float64 {
	bill := float64(len(f.Employees)) * wage
	f.Costs += bill
	f.Cash -= bill
	return bill
}

// SettleProfit computes this tick's profit and retains it as cash.
func (f *Firm) SettleProfit() float64 {
	f.Profit = f.Revenue - f.Costs
	f.Cash += f.Profit
	return f.Profit
}

// UpdateExpectedDemand blends realized demand into the firm's planning
// expectation (30% weight per tick).
func (f *Firm) UpdateExpectedDemand(realized float64) {
	const smoothing = 0.3
	if f.ExpectedDemand <= 0 {
		f.ExpectedDemand = realized
		return
	}
	f.ExpectedDemand = (1-smoothing)*f.ExpectedDemand + smoothing*realized
}

// Invest depreciates the capital stock, then converts a share of positive
// profit into new capital when borrowing is cheap. Productivity grows with
// the investment ratio (embodied technical change). LastProfit is rolled
// over for next tick's hiring decision.
func (f *Firm) Invest(interestRate, xi, kappa, delta float64) float64 {
	f.Capital = math.Max(0, (1-delta)*f.Capital)

	var investment float64
	if f.Profit > 0 && interestRate < 0.08 {
		investment = xi * f.Profit
		f.Cash -= investment
		f.Capital += investment
		if f.Capital > 0 {
			f.Productivity *= 1 + kappa*investment/f.Capital
		}
	}

	f.LastProfit = f.Profit
	return investment
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
