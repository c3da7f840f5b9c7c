package market

import (
	"math"

	"github.com/talgya/macrosim/internal/agents"
	"github.com/talgya/macrosim/internal/config"
)

// GoodsMarket clears aggregate demand against aggregate supply and
// maintains the price level.
type GoodsMarket struct {
	Pricing          config.PricingRule
	PriceLevel       float64 `json:"price_level"`
	PrevPriceLevel   float64 `json:"prev_price_level"`
	Inflation        float64 `json:"inflation"` // percent per tick
	PriceSensitivity float64 `json:"price_sensitivity"`

	TotalDemand    float64 `json:"total_demand"`
	TotalSupply    float64 `json:"total_supply"`
	QuantityTraded float64 `json:"quantity_traded"`
}

// NewGoodsMarket creates a goods market at the given starting price level.
func NewGoodsMarket(cfg config.Config) *GoodsMarket {
	return &GoodsMarket{
		Pricing:          cfg.Pricing,
		PriceLevel:       cfg.InitialPrice,
		PrevPriceLevel:   cfg.InitialPrice,
		PriceSensitivity: cfg.PriceSensitivity,
	}
}

// ShortSide applies the short-side rule: the traded quantity is the lesser
// of demand and supply. It also returns the excess demand ratio
// (demand - supply) / max(supply, 1). Unmet demand is not backlogged.
func ShortSide(demand, supply float64) (traded, excessRatio float64) {
	traded = math.Min(demand, supply)
	excessRatio = (demand - supply) / math.Max(supply, 1)
	return traded, excessRatio
}

// ClearResult summarizes one tick of goods market clearing.
type ClearResult struct {
	TotalDemand    float64
	TotalSupply    float64
	QuantityTraded float64
	ExcessRatio    float64
	PriceLevel     float64
	Inflation      float64 // percent
}

// AllocateDemand distributes each household's consumption budget across
// firms with exponential price weights exp(-lambda * price): cheaper firms
// attract a larger share. Returns per-firm quantities indexed by firm
// position.
func (m *GoodsMarket) AllocateDemand(consumers []*agents.Consumer, firms []*agents.Firm) []float64 {
	weights := make([]float64, len(firms))
	var totalWeight float64
	for i, f := range firms {
		if f.Price > 0 {
			weights[i] = math.Exp(-m.PriceSensitivity * f.Price / m.PriceLevel)
			totalWeight += weights[i]
		}
	}

	demand := make([]float64, len(firms))
	if totalWeight <= 0 {
		return demand
	}

	for _, c := range consumers {
		if c.Consumption <= 0 {
			continue
		}
		for i, f := range firms {
			if weights[i] <= 0 {
				continue
			}
			spend := c.Consumption * weights[i] / totalWeight
			demand[i] += spend / math.Max(f.Price, 0.01)
		}
	}
	return demand
}

// Clear runs one tick of goods market clearing. Demand is household
// allocation plus government spending plus export demand; supply is firm
// production plus imports. Firms sell from inventory at their own price,
// then adjust prices per the configured rule, and the market price level
// and inflation are updated.
func (m *GoodsMarket) Clear(
	consumers []*agents.Consumer,
	firms []*agents.Firm,
	govtSpending float64,
	exportQty, importQty float64,
	wage float64,
	thetaD, thetaC float64,
) ClearResult {
	firmDemand := m.AllocateDemand(consumers, firms)

	var production float64
	for _, f := range firms {
		production += f.Production
	}

	// Government and export demand are distributed by production share.
	extraQty := exportQty
	if govtSpending > 0 {
		extraQty += govtSpending / math.Max(m.PriceLevel, 0.01)
	}
	if extraQty > 0 && production > 0 {
		for i, f := range firms {
			firmDemand[i] += extraQty * f.Production / production
		}
	}

	var totalDemand float64
	for _, q := range firmDemand {
		totalDemand += q
	}

	m.TotalDemand = totalDemand
	m.TotalSupply = production + importQty

	traded, excess := ShortSide(m.TotalDemand, m.TotalSupply)
	m.QuantityTraded = traded

	// Imports satisfy their share of demand before firms sell; scale the
	// per-firm quantities down by the domestic share of the trade.
	domesticShare := 1.0
	if m.TotalDemand > 0 && importQty > 0 {
		domesticShare = math.Max(0, (m.TotalDemand-importQty)/m.TotalDemand)
	}

	for i, f := range firms {
		sold := f.Sell(firmDemand[i] * domesticShare)
		backlog := math.Max(0, firmDemand[i]-sold)
		f.UpdateExpectedDemand(sold + backlog)
	}

	for i, f := range firms {
		switch m.Pricing {
		case config.PricingThreshold:
			f.AdjustPriceThreshold(firmDemand[i], f.Production)
		default:
			f.AdjustPriceContinuous(firmDemand[i], f.Production, wage, thetaD, thetaC)
		}
	}

	m.updatePriceLevel(firms, production, excess)

	return ClearResult{
		TotalDemand:    m.TotalDemand,
		TotalSupply:    m.TotalSupply,
		QuantityTraded: traded,
		ExcessRatio:    excess,
		PriceLevel:     m.PriceLevel,
		Inflation:      m.Inflation,
	}
}

// updatePriceLevel recomputes the price level and per-tick inflation. The
// continuous configuration aggregates firm prices production-weighted; the
// simplified configuration moves the level +-3% on the sign of market
// excess demand.
func (m *GoodsMarket) updatePriceLevel(firms []*agents.Firm, production, excess float64) {
	m.PrevPriceLevel = m.PriceLevel

	switch m.Pricing {
	case config.PricingThreshold:
		if excess > 0 {
			m.PriceLevel *= 1.03
		} else if excess < 0 {
			m.PriceLevel *= 0.97
		}
	default:
		if production > 0 {
			var level float64
			for _, f := range firms {
				level += f.Price * f.Production / production
			}
			m.PriceLevel = level
		} else if len(firms) > 0 {
			var level float64
			for _, f := range firms {
				level += f.Price
			}
			m.PriceLevel = level / float64(len(firms))
		}
	}

	if m.PriceLevel < 0.01 {
		m.PriceLevel = 0.01
	}

	if m.PrevPriceLevel > 0 {
		m.Inflation = (m.PriceLevel - m.PrevPriceLevel) / m.PrevPriceLevel * 100
	} else {
		m.Inflation = 0
	}
}
