package finmarkets

import (
	"math"

	"github.com/talgya/macrosim/internal/agents"
)

// Thresholds for household investment behaviour.
const (
	minInvestment     = 100.0  // below this, hold cash
	liquidityFloor    = 1000.0 // sell holdings when cash falls below this
	emergencyTarget   = 2000.0 // liquidate up to this cash level
	defaultStockSplit = 0.7
)

// Invest allocates a share of a household's post-consumption savings into
// stocks and crypto. The stock/crypto split tilts toward crypto when
// inflation is high (the hedge narrative) and with risk tolerance.
func Invest(c *agents.Consumer, sm *StockMarket, cm *CryptoMarket, firms []*agents.Firm,
	inflation, minWealth, investmentShare float64) {

	// Mark-to-market in firm order so the sum is reproducible.
	total := c.Wealth + c.CryptoCoins*cm.Price
	for _, f := range firms {
		total += c.StockShares[f.ID] * sm.Prices[f.ID]
	}
	if total < minWealth {
		return
	}

	budget := c.Wealth * investmentShare
	budget *= 1 + sm.Sentiment*0.5
	budget = math.Min(budget, c.Wealth)
	if budget <= minInvestment {
		return
	}

	stockSplit := defaultStockSplit
	if inflation > 0.06 {
		stockSplit = 0.3
	} else if inflation > 0.04 {
		stockSplit = 0.5
	}
	cryptoSplit := (1 - stockSplit) * (1 + c.RiskTolerance)
	if cryptoSplit > 1 {
		cryptoSplit = 1
	}
	stockSplit = 1 - cryptoSplit

	if stockBudget := budget * stockSplit; stockBudget > 0 {
		buyStocks(c, sm, firms, stockBudget)
	}
	if cryptoBudget := budget * cryptoSplit; cryptoBudget > 0 && cm.Price > 0 {
		c.CryptoCoins += cryptoBudget / cm.Price
		c.Wealth -= cryptoBudget
	}
}

// buyStocks spreads a budget across firms weighted by market cap.
func buyStocks(c *agents.Consumer, sm *StockMarket, firms []*agents.Firm, budget float64) {
	var totalCap float64
	for _, f := range firms {
		totalCap += sm.Prices[f.ID] * sm.Shares[f.ID]
	}
	if totalCap <= 0 {
		return
	}

	if c.StockShares == nil {
		c.StockShares = make(map[agents.FirmID]float64)
	}
	for _, f := range firms {
		price := sm.Prices[f.ID]
		if price <= 0 {
			continue
		}
		weight := price * sm.Shares[f.ID] / totalCap
		shares := budget * weight / price
		if shares < 0.01 {
			continue
		}
		c.StockShares[f.ID] += shares
		c.Wealth -= shares * price
	}
}

// LiquidateIfNeeded raises emergency cash when a household's liquid wealth
// is critically low: crypto first, then stocks proportionally.
func LiquidateIfNeeded(c *agents.Consumer, sm *StockMarket, cm *CryptoMarket, firms []*agents.Firm) {
	if c.Wealth > liquidityFloor {
		return
	}
	needed := emergencyTarget - c.Wealth
	if needed <= 0 {
		return
	}

	if c.CryptoCoins > 0 && cm.Price > 0 {
		coins := math.Min(c.CryptoCoins, needed/cm.Price)
		proceeds := coins * cm.Price
		c.CryptoCoins -= coins
		c.Wealth += proceeds
		needed -= proceeds
	}

	if needed <= 0 || len(c.StockShares) == 0 {
		return
	}
	for _, f := range firms {
		if needed <= 0 {
			break
		}
		shares, ok := c.StockShares[f.ID]
		if !ok || shares <= 0 {
			continue
		}
		price := sm.Prices[f.ID]
		if price <= 0 {
			continue
		}
		sell := math.Min(shares, needed/price)
		proceeds := sell * price
		c.StockShares[f.ID] -= sell
		c.Wealth += proceeds
		needed -= proceeds
		if c.StockShares[f.ID] <= 0.01 {
			delete(c.StockShares, f.ID)
		}
	}
}
