package sim

import (
	"github.com/talgya/macrosim/internal/finmarkets"
	"github.com/talgya/macrosim/internal/market"
	"github.com/talgya/macrosim/internal/metrics"
)

// Step advances the economy exactly one tick. The tick sequence is fixed:
// staged policy updates apply first, then labor, fiscal, consumption,
// production, trade, goods clearing, settlement, investment, capital/FX,
// monetary policy, budget accounting, and finally the metrics snapshot.
// A tick either completes and returns a snapshot or fails before any
// mutation occurs.
func (m *Model) Step() (metrics.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return metrics.Snapshot{}, &StateError{Op: "step"}
	}

	m.applyPending()
	m.tick++

	// 1. Firms plan hiring against the current interest rate.
	for _, c := range m.consumers {
		c.ResetFlows()
	}
	m.govt.ResetFlows()
	for _, f := range m.firms {
		f.ResetFlows()
		f.PlanLabor(m.bank.InterestRate)
	}

	// 2. Labor market clears; wage adjusts for next tick's matches.
	m.labor.Clear(m.consumers, m.firms, m.rng)
	wage := m.labor.Wage
	m.labor.AdjustWage()

	// 3. Taxes withheld, welfare disbursed.
	m.govt.CollectIncomeTaxes(m.consumers)
	m.govt.DistributeWelfare(m.consumers)

	// 4. Households set consumption against the current price level.
	for _, c := range m.consumers {
		c.Decide(m.goods.PriceLevel)
	}

	// 5. Production.
	var production float64
	for _, f := range m.firms {
		production += f.Produce(m.cfg.Production)
	}

	// 6. Foreign trade flows.
	var importQty, exportQty, exportValue, importValue float64
	if m.cfg.Trade.Enabled {
		var demandQty float64
		for _, c := range m.consumers {
			demandQty += c.QuantityWanted
		}
		for _, fs := range m.partners {
			imp := fs.SupplyImports(demandQty, m.goods.PriceLevel, m.tariffRate)
			importQty += imp.Quantity
			importValue += imp.PreTariffValue
			m.govt.AddTariffRevenue(imp.TariffRevenue)

			exp := fs.DemandExports(m.goods.PriceLevel, production)
			exportQty += exp.Quantity
			exportValue += exp.Value
		}
	}

	// 7. Goods market clears.
	clearing := m.goods.Clear(m.consumers, m.firms, m.govt.Spending,
		exportQty, importQty, wage, m.cfg.ThetaDemand, m.cfg.ThetaCost)

	// 8. Settlement: wages out, profit retained, itemized taxes collected.
	for _, f := range m.firms {
		f.PayWages(wage)
		f.SettleProfit()
	}
	m.govt.CollectSettlementTaxes(m.firms)

	// 9. Investment and capital dynamics.
	for _, f := range m.firms {
		f.Invest(m.bank.InterestRate, m.cfg.InvestmentShare, m.cfg.ProductivityGrowth, m.cfg.Depreciation)
	}

	// 10. Capital flows, FX intervention, retaliation, exchange rates.
	var tradeBalance float64
	if m.cfg.Trade.Enabled {
		gdp := metrics.GDP(m.firms)
		for _, fs := range m.partners {
			tb := fs.TradeBalance()
			tradeBalance += tb
			m.capital.UpdateCapitalFlow(tb, m.bank.InterestRate, fs.InterestRate, gdp)
			m.capital.Intervene(fs)
			fs.UpdateRetaliation(m.tariffRate)

			noise := (m.rng.Float64()*2 - 1) * 0.01
			fs.UpdateExchangeRate(clearing.Inflation/100, m.bank.InterestRate, tb, noise)
			fs.Advance(m.rng)
		}
	}

	// 11. Monetary policy (Taylor rule in auto mode).
	m.bank.ApplyTaylorRule(clearing.Inflation/100, m.labor.UnemploymentRate)

	// 12. Government budget accounting.
	m.govt.SettleBudget()

	// Financial markets trade on the tick's realized macro state.
	if m.cfg.Financial.Enabled {
		m.stepFinancial(clearing)
	}

	// 13. Snapshot.
	snap := m.snapshot(clearing, exportValue, importValue, tradeBalance)
	m.history.Append(snap)
	return snap, nil
}

// stepFinancial updates asset prices and runs household portfolio moves.
func (m *Model) stepFinancial(clearing market.ClearResult) {
	m.stocks.UpdatePrices(m.firms, m.bank.InterestRate, clearing.Inflation/100,
		m.labor.UnemploymentRate, m.rng)
	m.crypto.UpdatePrice(clearing.Inflation/100, m.bank.InterestRate,
		m.labor.UnemploymentRate, m.stocks.Return(), m.rng)

	for _, c := range m.consumers {
		finmarkets.Invest(c, m.stocks, m.crypto, m.firms,
			clearing.Inflation/100, m.cfg.Financial.MinWealthToInvest, m.cfg.Financial.InvestmentShare)
		finmarkets.LiquidateIfNeeded(c, m.stocks, m.crypto, m.firms)
	}
}

// snapshot assembles the tick's indicator record.
func (m *Model) snapshot(clearing market.ClearResult, exports, imports, tradeBalance float64) metrics.Snapshot {
	snap := metrics.Snapshot{
		Tick: m.tick,

		GDP:          metrics.GDP(m.firms),
		Unemployment: m.labor.UnemploymentRate * 100,
		Inflation:    clearing.Inflation,
		Gini:         metrics.WealthGini(m.consumers),
		AvgWage:      metrics.AverageWage(m.consumers),
		Wage:         m.labor.Wage,
		PriceLevel:   clearing.PriceLevel,

		GovtDebt:      m.govt.Debt,
		BudgetBalance: m.govt.BudgetBalance,
		InterestRate:  m.bank.InterestRate * 100,
		MoneySupply:   m.bank.MoneySupply,
	}

	for _, c := range m.consumers {
		snap.TotalWealth += c.Wealth
		snap.TotalConsumption += c.Consumption
		snap.TotalNetIncome += c.NetIncome()
		snap.TotalWelfare += c.WelfareReceived
	}

	if m.cfg.Trade.Enabled {
		snap.TradeBalance = tradeBalance
		snap.Imports = imports
		snap.Exports = exports
		snap.TariffRevenue = m.govt.TariffRevenue
		snap.ForeignReserves = m.capital.Reserves
	}

	if m.cfg.Financial.Enabled {
		snap.StockIndex = m.stocks.Index
		snap.CryptoPrice = m.crypto.Price
	}
	return snap
}
