package agents

import (
	"github.com/talgya/macrosim/internal/config"
)

// Government is the fiscal authority: it collects taxes, disburses welfare
// and discretionary spending, and tracks the budget balance and debt.
type Government struct {
	TaxMode config.TaxMode `json:"tax_mode"`

	// Levers (externally settable at tick boundaries).
	TaxRate        float64 `json:"tax_rate"` // single-mode income tax
	VATRate        float64 `json:"vat_rate"`
	PayrollRate    float64 `json:"payroll_rate"`
	CorporateRate  float64 `json:"corporate_rate"`
	WelfarePayment float64 `json:"welfare_payment"`
	Spending       float64 `json:"govt_spending"`

	// Stocks.
	Debt float64 `json:"debt"`

	// Per-tick flows, reset each tick.
	TaxRevenue      float64 `json:"tax_revenue"`
	VATRevenue      float64 `json:"vat_revenue"`
	PayrollRevenue  float64 `json:"payroll_revenue"`
	CorporateRevenue float64 `json:"corporate_revenue"`
	TariffRevenue   float64 `json:"tariff_revenue"`
	WelfarePaid     float64 `json:"welfare_paid"`
	BudgetBalance   float64 `json:"budget_balance"`
}

// NewGovernment creates the fiscal authority from configuration.
func NewGovernment(cfg config.Config) *Government {
	return &Government{
		TaxMode:        cfg.TaxMode,
		TaxRate:        cfg.TaxRate,
		VATRate:        cfg.VATRate,
		PayrollRate:    cfg.PayrollRate,
		CorporateRate:  cfg.CorporateRate,
		WelfarePayment: cfg.WelfarePayment,
		Spending:       cfg.GovtSpending,
	}
}

// ResetFlows clears the per-tick fiscal flows.
func (g *Government) ResetFlows() {
	g.TaxRevenue = 0
	g.VATRevenue = 0
	g.PayrollRevenue = 0
	g.CorporateRevenue = 0
	g.TariffRevenue = 0
	g.WelfarePaid = 0
	g.BudgetBalance = 0
}

// CollectIncomeTaxes withholds tax from household income. In single mode
// the full tax_rate applies; in itemized mode households carry the payroll
// tax while VAT and corporate tax are collected at settlement.
func (g *Government) CollectIncomeTaxes(consumers []*Consumer) float64 {
	rate := g.TaxRate
	if g.TaxMode == config.TaxItemized {
		rate = g.PayrollRate
	}

	var collected float64
	for _, c := range consumers {
		if c.Income <= 0 {
			continue
		}
		tax := c.Income * rate
		c.TaxesPaid = tax
		collected += tax
	}
	if g.TaxMode == config.TaxItemized {
		g.PayrollRevenue += collected
	}
	g.TaxRevenue += collected
	return collected
}

// CollectSettlementTaxes runs after goods settlement in itemized mode:
// VAT on realized sales and corporate tax on positive profit, both paid
// from firm cash (VAT is embedded in the sale price).
func (g *Government) CollectSettlementTaxes(firms []*Firm) float64 {
	if g.TaxMode != config.TaxItemized {
		return 0
	}

	var collected float64
	for _, f := range firms {
		vat := f.Revenue * g.VATRate
		f.Cash -= vat
		g.VATRevenue += vat
		collected += vat

		if f.Profit > 0 {
			corp := f.Profit * g.CorporateRate
			f.Cash -= corp
			g.CorporateRevenue += corp
			collected += corp
		}
	}
	g.TaxRevenue += collected
	return collected
}

// DistributeWelfare pays the welfare transfer to each unemployed household.
func (g *Government) DistributeWelfare(consumers []*Consumer) float64 {
	for _, c := range consumers {
		if !c.Employed {
			c.WelfareReceived = g.WelfarePayment
			g.WelfarePaid += g.WelfarePayment
		}
	}
	return g.WelfarePaid
}

// AddTariffRevenue credits import tariff receipts to the treasury.
func (g *Government) AddTariffRevenue(amount float64) {
	g.TariffRevenue += amount
	g.TaxRevenue += amount
}

// SettleBudget computes the period balance and rolls it into debt. A
// surplus pays debt down but can never push it below zero.
func (g *Government) SettleBudget() float64 {
	g.BudgetBalance = g.TaxRevenue - (g.WelfarePaid + g.Spending)
	g.Debt -= g.BudgetBalance
	if g.Debt < 0 {
		g.Debt = 0
	}
	return g.BudgetBalance
}
