// Package agents provides the economic agent data model and per-tick
// decision rules: households, firms, the fiscal and monetary authorities,
// and foreign trading partners.
package agents

// ConsumerID identifies a household in the orchestrator's agent table.
type ConsumerID int

// NoFirm marks an empty employer reference.
const NoFirm FirmID = -1

// Consumer is a household: it earns, pays tax, receives transfers,
// consumes, and accumulates wealth.
type Consumer struct {
	ID       ConsumerID `json:"id"`
	Wealth   float64    `json:"wealth"`
	Income   float64    `json:"income"`
	Employed bool       `json:"employed"`
	Employer FirmID     `json:"employer"` // weak reference, NoFirm when unemployed

	MPC float64 `json:"mpc"`

	// Per-tick flows, reset at the start of each tick.
	TaxesPaid       float64 `json:"taxes_paid"`
	WelfareReceived float64 `json:"welfare_received"`
	Consumption     float64 `json:"consumption"`
	QuantityWanted  float64 `json:"quantity_wanted"`

	// Investment portfolio (financial markets extension).
	StockShares   map[FirmID]float64 `json:"stock_shares,omitempty"`
	CryptoCoins   float64            `json:"crypto_coins,omitempty"`
	RiskTolerance float64            `json:"risk_tolerance,omitempty"`
}

// NewConsumer creates a household with the given starting wealth.
func NewConsumer(id ConsumerID, wealth, mpc float64) *Consumer {
	return &Consumer{
		ID:       id,
		Wealth:   wealth,
		Employer: NoFirm,
		MPC:      mpc,
	}
}

// ResetFlows clears the per-tick flow variables. Stock variables (wealth,
// portfolio, employment) persist across ticks.
func (c *Consumer) ResetFlows() {
	c.TaxesPaid = 0
	c.WelfareReceived = 0
	c.Consumption = 0
	c.QuantityWanted = 0
}

// SeekEmployment clears employment state ahead of labor market clearing.
func (c *Consumer) SeekEmployment() {
	c.Employed = false
	c.Employer = NoFirm
	c.Income = 0
}

// Hire records an employment match at the current market wage.
func (c *Consumer) Hire(employer FirmID, wage float64) {
	c.Employed = true
	c.Employer = employer
	c.Income = wage
}

// NetIncome returns income after taxes paid this tick.
func (c *Consumer) NetIncome() float64 {
	return c.Income - c.TaxesPaid
}

// Decide runs the household consumption rule against the current goods
// price level. Net income and welfare are credited exactly once here;
// the consumption budget is capped at available liquidity so wealth never
// goes negative.
func (c *Consumer) Decide(priceLevel float64) {
	cashOnHand := c.Wealth + c.NetIncome() + c.WelfareReceived
	if cashOnHand < 0 {
		cashOnHand = 0
	}

	budget := c.MPC * cashOnHand
	if budget > cashOnHand {
		budget = cashOnHand
	}

	c.Consumption = budget
	c.QuantityWanted = budget / priceLevel
	c.Wealth = cashOnHand - budget
}

// TotalWealth returns cash plus the mark-to-market value of holdings.
func (c *Consumer) TotalWealth(stockPrice func(FirmID) float64, cryptoPrice float64) float64 {
	total := c.Wealth + c.CryptoCoins*cryptoPrice
	for firmID, shares := range c.StockShares {
		total += shares * stockPrice(firmID)
	}
	return total
}
