// Package finmarkets provides the optional financial markets extension:
// an equity exchange over firm shares and a macro-driven crypto asset.
package finmarkets

import (
	"math"
	"math/rand"

	"github.com/talgya/macrosim/internal/agents"
)

// StockMarket prices firm equity from fundamentals, rates, and sentiment.
type StockMarket struct {
	Prices map[agents.FirmID]float64 `json:"prices"`
	Shares map[agents.FirmID]float64 `json:"shares_outstanding"`

	Index     float64 `json:"index"`
	PrevIndex float64 `json:"prev_index"`
	Sentiment float64 `json:"sentiment"` // -1 (fear) to +1 (greed)
}

// NewStockMarket lists every firm at a price implied by its capital.
func NewStockMarket(firms []*agents.Firm, sharesPerFirm float64) *StockMarket {
	m := &StockMarket{
		Prices:    make(map[agents.FirmID]float64, len(firms)),
		Shares:    make(map[agents.FirmID]float64, len(firms)),
		Index:     100,
		PrevIndex: 100,
	}
	for _, f := range firms {
		m.Shares[f.ID] = sharesPerFirm
		m.Prices[f.ID] = math.Max(f.Capital/sharesPerFirm, 10)
	}
	return m
}

// Price returns the current share price for a firm.
func (m *StockMarket) Price(id agents.FirmID) float64 {
	return m.Prices[id]
}

// Return is the index return over the last tick.
func (m *StockMarket) Return() float64 {
	if m.PrevIndex <= 0 {
		return 0
	}
	return (m.Index - m.PrevIndex) / m.PrevIndex
}

// UpdatePrices moves each share price 30% of the way toward its
// earnings-based target, then applies sentiment and seeded noise. The
// index is the capital-weighted average price rebased to 100.
func (m *StockMarket) UpdatePrices(firms []*agents.Firm, interestRate, inflation, unemployment float64, rng *rand.Rand) {
	m.updateSentiment(interestRate, inflation, unemployment)

	for _, f := range firms {
		earnings := math.Max(f.Profit, 1)

		// Low rates expand multiples, high rates compress them.
		pe := 15 - (interestRate-0.03)*100
		if f.Capital > 0 && f.Profit > 0 {
			pe += 2
		} else {
			pe -= 2
		}
		pe = math.Max(pe, 5)

		target := earnings * pe * (1 + m.Sentiment*0.2)

		price := m.Prices[f.ID]
		price += 0.3 * (target - price)
		price *= 1 + rng.NormFloat64()*0.05
		m.Prices[f.ID] = math.Max(price, 1)
	}

	m.PrevIndex = m.Index
	var weighted, totalShares float64
	for _, f := range firms {
		weighted += m.Prices[f.ID] * m.Shares[f.ID]
		totalShares += m.Shares[f.ID]
	}
	if totalShares > 0 {
		m.Index = weighted / totalShares
	}
}

// updateSentiment derives market mood from the macro backdrop plus
// momentum from the last index move.
func (m *StockMarket) updateSentiment(interestRate, inflation, unemployment float64) {
	macro := -(interestRate - 0.03) * 10
	macro -= math.Max(0, inflation-0.02) * 5
	macro -= math.Max(0, unemployment-0.05) * 4
	momentum := m.Return() * 2

	m.Sentiment += 0.3 * (macro + momentum - m.Sentiment)
	if m.Sentiment > 1 {
		m.Sentiment = 1
	}
	if m.Sentiment < -1 {
		m.Sentiment = -1
	}
}
