package finmarkets

import (
	"math"
	"math/rand"
)

// Crypto price bounds. The asset is volatile but never collapses to zero
// or explodes unboundedly.
const (
	MinCryptoPrice = 5000.0
	MaxCryptoPrice = 500000.0
)

// CryptoMarket models a fixed-supply digital asset whose price responds
// to macro policy: inflation drives hedge demand, rate hikes drain it.
type CryptoMarket struct {
	Price        float64 `json:"price"`
	AllTimeHigh  float64 `json:"all_time_high"`
	Drawdown     float64 `json:"drawdown"`
	AdoptionRate float64 `json:"adoption_rate"`
	Sentiment    float64 `json:"sentiment"` // -1 to +1

	InflationSensitivity float64 `json:"inflation_sensitivity"`
	RateSensitivity      float64 `json:"rate_sensitivity"`
	HedgeBelief          float64 `json:"hedge_belief"`
	Volatility           float64 `json:"volatility"`

	recentReturns []float64
}

// NewCryptoMarket creates the asset at the given starting price.
func NewCryptoMarket(initialPrice float64) *CryptoMarket {
	return &CryptoMarket{
		Price:                initialPrice,
		AllTimeHigh:          initialPrice,
		AdoptionRate:         0.01,
		InflationSensitivity: 5.0,
		RateSensitivity:      -3.0,
		HedgeBelief:          0.3,
		Volatility:           0.15,
	}
}

// UpdatePrice moves the price from macro conditions, adoption momentum,
// and seeded noise. Inputs are fractions (0.04 = 4%); stockReturn is the
// equity index return last tick. Per-tick change is clamped to +-50% and
// the price to [5000, 500000].
func (m *CryptoMarket) UpdatePrice(inflation, interestRate, unemployment, stockReturn float64, rng *rand.Rand) {
	hedge := math.Max(0, inflation-0.02) * m.InflationSensitivity * m.HedgeBelief
	rateDrag := (interestRate - 0.03) * m.RateSensitivity
	risk := stockReturn * 2.0
	slack := -(unemployment - 0.05)
	network := m.AdoptionRate * 0.02

	var momentum float64
	for _, r := range m.recentReturns {
		momentum += r
	}
	momentum *= 0.5

	shock := rng.NormFloat64() * m.Volatility

	change := hedge + rateDrag + risk + slack + network + momentum + shock
	if change > 0.5 {
		change = 0.5
	}
	if change < -0.5 {
		change = -0.5
	}

	m.Price *= 1 + change
	if m.Price < MinCryptoPrice {
		m.Price = MinCryptoPrice
	}
	if m.Price > MaxCryptoPrice {
		m.Price = MaxCryptoPrice
	}

	m.recentReturns = append(m.recentReturns, change)
	if len(m.recentReturns) > 5 {
		m.recentReturns = m.recentReturns[1:]
	}

	m.updateAdoption(change)
	m.updateSentiment(change)

	if m.Price > m.AllTimeHigh {
		m.AllTimeHigh = m.Price
	}
	m.Drawdown = (m.AllTimeHigh - m.Price) / m.AllTimeHigh
}

func (m *CryptoMarket) updateAdoption(change float64) {
	switch {
	case change > 0.05:
		m.AdoptionRate *= 1.02
	case change < -0.10:
		m.AdoptionRate *= 0.98
	}
	if m.AdoptionRate > 1 {
		m.AdoptionRate = 1
	}
}

func (m *CryptoMarket) updateSentiment(change float64) {
	m.Sentiment += 0.5 * (change*4 - m.Sentiment)
	if m.Sentiment > 1 {
		m.Sentiment = 1
	}
	if m.Sentiment < -1 {
		m.Sentiment = -1
	}
}
