package agents

import (
	"math"
	"math/rand"

	"github.com/talgya/macrosim/internal/config"
)

// Exchange rates stay within these bounds regardless of fundamentals.
const (
	MinExchangeRate = 0.1
	MaxExchangeRate = 10.0
)

// ForeignSector models one trading partner: its import supply, export
// demand, tariff retaliation, and exchange-rate evolution.
type ForeignSector struct {
	Name string `json:"name"`

	GDP          float64 `json:"gdp"`
	PriceLevel   float64 `json:"price_level"`
	ExchangeRate float64 `json:"exchange_rate"` // foreign currency per domestic unit
	InterestRate float64 `json:"interest_rate"`

	ImportPropensity       float64 `json:"import_propensity"`
	ExportElasticity       float64 `json:"export_elasticity"`
	TariffRate             float64 `json:"tariff_rate"` // partner's tariff on domestic exports
	RetaliationSensitivity float64 `json:"retaliation_sensitivity"`

	// Trade flows this tick, in domestic currency.
	ExportsToDomestic   float64 `json:"exports_to_domestic"`   // value of goods sold into the domestic economy
	ImportsFromDomestic float64 `json:"imports_from_domestic"` // value of goods bought from the domestic economy

	GDPGrowth     float64 `json:"gdp_growth"`
	InflationRate float64 `json:"inflation_rate"`
}

// NewForeignSector creates a trading partner from configuration.
func NewForeignSector(p config.PartnerConfig) *ForeignSector {
	return &ForeignSector{
		Name:                   p.Name,
		GDP:                    p.GDP,
		PriceLevel:             p.PriceLevel,
		ExchangeRate:           p.ExchangeRate,
		InterestRate:           p.InterestRate,
		ImportPropensity:       p.ImportPropensity,
		ExportElasticity:       p.ExportElasticity,
		RetaliationSensitivity: p.RetaliationSensitivity,
		GDPGrowth:              0.02,
		InflationRate:          0.02,
	}
}

// ImportFlow describes one partner's import supply for a tick.
type ImportFlow struct {
	Quantity       float64
	Value          float64 // tariff-inclusive, domestic currency
	PreTariffValue float64
	TariffRevenue  float64
	EffectivePrice float64
}

// SupplyImports computes this partner's import supply given domestic
// demand, the domestic price level, and the domestic tariff. Imports grow
// when domestic prices outrun the tariff-inclusive foreign price;
// competitiveness is clamped to [0.1, 2.0].
func (fs *ForeignSector) SupplyImports(domesticDemand, domesticPrice, tariff float64) ImportFlow {
	base := domesticDemand * fs.ImportPropensity

	foreignPriceDC := fs.PriceLevel / fs.ExchangeRate
	effective := foreignPriceDC * (1 + tariff)

	competitiveness := clamp(2.0-effective/math.Max(domesticPrice, 0.1), 0.1, 2.0)
	quantity := base * competitiveness

	preTariff := quantity * foreignPriceDC
	tariffRevenue := preTariff * tariff

	fs.ExportsToDomestic = preTariff

	return ImportFlow{
		Quantity:       quantity,
		Value:          preTariff + tariffRevenue,
		PreTariffValue: preTariff,
		TariffRevenue:  tariffRevenue,
		EffectivePrice: effective,
	}
}

// ExportFlow describes one partner's export demand for a tick.
type ExportFlow struct {
	Quantity float64
	Value    float64 // domestic currency
}

// DemandExports computes how much domestic output this partner buys.
// Baseline demand is 5% of foreign GDP, scaled by an elasticity-weighted
// price effect clamped to [0.1, 3.0] and capped at 30% of domestic
// production.
func (fs *ForeignSector) DemandExports(domesticPrice, domesticProduction float64) ExportFlow {
	base := fs.GDP * 0.05

	exportPriceFC := domesticPrice * fs.ExchangeRate
	effective := exportPriceFC * (1 + fs.TariffRate)

	priceEffect := math.Pow(fs.PriceLevel/math.Max(effective, 0.1), fs.ExportElasticity)
	priceEffect = clamp(priceEffect, 0.1, 3.0)

	quantity := math.Min(base*priceEffect, 0.3*domesticProduction)
	value := quantity * domesticPrice

	fs.ImportsFromDomestic = value

	return ExportFlow{Quantity: quantity, Value: value}
}

// UpdateRetaliation moves this partner's tariff 30% of the way toward the
// mirror of the domestic tariff, floored at zero.
func (fs *ForeignSector) UpdateRetaliation(domesticTariff float64) {
	target := domesticTariff * fs.RetaliationSensitivity
	fs.TariffRate += 0.3 * (target - fs.TariffRate)
	if fs.TariffRate < 0 {
		fs.TariffRate = 0
	}
}

// UpdateExchangeRate drifts the exchange rate from interest parity, PPP,
// and the bilateral trade balance, plus bounded noise. The per-tick change
// is clamped to +-5% and the resulting rate to [0.1, 10.0].
func (fs *ForeignSector) UpdateExchangeRate(domesticInflation, domesticRate, tradeBalance, noise float64) {
	change := -0.3*(domesticRate-fs.InterestRate) +
		0.5*(domesticInflation-fs.InflationRate) -
		0.1*(tradeBalance/math.Max(fs.GDP, 1)) +
		noise

	change = clamp(change, -0.05, 0.05)
	fs.ExchangeRate *= 1 + change
	fs.ExchangeRate = clamp(fs.ExchangeRate, MinExchangeRate, MaxExchangeRate)
}

// TradeBalance returns the domestic trade balance with this partner
// (domestic exports minus domestic imports, in domestic currency).
func (fs *ForeignSector) TradeBalance() float64 {
	return fs.ImportsFromDomestic - fs.ExportsToDomestic
}

// Advance steps the foreign economy itself: GDP growth, price inflation,
// and a small bounded random walk on both rates.
func (fs *ForeignSector) Advance(rng *rand.Rand) {
	fs.GDP *= 1 + fs.GDPGrowth
	fs.PriceLevel *= 1 + fs.InflationRate

	fs.GDPGrowth += (rng.Float64()*2 - 1) * 0.005
	fs.GDPGrowth = clamp(fs.GDPGrowth, -0.02, 0.08)

	fs.InflationRate += (rng.Float64()*2 - 1) * 0.002
	fs.InflationRate = clamp(fs.InflationRate, -0.01, 0.10)
}
