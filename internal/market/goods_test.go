package market

import (
	"math"
	"testing"

	"github.com/talgya/macrosim/internal/agents"
	"github.com/talgya/macrosim/internal/config"
)

func TestShortSide(t *testing.T) {
	traded, excess := ShortSide(120, 100)
	if traded != 100 {
		t.Errorf("traded = %v, want 100", traded)
	}
	if math.Abs(excess-0.2) > 1e-12 {
		t.Errorf("excess ratio = %v, want 0.2", excess)
	}

	traded, excess = ShortSide(80, 100)
	if traded != 80 {
		t.Errorf("traded = %v, want 80", traded)
	}
	if math.Abs(excess-(-0.2)) > 1e-12 {
		t.Errorf("excess ratio = %v, want -0.2", excess)
	}
}

func TestAllocateDemandPrefersCheaperFirms(t *testing.T) {
	m := NewGoodsMarket(config.Default())

	cheap := agents.NewFirm(0, 50000, 2.0, 0.7, 8)
	dear := agents.NewFirm(1, 50000, 2.0, 0.7, 12)
	c := agents.NewConsumer(0, 0, 0.7)
	c.Consumption = 1000

	demand := m.AllocateDemand([]*agents.Consumer{c}, []*agents.Firm{cheap, dear})
	if demand[0] <= demand[1] {
		t.Errorf("cheaper firm got %v, dearer got %v; want cheap > dear", demand[0], demand[1])
	}
	if demand[0] <= 0 || demand[1] <= 0 {
		t.Errorf("both firms should receive some demand: %v", demand)
	}
}

func TestClearContinuousPricing(t *testing.T) {
	cfg := config.Default()
	m := NewGoodsMarket(cfg)

	firms := []*agents.Firm{
		agents.NewFirm(0, 50000, 2.0, 0.7, 10),
		agents.NewFirm(1, 50000, 2.0, 0.7, 10),
	}
	for _, f := range firms {
		f.Employees = []agents.ConsumerID{0, 1, 2}
		f.Produce(cfg.Production)
	}

	consumers := []*agents.Consumer{agents.NewConsumer(0, 0, 0.7)}
	consumers[0].Consumption = 500

	res := m.Clear(consumers, firms, 0, 0, 0, 1000, cfg.ThetaDemand, cfg.ThetaCost)

	if res.QuantityTraded != math.Min(res.TotalDemand, res.TotalSupply) {
		t.Errorf("short side violated: traded %v, demand %v, supply %v",
			res.QuantityTraded, res.TotalDemand, res.TotalSupply)
	}
	if res.PriceLevel <= 0 {
		t.Errorf("price level not positive: %v", res.PriceLevel)
	}

	// Demand of 50 units against supply of ~8.6 means excess demand;
	// continuous pricing must push firm prices up.
	for _, f := range firms {
		if f.Price <= 10 {
			t.Errorf("firm %d price %v did not rise under excess demand", f.ID, f.Price)
		}
	}
}

func TestClearThresholdPricing(t *testing.T) {
	cfg := config.Default()
	cfg.Pricing = config.PricingThreshold
	m := NewGoodsMarket(cfg)

	firm := agents.NewFirm(0, 50000, 2.0, 0.7, 10)
	firm.Employees = []agents.ConsumerID{0}
	firm.Produce(cfg.Production)

	consumers := []*agents.Consumer{agents.NewConsumer(0, 0, 0.7)}
	consumers[0].Consumption = 10000 // massive excess demand

	before := m.PriceLevel
	m.Clear(consumers, []*agents.Firm{firm}, 0, 0, 0, 1000, cfg.ThetaDemand, cfg.ThetaCost)

	if math.Abs(m.PriceLevel-before*1.03) > 1e-9 {
		t.Errorf("price level = %v, want +3%% move to %v", m.PriceLevel, before*1.03)
	}
	if math.Abs(firm.Price-10.5) > 1e-9 {
		t.Errorf("firm price = %v, want +5%% move to 10.5", firm.Price)
	}
}

func TestClearImportsDisplaceDomesticSales(t *testing.T) {
	cfg := config.Default()
	m := NewGoodsMarket(cfg)

	withImports := agents.NewFirm(0, 50000, 2.0, 0.7, 10)
	withImports.Employees = []agents.ConsumerID{0, 1, 2, 3}
	withImports.Produce(cfg.Production)

	without := agents.NewFirm(0, 50000, 2.0, 0.7, 10)
	without.Employees = []agents.ConsumerID{0, 1, 2, 3}
	without.Produce(cfg.Production)

	makeConsumers := func() []*agents.Consumer {
		c := agents.NewConsumer(0, 0, 0.7)
		c.Consumption = 100
		return []*agents.Consumer{c}
	}

	m.Clear(makeConsumers(), []*agents.Firm{withImports}, 0, 0, 5, 1000, 0.1, 0.1)
	m2 := NewGoodsMarket(cfg)
	m2.Clear(makeConsumers(), []*agents.Firm{without}, 0, 0, 0, 1000, 0.1, 0.1)

	if withImports.Revenue >= without.Revenue {
		t.Errorf("imports did not displace domestic sales: with %v, without %v",
			withImports.Revenue, without.Revenue)
	}
}

func TestClearInflationSign(t *testing.T) {
	cfg := config.Default()
	cfg.Pricing = config.PricingThreshold
	m := NewGoodsMarket(cfg)

	firm := agents.NewFirm(0, 50000, 2.0, 0.7, 10)
	firm.Employees = []agents.ConsumerID{0}
	firm.Produce(cfg.Production)

	c := agents.NewConsumer(0, 0, 0.7)
	c.Consumption = 10000
	m.Clear([]*agents.Consumer{c}, []*agents.Firm{firm}, 0, 0, 0, 1000, 0.1, 0.1)

	if m.Inflation <= 0 {
		t.Errorf("inflation = %v, want positive under excess demand", m.Inflation)
	}
}
