package sim

import (
	"math"
	"reflect"
	"testing"

	"github.com/talgya/macrosim/internal/config"
	"github.com/talgya/macrosim/internal/metrics"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.NumConsumers = 40
	cfg.NumFirms = 5
	return cfg
}

func tradeConfig() config.Config {
	cfg := testConfig()
	cfg.Trade.Enabled = true
	cfg.Trade.Partners = config.DefaultPartners()
	cfg.Trade.TariffRate = 0.1
	return cfg
}

func runTicks(t *testing.T, m *Model, n int) []metrics.Snapshot {
	t.Helper()
	out := make([]metrics.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		snap, err := m.Step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		out = append(out, snap)
	}
	return out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TaxRate = 1.5
	if _, err := New(cfg); err == nil {
		t.Fatal("expected ConfigurationError for tax_rate = 1.5")
	}
}

func TestNewAppliesOverrides(t *testing.T) {
	m, err := New(testConfig(), map[string]float64{"tax_rate": 0.35})
	if err != nil {
		t.Fatal(err)
	}
	if m.govt.TaxRate != 0.35 {
		t.Errorf("override not applied: %v", m.govt.TaxRate)
	}

	if _, err := New(testConfig(), map[string]float64{"bogus": 1}); err == nil {
		t.Fatal("expected error for unknown override")
	}
}

func TestDeterministicReplay(t *testing.T) {
	cfg := tradeConfig()

	m1, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	h1 := runTicks(t, m1, 30)
	h2 := runTicks(t, m2, 30)

	if !reflect.DeepEqual(h1, h2) {
		for i := range h1 {
			if !reflect.DeepEqual(h1[i], h2[i]) {
				t.Fatalf("histories diverge at tick %d:\n%+v\n%+v", i+1, h1[i], h2[i])
			}
		}
		t.Fatal("histories differ")
	}
}

func TestResetIdempotent(t *testing.T) {
	cfg := testConfig()

	fresh, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := runTicks(t, fresh, 20)

	reused, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	runTicks(t, reused, 7) // dirty the state
	if err := reused.Reset(cfg); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got := runTicks(t, reused, 20)

	if !reflect.DeepEqual(want, got) {
		t.Fatal("reset run differs from fresh run with the same seed")
	}
}

func TestStockFlowConsistency(t *testing.T) {
	m, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	var prevWealth float64
	for _, c := range m.consumers {
		prevWealth += c.Wealth
	}

	for tick := 0; tick < 25; tick++ {
		snap, err := m.Step()
		if err != nil {
			t.Fatal(err)
		}
		delta := snap.TotalWealth - prevWealth
		flows := snap.TotalNetIncome + snap.TotalWelfare - snap.TotalConsumption
		if math.Abs(delta-flows) > 1e-6 {
			t.Fatalf("tick %d: wealth delta %v != flows %v (leak %v)",
				snap.Tick, delta, flows, delta-flows)
		}
		prevWealth = snap.TotalWealth
	}
}

func TestInvariantBounds(t *testing.T) {
	cfg := tradeConfig()
	cfg.Financial.Enabled = true
	m, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	for tick := 0; tick < 100; tick++ {
		snap, err := m.Step()
		if err != nil {
			t.Fatal(err)
		}
		if snap.Wage < 500 {
			t.Fatalf("tick %d: wage %v below floor", snap.Tick, snap.Wage)
		}
		if snap.PriceLevel <= 0 {
			t.Fatalf("tick %d: price level %v not positive", snap.Tick, snap.PriceLevel)
		}
		if snap.CryptoPrice < 5000 || snap.CryptoPrice > 500000 {
			t.Fatalf("tick %d: crypto price %v out of bounds", snap.Tick, snap.CryptoPrice)
		}
		for _, fs := range m.partners {
			if fs.ExchangeRate < 0.1 || fs.ExchangeRate > 10.0 {
				t.Fatalf("tick %d: %s exchange rate %v out of bounds", snap.Tick, fs.Name, fs.ExchangeRate)
			}
		}
		for _, f := range m.firms {
			if f.Capital < 0 {
				t.Fatalf("tick %d: firm %d capital %v negative", snap.Tick, f.ID, f.Capital)
			}
		}
	}
}

func TestStepAfterCloseFails(t *testing.T) {
	m, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.Close()

	if _, err := m.Step(); err == nil {
		t.Fatal("expected StateError after close")
	} else if _, ok := err.(*StateError); !ok {
		t.Fatalf("expected *StateError, got %T", err)
	}
}

func TestHistoryIsACopy(t *testing.T) {
	m, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	runTicks(t, m, 3)

	h := m.History()
	h[0].GDP = -1
	if m.History()[0].GDP == -1 {
		t.Fatal("history mutated through returned slice")
	}
}
