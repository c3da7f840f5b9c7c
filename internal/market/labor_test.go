package market

import (
	"math/rand"
	"testing"

	"github.com/talgya/macrosim/internal/agents"
)

func buildLaborFixture(numWorkers int, demands []int) ([]*agents.Consumer, []*agents.Firm) {
	consumers := make([]*agents.Consumer, numWorkers)
	for i := range consumers {
		consumers[i] = agents.NewConsumer(agents.ConsumerID(i), 1000, 0.7)
	}
	firms := make([]*agents.Firm, len(demands))
	for i, d := range demands {
		f := agents.NewFirm(agents.FirmID(i), 50000, 2.0, 0.7, 10)
		f.LaborDemand = d
		firms[i] = f
	}
	return consumers, firms
}

func TestLaborClearMatchesShortSide(t *testing.T) {
	m := NewLaborMarket(1000)

	t.Run("demand below workforce", func(t *testing.T) {
		consumers, firms := buildLaborFixture(10, []int{3, 2})
		m.Clear(consumers, firms, rand.New(rand.NewSource(1)))

		if m.Employment != 5 {
			t.Errorf("employment = %d, want 5", m.Employment)
		}
		if m.UnemploymentRate != 0.5 {
			t.Errorf("unemployment = %v, want 0.5", m.UnemploymentRate)
		}
		if got := len(firms[0].Employees) + len(firms[1].Employees); got != 5 {
			t.Errorf("firm rosters hold %d workers, want 5", got)
		}
	})

	t.Run("demand above workforce", func(t *testing.T) {
		consumers, firms := buildLaborFixture(4, []int{10})
		m.Clear(consumers, firms, rand.New(rand.NewSource(1)))

		if m.Employment != 4 {
			t.Errorf("employment = %d, want 4", m.Employment)
		}
		if m.UnemploymentRate != 0 {
			t.Errorf("unemployment = %v, want 0", m.UnemploymentRate)
		}
	})
}

func TestLaborClearResetsPreviousMatches(t *testing.T) {
	m := NewLaborMarket(1000)
	consumers, firms := buildLaborFixture(10, []int{5})
	rng := rand.New(rand.NewSource(1))

	m.Clear(consumers, firms, rng)

	// Next tick nobody hires; all prior matches must dissolve.
	firms[0].LaborDemand = 0
	m.Clear(consumers, firms, rng)

	for _, c := range consumers {
		if c.Employed {
			t.Fatalf("consumer %d still employed after zero-demand clear", c.ID)
		}
	}
	if len(firms[0].Employees) != 0 {
		t.Errorf("firm roster not reset: %d", len(firms[0].Employees))
	}
}

func TestLaborClearDeterministic(t *testing.T) {
	m1 := NewLaborMarket(1000)
	m2 := NewLaborMarket(1000)
	c1, f1 := buildLaborFixture(20, []int{4, 3, 2})
	c2, f2 := buildLaborFixture(20, []int{4, 3, 2})

	m1.Clear(c1, f1, rand.New(rand.NewSource(42)))
	m2.Clear(c2, f2, rand.New(rand.NewSource(42)))

	for i := range c1 {
		if c1[i].Employed != c2[i].Employed || c1[i].Employer != c2[i].Employer {
			t.Fatalf("consumer %d matched differently across identical seeds", i)
		}
	}
}

func TestAdjustWage(t *testing.T) {
	cases := []struct {
		name         string
		unemployment float64
		want         float64
	}{
		{"slack labor market", 0.15, 980},
		{"tight labor market", 0.02, 1020},
		{"moderate", 0.07, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewLaborMarket(1000)
			m.UnemploymentRate = tc.unemployment
			m.AdjustWage()
			if m.Wage != tc.want {
				t.Errorf("wage = %v, want %v", m.Wage, tc.want)
			}
		})
	}
}

func TestWageFloor(t *testing.T) {
	m := NewLaborMarket(510)
	m.UnemploymentRate = 0.5
	for i := 0; i < 100; i++ {
		m.AdjustWage()
	}
	if m.Wage < MinWage {
		t.Errorf("wage fell below floor: %v", m.Wage)
	}
}
