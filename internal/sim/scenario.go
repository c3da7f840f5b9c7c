package sim

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/talgya/macrosim/internal/config"
)

// A scenario is a named batch of lever updates, optionally paired with a
// one-off shock applied at the same tick boundary.
type scenario struct {
	description string
	levers      []policyUpdate
	shock       func(*Model)
}

var scenarios = map[string]scenario{
	"baseline": {
		description: "default levers, no intervention",
	},
	"high_tax": {
		description: "income tax raised to 40%",
		levers:      []policyUpdate{{"tax_rate", 0.40}},
	},
	"low_tax": {
		description: "income tax cut to 10%",
		levers:      []policyUpdate{{"tax_rate", 0.10}},
	},
	"recession_2008": {
		description: "financial crisis: wealth and capital destruction, emergency easing",
		shock: func(m *Model) {
			for _, c := range m.consumers {
				c.Wealth *= 0.70
			}
			for _, f := range m.firms {
				f.Capital *= 0.80
				f.ExpectedDemand *= 0.70
			}
			m.bank.CrisisResponse("recession")
		},
	},
	"covid_2020": {
		description: "pandemic: demand collapse offset by fiscal transfers and zero rates",
		levers: []policyUpdate{
			{"interest_rate", 0.0},
			{"welfare_payment", 1200},
			{"govt_spending", 25000},
		},
		shock: func(m *Model) {
			for _, f := range m.firms {
				f.ExpectedDemand *= 0.60
			}
		},
	},
	"inflation_1970s": {
		description: "supply shock: price surge met with aggressive tightening",
		shock: func(m *Model) {
			for _, f := range m.firms {
				f.Price *= 1.20
			}
			m.goods.PriceLevel *= 1.20
			m.bank.CrisisResponse("inflation")
		},
	},
	"taylor_rule": {
		description: "hand monetary policy to the Taylor rule",
		levers:      []policyUpdate{{"auto_policy", 1}},
	},
	"ubi_experiment": {
		description: "universal transfer funded by a higher income tax",
		levers: []policyUpdate{
			{"welfare_payment", 1500},
			{"tax_rate", 0.35},
		},
		shock: func(m *Model) {
			// UBI goes to everyone, not only the unemployed.
			for _, c := range m.consumers {
				c.Wealth += 1500
			}
		},
	},
	"trade_war": {
		description: "25% import tariff, partners retaliate over time",
		levers:      []policyUpdate{{"tariff_rate", 0.25}},
	},
}

// Scenarios lists the available preset names, sorted, including one
// free-trade-agreement entry per configured partner.
func (m *Model) Scenarios() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(scenarios)+len(m.partners))
	for name := range scenarios {
		names = append(names, name)
	}
	for _, fs := range m.partners {
		names = append(names, "fta_"+strings.ToLower(fs.Name))
	}
	sort.Strings(names)
	return names
}

// ApplyScenario applies a named preset at the current tick boundary:
// its lever batch is staged like any SetPolicy call and its shock runs
// immediately. Unknown names are rejected.
func (m *Model) ApplyScenario(name string) error {
	if strings.HasPrefix(name, "fta_") {
		return m.applyFTA(strings.TrimPrefix(name, "fta_"))
	}

	s, ok := scenarios[name]
	if !ok {
		return &config.ValidationError{Field: name, Reason: "unknown scenario"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return &StateError{Op: "apply_scenario"}
	}

	m.pending = append(m.pending, s.levers...)
	if s.shock != nil {
		s.shock(m)
	}
	slog.Info("scenario applied", "scenario", name, "description", s.description)
	return nil
}

// applyFTA zeroes tariffs bilaterally with the named partner.
func (m *Model) applyFTA(partner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return &StateError{Op: "apply_scenario"}
	}

	for _, fs := range m.partners {
		if strings.EqualFold(fs.Name, partner) {
			fs.TariffRate = 0
			fs.RetaliationSensitivity = 0
			m.pending = append(m.pending, policyUpdate{"tariff_rate", 0})
			slog.Info("scenario applied", "scenario", "fta_"+partner)
			return nil
		}
	}
	return &config.ValidationError{Field: "fta_" + partner, Reason: "unknown trade partner"}
}
