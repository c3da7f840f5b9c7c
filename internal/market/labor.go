// Package market provides the clearing mechanisms for labor, goods, and
// the capital/FX account.
package market

import (
	"math/rand"

	"github.com/talgya/macrosim/internal/agents"
)

// MinWage is the floor below which the market wage never falls.
const MinWage = 500.0

// LaborMarket clears firm job openings against unemployed workers and
// adjusts the economy-wide wage.
type LaborMarket struct {
	Wage             float64 `json:"wage"`
	Employment       int     `json:"employment"`
	UnemploymentRate float64 `json:"unemployment_rate"` // fraction, not percent
}

// NewLaborMarket creates a labor market at the given starting wage.
func NewLaborMarket(initialWage float64) *LaborMarket {
	return &LaborMarket{Wage: initialWage}
}

// Clear runs the per-tick match: all employment is reset, firm openings
// are collected, the unemployed pool is shuffled with the tick's seed
// state, and workers are matched round-robin until openings or workers run
// out. Matching is arbitrary but seed-deterministic.
func (m *LaborMarket) Clear(consumers []*agents.Consumer, firms []*agents.Firm, rng *rand.Rand) {
	for _, c := range consumers {
		c.SeekEmployment()
	}

	var openings []*agents.Firm
	for _, f := range firms {
		f.Employees = f.Employees[:0]
		for i := 0; i < f.LaborDemand; i++ {
			openings = append(openings, f)
		}
	}

	pool := make([]*agents.Consumer, len(consumers))
	copy(pool, consumers)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	matches := 0
	for _, firm := range openings {
		if matches >= len(pool) {
			break
		}
		worker := pool[matches]
		worker.Hire(firm.ID, m.Wage)
		firm.Employees = append(firm.Employees, worker.ID)
		matches++
	}

	m.Employment = matches
	if len(consumers) > 0 {
		m.UnemploymentRate = 1 - float64(matches)/float64(len(consumers))
	} else {
		m.UnemploymentRate = 0
	}
}

// AdjustWage moves the wage with labor market slack: down 2% above 10%
// unemployment, up 2% below 5%, never below the floor.
func (m *LaborMarket) AdjustWage() {
	switch {
	case m.UnemploymentRate > 0.10:
		m.Wage *= 0.98
	case m.UnemploymentRate < 0.05:
		m.Wage *= 1.02
	}
	if m.Wage < MinWage {
		m.Wage = MinWage
	}
}
