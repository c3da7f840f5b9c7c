// Package sim provides the simulation orchestrator: it owns the agent
// population, the markets, the seeded random source, and the metrics
// history, and advances the economy one tick at a time.
package sim

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/talgya/macrosim/internal/agents"
	"github.com/talgya/macrosim/internal/config"
	"github.com/talgya/macrosim/internal/finmarkets"
	"github.com/talgya/macrosim/internal/market"
	"github.com/talgya/macrosim/internal/metrics"
)

// Model is the complete economy state. All mutation goes through Step,
// which holds the mutex for the whole tick; agents never share the
// random source or write each other's state.
type Model struct {
	mu     sync.Mutex
	cfg    config.Config
	rng    *rand.Rand
	tick   int
	closed bool

	consumers []*agents.Consumer
	firms     []*agents.Firm
	govt      *agents.Government
	bank      *agents.CentralBank
	partners  []*agents.ForeignSector

	labor   *market.LaborMarket
	goods   *market.GoodsMarket
	capital *market.CapitalMarket

	stocks *finmarkets.StockMarket
	crypto *finmarkets.CryptoMarket

	// Domestic tariff on imports, a policy lever.
	tariffRate float64

	history metrics.History
	pending []policyUpdate
}

// New builds a model from the given configuration. Optional calibration
// overrides (flat parameter name to value) are applied before validation.
func New(cfg config.Config, overrides ...map[string]float64) (*Model, error) {
	for _, o := range overrides {
		if err := cfg.ApplyOverrides(o); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{}
	m.initialize(cfg)

	slog.Info("model initialized",
		"seed", cfg.Seed,
		"consumers", cfg.NumConsumers,
		"firms", cfg.NumFirms,
		"trade", cfg.Trade.Enabled,
		"financial", cfg.Financial.Enabled,
	)
	return m, nil
}

// initialize builds fresh state from configuration. Caller holds the
// mutex or owns the model exclusively.
func (m *Model) initialize(cfg config.Config) {
	m.cfg = cfg
	m.rng = rand.New(rand.NewSource(cfg.Seed))
	m.tick = 0
	m.closed = false
	m.pending = nil
	m.history.Reset()

	m.consumers = make([]*agents.Consumer, cfg.NumConsumers)
	for i := range m.consumers {
		wealth := math.Max(0, cfg.InitialWealthMean+cfg.InitialWealthStd*m.rng.NormFloat64())
		c := agents.NewConsumer(agents.ConsumerID(i), wealth, cfg.MPC)
		if cfg.Financial.Enabled {
			tol := cfg.Financial.RiskTolerance + (m.rng.Float64()*2-1)*0.2
			c.RiskTolerance = math.Min(math.Max(tol, 0), 1)
		}
		m.consumers[i] = c
	}

	// Firms start expecting an even split of aggregate initial spending.
	expected := cfg.MPC * cfg.InitialWealthMean * float64(cfg.NumConsumers) /
		(cfg.InitialPrice * float64(cfg.NumFirms))

	m.firms = make([]*agents.Firm, cfg.NumFirms)
	for i := range m.firms {
		capital := math.Max(1000, cfg.InitialCapitalMean+cfg.InitialCapitalStd*m.rng.NormFloat64())
		f := agents.NewFirm(agents.FirmID(i), capital, cfg.Productivity, cfg.Gamma, cfg.InitialPrice)
		f.ExpectedDemand = expected
		m.firms[i] = f
	}

	m.govt = agents.NewGovernment(cfg)
	m.bank = agents.NewCentralBank(cfg)

	m.labor = market.NewLaborMarket(cfg.InitialWage)
	m.goods = market.NewGoodsMarket(cfg)

	m.partners = nil
	m.capital = nil
	m.tariffRate = 0
	if cfg.Trade.Enabled {
		m.tariffRate = cfg.Trade.TariffRate
		m.partners = make([]*agents.ForeignSector, len(cfg.Trade.Partners))
		for i, p := range cfg.Trade.Partners {
			m.partners[i] = agents.NewForeignSector(p)
		}
		m.capital = market.NewCapitalMarket(cfg.Trade.ForeignReserves, cfg.Trade.InterventionStrength, m.partners)
	}

	m.stocks = nil
	m.crypto = nil
	if cfg.Financial.Enabled {
		m.stocks = finmarkets.NewStockMarket(m.firms, cfg.Financial.SharesPerFirm)
		m.crypto = finmarkets.NewCryptoMarket(cfg.Financial.CryptoInitialPrice)
	}
}

// Reset reinitializes the model to a fresh state. A reset model with the
// same configuration produces the identical snapshot sequence as a newly
// constructed one.
func (m *Model) Reset(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return &StateError{Op: "reset"}
	}
	m.initialize(cfg)
	slog.Info("model reset", "seed", cfg.Seed)
	return nil
}

// Config returns a copy of the active configuration.
func (m *Model) Config() config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Tick returns the number of completed ticks.
func (m *Model) Tick() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick
}

// History returns a copy of the full ordered snapshot sequence.
func (m *Model) History() []metrics.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.All()
}

// Latest returns the most recent snapshot, or false before the first tick.
func (m *Model) Latest() (metrics.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Latest()
}

// Close tears the model down. Further Step calls fail with a StateError.
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
