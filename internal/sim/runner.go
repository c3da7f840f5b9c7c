package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/macrosim/internal/metrics"
)

// reportEvery controls how often the runner logs a progress report.
const reportEvery = 10

// Runner drives a model forward on a wall clock. Ticks run strictly one
// at a time; stopping takes effect at the next tick boundary.
type Runner struct {
	Model    *Model
	Speed    float64       // multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // base tick interval

	// OnSnapshot, when set, receives every tick's snapshot.
	OnSnapshot func(metrics.Snapshot)

	stop chan struct{}
}

// NewRunner creates a runner over the given model at the default pace of
// one tick per second.
func NewRunner(m *Model) *Runner {
	return &Runner{
		Model:    m,
		Speed:    1.0,
		Interval: time.Second,
		stop:     make(chan struct{}),
	}
}

// Run steps the model until Stop is called, maxTicks is reached
// (0 = unbounded), or a step fails. Blocks the calling goroutine.
func (r *Runner) Run(maxTicks int) error {
	slog.Info("run loop started", "speed", r.Speed, "interval", r.Interval)

	for ticks := 0; maxTicks == 0 || ticks < maxTicks; ticks++ {
		select {
		case <-r.stop:
			slog.Info("run loop stopped", "tick", r.Model.Tick())
			return nil
		default:
		}

		if r.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			ticks--
			continue
		}

		start := time.Now()

		snap, err := r.Model.Step()
		if err != nil {
			return err
		}
		if r.OnSnapshot != nil {
			r.OnSnapshot(snap)
		}
		if snap.Tick%reportEvery == 0 {
			r.report(snap)
		}

		elapsed := time.Since(start)
		target := time.Duration(float64(r.Interval) / r.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("run loop finished", "tick", r.Model.Tick())
	return nil
}

// Stop halts the loop at the next tick boundary. Safe to call once.
func (r *Runner) Stop() {
	close(r.stop)
}

func (r *Runner) report(snap metrics.Snapshot) {
	slog.Info("economy report",
		"tick", snap.Tick,
		"gdp", humanize.Commaf(float64(int64(snap.GDP))),
		"unemployment", fmt.Sprintf("%.1f%%", snap.Unemployment),
		"inflation", fmt.Sprintf("%.2f%%", snap.Inflation),
		"gini", fmt.Sprintf("%.3f", snap.Gini),
		"interest_rate", fmt.Sprintf("%.2f%%", snap.InterestRate),
		"price_level", fmt.Sprintf("%.2f", snap.PriceLevel),
		"govt_debt", humanize.Commaf(float64(int64(snap.GovtDebt))),
	)
}
