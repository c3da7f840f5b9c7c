// Command macrosim runs the multi-country macroeconomy simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/macrosim/internal/api"
	"github.com/talgya/macrosim/internal/config"
	"github.com/talgya/macrosim/internal/metrics"
	"github.com/talgya/macrosim/internal/persistence"
	"github.com/talgya/macrosim/internal/sim"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file (defaults apply when empty)")
		seed       = flag.Int64("seed", 0, "override the random seed (0 = use config)")
		steps      = flag.Int("steps", 0, "run this many ticks and exit (0 = run until stopped)")
		port       = flag.Int("port", 8080, "HTTP API port (0 = no API)")
		scenario   = flag.String("scenario", "", "apply a named scenario preset at start")
		dbPath     = flag.String("db", "data/macrosim.db", "SQLite run database path (empty = no persistence)")
		trade      = flag.Bool("trade", false, "enable foreign trade with the default partners")
		financial  = flag.Bool("financial", false, "enable the stock and crypto markets")
		speed      = flag.Float64("speed", 0, "ticks per second for paced runs (0 = as fast as possible)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		slog.Info("config loaded", "path", *configPath)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *trade {
		cfg.Trade.Enabled = true
		if len(cfg.Trade.Partners) == 0 {
			cfg.Trade.Partners = config.DefaultPartners()
		}
	}
	if *financial {
		cfg.Financial.Enabled = true
	}

	model, err := sim.New(cfg)
	if err != nil {
		slog.Error("failed to initialize model", "error", err)
		os.Exit(1)
	}
	defer model.Close()

	if *scenario != "" {
		if err := model.ApplyScenario(*scenario); err != nil {
			slog.Error("scenario rejected", "scenario", *scenario, "error", err)
			os.Exit(1)
		}
	}

	// ── Run database ──────────────────────────────────────────────────
	var db *persistence.DB
	var runID string
	if *dbPath != "" {
		os.MkdirAll(filepath.Dir(*dbPath), 0755)
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runID, err = db.BeginRun(cfg.Seed, *scenario)
		if err != nil {
			slog.Error("failed to record run", "error", err)
			os.Exit(1)
		}
	}

	runner := sim.NewRunner(model)
	if *speed > 0 {
		runner.Speed = *speed
	} else {
		// Unpaced batch run.
		runner.Speed = 1
		runner.Interval = 0
	}

	var hub *api.Hub
	if *port > 0 {
		hub = api.NewHub()

		adminKey := os.Getenv("MACROSIM_ADMIN_KEY")
		if adminKey == "" {
			slog.Warn("MACROSIM_ADMIN_KEY not set — policy POST endpoints will be disabled")
		}

		server := &api.Server{
			Model:    model,
			Runner:   runner,
			DB:       db,
			RunID:    runID,
			Port:     *port,
			AdminKey: adminKey,
			Hub:      hub,
		}
		server.Start()
	}

	runner.OnSnapshot = func(snap metrics.Snapshot) {
		if hub != nil {
			hub.Broadcast(snap)
		}
		if db != nil {
			if err := db.SaveSnapshot(runID, snap); err != nil {
				slog.Error("snapshot not persisted", "tick", snap.Tick, "error", err)
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		runner.Stop()
	}()

	if err := runner.Run(*steps); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	if db != nil {
		if err := db.FinishRun(runID); err != nil {
			slog.Error("run not finalized", "error", err)
		}
	}

	if snap, ok := model.Latest(); ok {
		fmt.Printf("\nFinal state after %d ticks:\n", snap.Tick)
		fmt.Printf("  GDP:           %s\n", humanize.Commaf(float64(int64(snap.GDP))))
		fmt.Printf("  Unemployment:  %.1f%%\n", snap.Unemployment)
		fmt.Printf("  Inflation:     %.2f%%\n", snap.Inflation)
		fmt.Printf("  Gini:          %.3f\n", snap.Gini)
		fmt.Printf("  Interest rate: %.2f%%\n", snap.InterestRate)
		fmt.Printf("  Govt debt:     %s\n", humanize.Commaf(float64(int64(snap.GovtDebt))))
	}
}
