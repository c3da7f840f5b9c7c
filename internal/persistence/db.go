// Package persistence provides SQLite-based storage for simulation runs:
// run metadata, per-tick snapshots, and the policy event log.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/macrosim/internal/metrics"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		scenario TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		finished_at TEXT
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		gdp REAL NOT NULL,
		unemployment REAL NOT NULL,
		inflation REAL NOT NULL,
		gini REAL NOT NULL,
		avg_wage REAL NOT NULL,
		wage REAL NOT NULL,
		price_level REAL NOT NULL,
		govt_debt REAL NOT NULL,
		budget_balance REAL NOT NULL,
		interest_rate REAL NOT NULL,
		money_supply REAL NOT NULL,
		total_wealth REAL NOT NULL,
		total_consumption REAL NOT NULL,
		trade_balance REAL NOT NULL DEFAULT 0,
		imports REAL NOT NULL DEFAULT 0,
		exports REAL NOT NULL DEFAULT 0,
		tariff_revenue REAL NOT NULL DEFAULT 0,
		foreign_reserves REAL NOT NULL DEFAULT 0,
		stock_index REAL NOT NULL DEFAULT 0,
		crypto_price REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS policy_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		parameter TEXT NOT NULL,
		value REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
	CREATE INDEX IF NOT EXISTS idx_policy_events_run ON policy_events(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun records a new run and returns its identifier.
func (db *DB) BeginRun(seed int64, scenario string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, seed, scenario, started_at) VALUES (?, ?, ?, ?)",
		id, seed, scenario, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	slog.Info("run started", "run_id", id, "seed", seed, "scenario", scenario)
	return id, nil
}

// FinishRun marks a run as completed.
func (db *DB) FinishRun(runID string) error {
	_, err := db.conn.Exec(
		"UPDATE runs SET finished_at = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339), runID,
	)
	return err
}

// SaveSnapshot appends one tick's indicators to the run.
func (db *DB) SaveSnapshot(runID string, s metrics.Snapshot) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO snapshots
		(run_id, tick, gdp, unemployment, inflation, gini, avg_wage, wage,
		 price_level, govt_debt, budget_balance, interest_rate, money_supply,
		 total_wealth, total_consumption, trade_balance, imports, exports,
		 tariff_revenue, foreign_reserves, stock_index, crypto_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, s.Tick, s.GDP, s.Unemployment, s.Inflation, s.Gini, s.AvgWage, s.Wage,
		s.PriceLevel, s.GovtDebt, s.BudgetBalance, s.InterestRate, s.MoneySupply,
		s.TotalWealth, s.TotalConsumption, s.TradeBalance, s.Imports, s.Exports,
		s.TariffRevenue, s.ForeignReserves, s.StockIndex, s.CryptoPrice,
	)
	if err != nil {
		return fmt.Errorf("save snapshot tick %d: %w", s.Tick, err)
	}
	return nil
}

// SaveHistory writes a full snapshot sequence in one transaction.
func (db *DB) SaveHistory(runID string, history []metrics.Snapshot) error {
	if len(history) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO snapshots
		(run_id, tick, gdp, unemployment, inflation, gini, avg_wage, wage,
		 price_level, govt_debt, budget_balance, interest_rate, money_supply,
		 total_wealth, total_consumption, trade_balance, imports, exports,
		 tariff_revenue, foreign_reserves, stock_index, crypto_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range history {
		_, err := stmt.Exec(
			runID, s.Tick, s.GDP, s.Unemployment, s.Inflation, s.Gini, s.AvgWage, s.Wage,
			s.PriceLevel, s.GovtDebt, s.BudgetBalance, s.InterestRate, s.MoneySupply,
			s.TotalWealth, s.TotalConsumption, s.TradeBalance, s.Imports, s.Exports,
			s.TariffRevenue, s.ForeignReserves, s.StockIndex, s.CryptoPrice,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot tick %d: %w", s.Tick, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("history saved", "run_id", runID, "ticks", len(history))
	return nil
}

// SavePolicyEvent logs one applied policy lever change.
func (db *DB) SavePolicyEvent(runID string, tick int, parameter string, value float64) error {
	_, err := db.conn.Exec(
		"INSERT INTO policy_events (run_id, tick, parameter, value) VALUES (?, ?, ?, ?)",
		runID, tick, parameter, value,
	)
	return err
}

// snapshotRow mirrors the snapshots table for sqlx scanning.
type snapshotRow struct {
	Tick             int     `db:"tick"`
	GDP              float64 `db:"gdp"`
	Unemployment     float64 `db:"unemployment"`
	Inflation        float64 `db:"inflation"`
	Gini             float64 `db:"gini"`
	AvgWage          float64 `db:"avg_wage"`
	Wage             float64 `db:"wage"`
	PriceLevel       float64 `db:"price_level"`
	GovtDebt         float64 `db:"govt_debt"`
	BudgetBalance    float64 `db:"budget_balance"`
	InterestRate     float64 `db:"interest_rate"`
	MoneySupply      float64 `db:"money_supply"`
	TotalWealth      float64 `db:"total_wealth"`
	TotalConsumption float64 `db:"total_consumption"`
	TradeBalance     float64 `db:"trade_balance"`
	Imports          float64 `db:"imports"`
	Exports          float64 `db:"exports"`
	TariffRevenue    float64 `db:"tariff_revenue"`
	ForeignReserves  float64 `db:"foreign_reserves"`
	StockIndex       float64 `db:"stock_index"`
	CryptoPrice      float64 `db:"crypto_price"`
}

// LoadHistory returns a run's snapshot sequence ordered by tick.
func (db *DB) LoadHistory(runID string) ([]metrics.Snapshot, error) {
	var rows []snapshotRow
	err := db.conn.Select(&rows,
		"SELECT tick, gdp, unemployment, inflation, gini, avg_wage, wage, price_level, govt_debt, budget_balance, interest_rate, money_supply, total_wealth, total_consumption, trade_balance, imports, exports, tariff_revenue, foreign_reserves, stock_index, crypto_price FROM snapshots WHERE run_id = ? ORDER BY tick",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	history := make([]metrics.Snapshot, len(rows))
	for i, r := range rows {
		history[i] = metrics.Snapshot{
			Tick: r.Tick, GDP: r.GDP, Unemployment: r.Unemployment,
			Inflation: r.Inflation, Gini: r.Gini, AvgWage: r.AvgWage, Wage: r.Wage,
			PriceLevel: r.PriceLevel, GovtDebt: r.GovtDebt, BudgetBalance: r.BudgetBalance,
			InterestRate: r.InterestRate, MoneySupply: r.MoneySupply,
			TotalWealth: r.TotalWealth, TotalConsumption: r.TotalConsumption,
			TradeBalance: r.TradeBalance, Imports: r.Imports, Exports: r.Exports,
			TariffRevenue: r.TariffRevenue, ForeignReserves: r.ForeignReserves,
			StockIndex: r.StockIndex, CryptoPrice: r.CryptoPrice,
		}
	}
	return history, nil
}
