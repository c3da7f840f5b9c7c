package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/macrosim/internal/metrics"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.BeginRun(42, "baseline")
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}
	if err := db.FinishRun(runID); err != nil {
		t.Fatal(err)
	}
}

func TestSaveAndLoadHistory(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.BeginRun(42, "")
	if err != nil {
		t.Fatal(err)
	}

	history := []metrics.Snapshot{
		{Tick: 1, GDP: 1000, Unemployment: 6.5, Inflation: 1.2, Gini: 0.35,
			Wage: 1000, PriceLevel: 10.1, InterestRate: 5, MoneySupply: 1e6},
		{Tick: 2, GDP: 1050, Unemployment: 6.0, Inflation: 1.4, Gini: 0.36,
			Wage: 1020, PriceLevel: 10.2, InterestRate: 5, MoneySupply: 1e6,
			TradeBalance: -30, Imports: 80, Exports: 50, StockIndex: 102.5, CryptoPrice: 51000},
	}
	if err := db.SaveHistory(runID, history); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadHistory(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d snapshots, want 2", len(got))
	}
	if got[0].Tick != 1 || got[1].Tick != 2 {
		t.Errorf("ticks out of order: %d, %d", got[0].Tick, got[1].Tick)
	}
	if got[0].GDP != 1000 || got[1].GDP != 1050 {
		t.Errorf("gdp roundtrip failed: %v, %v", got[0].GDP, got[1].GDP)
	}
	if got[1].TradeBalance != -30 || got[1].CryptoPrice != 51000 {
		t.Errorf("trade/financial fields lost: %+v", got[1])
	}
}

func TestSaveSnapshotUpsert(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.BeginRun(1, "")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.SaveSnapshot(runID, metrics.Snapshot{Tick: 1, GDP: 100}); err != nil {
		t.Fatal(err)
	}
	// Same tick again replaces, not duplicates.
	if err := db.SaveSnapshot(runID, metrics.Snapshot{Tick: 1, GDP: 200}); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadHistory(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].GDP != 200 {
		t.Errorf("gdp = %v, want replaced value 200", got[0].GDP)
	}
}

func TestPolicyEvents(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.BeginRun(1, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SavePolicyEvent(runID, 5, "tax_rate", 0.4); err != nil {
		t.Fatal(err)
	}
}

func TestRunsIsolated(t *testing.T) {
	db := openTestDB(t)
	a, _ := db.BeginRun(1, "")
	b, _ := db.BeginRun(2, "")

	db.SaveSnapshot(a, metrics.Snapshot{Tick: 1, GDP: 100})
	db.SaveSnapshot(b, metrics.Snapshot{Tick: 1, GDP: 999})

	got, err := db.LoadHistory(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].GDP != 100 {
		t.Errorf("run histories bleed together: %+v", got)
	}
}
