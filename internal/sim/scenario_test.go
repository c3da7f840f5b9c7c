package sim

import (
	"testing"
)

func TestApplyScenarioHighTax(t *testing.T) {
	m, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := m.ApplyScenario("high_tax"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.govt.TaxRate != 0.40 {
		t.Errorf("tax rate = %v, want 0.40", m.govt.TaxRate)
	}
}

func TestApplyScenarioRecessionShock(t *testing.T) {
	m, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	var wealthBefore float64
	for _, c := range m.consumers {
		wealthBefore += c.Wealth
	}
	moneyBefore := m.bank.MoneySupply

	if err := m.ApplyScenario("recession_2008"); err != nil {
		t.Fatal(err)
	}

	var wealthAfter float64
	for _, c := range m.consumers {
		wealthAfter += c.Wealth
	}
	if wealthAfter >= wealthBefore {
		t.Errorf("recession did not destroy wealth: %v -> %v", wealthBefore, wealthAfter)
	}
	if m.bank.InterestRate != 0.02 {
		t.Errorf("emergency rate = %v, want 0.02", m.bank.InterestRate)
	}
	if m.bank.MoneySupply <= moneyBefore {
		t.Errorf("no easing applied: %v -> %v", moneyBefore, m.bank.MoneySupply)
	}
}

func TestApplyScenarioUnknown(t *testing.T) {
	m, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.ApplyScenario("hyperdrive"); err == nil {
		t.Fatal("unknown scenario accepted")
	}
}

func TestApplyScenarioTradeWar(t *testing.T) {
	m, err := New(tradeConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := m.ApplyScenario("trade_war"); err != nil {
		t.Fatal(err)
	}
	runTicks(t, m, 20)

	if m.tariffRate != 0.25 {
		t.Fatalf("tariff = %v, want 0.25", m.tariffRate)
	}
	// Partners retaliate toward tariff * sensitivity.
	for _, fs := range m.partners {
		if fs.RetaliationSensitivity > 0 && fs.TariffRate <= 0 {
			t.Errorf("%s did not retaliate", fs.Name)
		}
	}
}

func TestApplyScenarioFTA(t *testing.T) {
	m, err := New(tradeConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := m.ApplyScenario("fta_china"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}

	for _, fs := range m.partners {
		if fs.Name == "China" && fs.TariffRate != 0 {
			t.Errorf("China tariff = %v, want 0", fs.TariffRate)
		}
	}
	if m.tariffRate != 0 {
		t.Errorf("domestic tariff = %v, want 0", m.tariffRate)
	}

	if err := m.ApplyScenario("fta_atlantis"); err == nil {
		t.Fatal("unknown partner accepted")
	}
}

func TestScenariosListed(t *testing.T) {
	m, err := New(tradeConfig())
	if err != nil {
		t.Fatal(err)
	}

	names := m.Scenarios()
	want := map[string]bool{
		"baseline": false, "high_tax": false, "trade_war": false, "fta_china": false,
	}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("scenario %q missing from list", n)
		}
	}
}
