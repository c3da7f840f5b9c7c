package sim

import (
	"log/slog"

	"github.com/talgya/macrosim/internal/agents"
	"github.com/talgya/macrosim/internal/config"
)

// policyUpdate is a validated lever change waiting for the next tick
// boundary.
type policyUpdate struct {
	name  string
	value float64
}

// policyRange defines the accepted interval for a lever.
type policyRange struct {
	lo, hi float64
}

// policyRegistry enumerates every settable lever and its valid range.
var policyRegistry = map[string]policyRange{
	"tax_rate":         {0, 1},
	"vat_rate":         {0, 1},
	"payroll_rate":     {0, 1},
	"corporate_rate":   {0, 1},
	"welfare_payment":  {0, 1e9},
	"govt_spending":    {0, 1e12},
	"interest_rate":    {agents.MinInterestRate, agents.MaxInterestRate},
	"inflation_target": {0, 0.10},
	"tariff_rate":      {0, 1},
	"auto_policy":      {0, 1},
	"qe":               {0, 1e12},
	"qt":               {0, 1e12},
}

// SetPolicy validates a policy lever update and stages it for the next
// tick. Out-of-range values are rejected with a ValidationError and leave
// the model unchanged; staged updates apply atomically before step 1.
func (m *Model) SetPolicy(name string, value float64) error {
	r, ok := policyRegistry[name]
	if !ok {
		return &config.ValidationError{Field: name, Reason: "unknown policy parameter"}
	}
	if value < r.lo || value > r.hi {
		return &config.ValidationError{Field: name, Reason: "out of range"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return &StateError{Op: "set_policy"}
	}

	m.pending = append(m.pending, policyUpdate{name: name, value: value})
	slog.Info("policy staged", "parameter", name, "value", value)
	return nil
}

// applyPending applies every staged update in arrival order. Values were
// validated at staging time; application cannot fail. Caller holds the
// mutex.
func (m *Model) applyPending() {
	for _, u := range m.pending {
		m.applyPolicy(u.name, u.value)
	}
	m.pending = nil
}

func (m *Model) applyPolicy(name string, value float64) {
	switch name {
	case "tax_rate":
		m.govt.TaxRate = value
	case "vat_rate":
		m.govt.VATRate = value
	case "payroll_rate":
		m.govt.PayrollRate = value
	case "corporate_rate":
		m.govt.CorporateRate = value
	case "welfare_payment":
		m.govt.WelfarePayment = value
	case "govt_spending":
		m.govt.Spending = value
	case "interest_rate":
		m.bank.InterestRate = value
	case "inflation_target":
		m.bank.InflationTarget = value
	case "tariff_rate":
		m.tariffRate = value
	case "auto_policy":
		m.bank.AutoPolicy = value >= 0.5
	case "qe":
		m.bank.QuantitativeEasing(value)
	case "qt":
		m.bank.QuantitativeTightening(value)
	}
}
