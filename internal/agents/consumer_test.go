package agents

import (
	"math"
	"testing"
)

func TestConsumerDecide(t *testing.T) {
	c := NewConsumer(0, 1000, 0.7)
	c.Hire(1, 2000)
	c.TaxesPaid = 400 // 20% of income

	c.Decide(10)

	// cash on hand = 1000 + 1600 = 2600; budget = 0.7 * 2600 = 1820
	if math.Abs(c.Consumption-1820) > 1e-9 {
		t.Errorf("consumption = %v, want 1820", c.Consumption)
	}
	if math.Abs(c.QuantityWanted-182) > 1e-9 {
		t.Errorf("quantity wanted = %v, want 182", c.QuantityWanted)
	}
	if math.Abs(c.Wealth-780) > 1e-9 {
		t.Errorf("wealth = %v, want 780", c.Wealth)
	}
}

func TestConsumerDecideWelfareCreditedOnce(t *testing.T) {
	c := NewConsumer(0, 0, 0.5)
	c.WelfareReceived = 500

	c.Decide(10)

	// wealth' = (0 + 0 + 500) - 250
	if math.Abs(c.Wealth-250) > 1e-9 {
		t.Errorf("wealth = %v, want 250", c.Wealth)
	}
	if math.Abs(c.Consumption-250) > 1e-9 {
		t.Errorf("consumption = %v, want 250", c.Consumption)
	}
}

func TestConsumerDecideNeverNegativeWealth(t *testing.T) {
	c := NewConsumer(0, 100, 1.0)
	c.Hire(1, 500)
	c.Decide(10)
	if c.Wealth < 0 {
		t.Errorf("wealth went negative: %v", c.Wealth)
	}
}

func TestConsumerStockFlowIdentity(t *testing.T) {
	c := NewConsumer(0, 3250, 0.7)
	c.Hire(2, 1234.56)
	c.TaxesPaid = 246.912
	c.WelfareReceived = 0

	before := c.Wealth
	c.Decide(10)

	delta := c.Wealth - before
	want := c.NetIncome() + c.WelfareReceived - c.Consumption
	if math.Abs(delta-want) > 1e-9 {
		t.Errorf("wealth delta %v != net income + welfare - consumption %v", delta, want)
	}
}

func TestConsumerEmploymentCycle(t *testing.T) {
	c := NewConsumer(0, 0, 0.7)
	c.Hire(3, 1000)
	if !c.Employed || c.Employer != 3 || c.Income != 1000 {
		t.Fatalf("hire not recorded: %+v", c)
	}

	c.SeekEmployment()
	if c.Employed || c.Employer != NoFirm || c.Income != 0 {
		t.Fatalf("seek did not clear employment: %+v", c)
	}
}
