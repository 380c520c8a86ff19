package trader

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBudget_ResyncCapsAtLimit(t *testing.T) {
	var b Budget

	b.Resync(decimal.NewFromInt(20000), decimal.NewFromInt(5000))
	if !b.Remaining().Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected limit cap 5000, got %s", b.Remaining())
	}

	b.Resync(decimal.NewFromInt(300), decimal.NewFromInt(5000))
	if !b.Remaining().Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected buying power 300, got %s", b.Remaining())
	}
}

func TestBudget_ReserveAndRelease(t *testing.T) {
	var b Budget
	b.Resync(decimal.NewFromInt(1000), decimal.NewFromInt(5000))

	b.Reserve(decimal.NewFromFloat(250.50))
	if !b.Remaining().Equal(decimal.NewFromFloat(749.50)) {
		t.Errorf("Expected 749.50 after reserve, got %s", b.Remaining())
	}

	b.Release(decimal.NewFromFloat(100.25))
	if !b.Remaining().Equal(decimal.NewFromFloat(849.75)) {
		t.Errorf("Expected 849.75 after release, got %s", b.Remaining())
	}

	// Resync discards anything accumulated in the previous cycle.
	b.Resync(decimal.NewFromInt(42), decimal.NewFromInt(5000))
	if !b.Remaining().Equal(decimal.NewFromInt(42)) {
		t.Errorf("Expected fresh 42 after resync, got %s", b.Remaining())
	}
}
