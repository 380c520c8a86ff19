package trader

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRun_EagerStartAndShutdown(t *testing.T) {
	provider := newMockProvider()
	provider.prices["AAA"] = decimal.NewFromInt(10)
	scr := &MockScreener{symbols: []string{"AAA"}}

	tr := newTestTrader(provider, scr)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		tr.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}

	// The eager start fetched a universe and traded before any timer fired.
	universe := tr.Universe()
	if len(universe) != 1 || universe[0] != "AAA" {
		t.Errorf("Expected eager universe fetch, got %v", universe)
	}
	if scr.calls < 1 {
		t.Error("Expected at least one screener call during eager start")
	}
	if n := len(provider.placedOrders()); n == 0 {
		t.Error("Expected at least one order from the eager trade cycle")
	}
}
