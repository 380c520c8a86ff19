package trader

import (
	"context"
	"log"
	"time"
)

// Run drives the two periodic triggers until ctx is canceled: frequent trade
// cycles and infrequent universe refreshes. Cycles execute on this goroutine,
// so cancellation stops the scheduling of new ticks while an in-flight cycle
// runs each symbol to completion; the cycle guard covers the refresh path
// kicking off an immediate trade attempt.
func (t *Trader) Run(ctx context.Context) {
	// Eager start: fetch a universe and run one refresh and one trade cycle
	// before the timers begin, so the process is active immediately rather
	// than waiting a full period.
	t.refreshUniverse(ctx)
	log.Printf("Monitoring stocks: %v", t.Universe())
	t.RefreshCycle(ctx)
	t.TradeCycle(ctx)

	tradeTicker := time.NewTicker(t.cfg.TradeInterval())
	defer tradeTicker.Stop()
	refreshTicker := time.NewTicker(t.cfg.RefreshInterval())
	defer refreshTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopping...")
			return
		case <-tradeTicker.C:
			next := time.Now().Add(t.cfg.TradeInterval())
			log.Printf("Next trade cycle scheduled for: %s", next.Format("2006-01-02 15:04:05 MST"))
			t.TradeCycle(ctx)
		case <-refreshTicker.C:
			t.RefreshCycle(ctx)
		}
	}
}
