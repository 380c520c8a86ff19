// Package trader contains the trading-cycle orchestrator: market-hours
// gating, budget tracking, position reconciliation, the buy/sell decision
// engine and the two-timer scheduler driving it all.
package trader

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"actives_trader/internal/config"
	"actives_trader/internal/fetch"
	"actives_trader/internal/market"
	"actives_trader/internal/metrics"

	"github.com/shopspring/decimal"
)

// Screener supplies the externally ranked list of symbols to monitor.
type Screener interface {
	TopActives(ctx context.Context, n int) ([]string, error)
}

// Trader owns all mutable trading state: the monitored universe, the
// in-cycle budget and the guard that keeps trade cycles from interleaving.
type Trader struct {
	cfg      *config.Config
	provider market.MarketProvider
	screener Screener

	// trading is the cycle guard: set on cycle entry, cleared on exit,
	// including early returns. Two overlapping timer fires must never run
	// their symbol loops concurrently.
	trading atomic.Bool

	mu       sync.Mutex // protects universe
	universe []string

	budget Budget
	exits  *ExitQueue

	sellMult    decimal.Decimal // 1 + SellGainPct/100
	sizing      decimal.Decimal
	budgetLimit decimal.Decimal
	quotePolicy fetch.Policy
}

func New(cfg *config.Config, provider market.MarketProvider, scr Screener) *Trader {
	return &Trader{
		cfg:         cfg,
		provider:    provider,
		screener:    scr,
		exits:       NewExitQueue(),
		sellMult:    decimal.NewFromInt(1).Add(decimal.NewFromFloat(cfg.SellGainPct).Div(decimal.NewFromInt(100))),
		sizing:      decimal.NewFromFloat(cfg.SizingFraction),
		budgetLimit: decimal.NewFromFloat(cfg.BudgetLimit),
		quotePolicy: fetch.Policy{
			MaxAttempts:       cfg.FetchMaxAttempts,
			BaseDelay:         cfg.FetchBaseDelay(),
			RateLimitCooldown: cfg.RateLimitCooldown(),
		},
	}
}

// VerifyAccount checks that trading is permitted before the scheduler starts.
// This is the only failure class that is fatal to the process.
func (t *Trader) VerifyAccount() error {
	acct, err := t.provider.GetAccount()
	if err != nil {
		return fmt.Errorf("account check failed: %w", err)
	}
	if acct.TradingBlocked {
		return fmt.Errorf("trading is blocked on account %s (status %s)", acct.ID, acct.Status)
	}
	log.Printf("Account %s status: %s", acct.ID, acct.Status)
	return nil
}

// marketOpen queries the market session state. The clock is re-fetched at
// the top of every gated operation since it can change between fetch and
// use; any failure is treated as closed, never trading on an unknown state.
func (t *Trader) marketOpen() bool {
	clock, err := t.provider.GetClock()
	if err != nil {
		log.Printf("Market clock unavailable, treating market as closed: %v", err)
		return false
	}
	return clock.IsOpen
}

// Universe returns a copy of the currently monitored symbols.
func (t *Trader) Universe() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.universe...)
}

// refreshUniverse replaces the monitored universe from the screener. A
// failed or empty refresh keeps the previous universe, so a bad tick simply
// continues trading what we already monitor.
func (t *Trader) refreshUniverse(ctx context.Context) {
	symbols, err := t.screener.TopActives(ctx, t.cfg.StocksToMonitor)
	if err != nil {
		log.Printf("Universe refresh failed, keeping current universe: %v", err)
		return
	}
	if len(symbols) == 0 {
		log.Println("Universe refresh returned no symbols, keeping current universe")
		return
	}

	t.mu.Lock()
	t.universe = symbols
	t.mu.Unlock()

	metrics.UniverseSize.Set(float64(len(symbols)))
	log.Printf("Updated monitored stocks: %v", symbols)
}

// RefreshCycle is the long-period trigger: refresh the universe while the
// market is open, then run one trade cycle immediately rather than waiting
// for the next short-period tick.
func (t *Trader) RefreshCycle(ctx context.Context) {
	if !t.marketOpen() {
		log.Println("Market is closed. Skipping universe refresh.")
		return
	}
	t.refreshUniverse(ctx)
	t.TradeCycle(ctx)
}
