package trader

import (
	"context"
	"log"
	"time"

	"actives_trader/internal/fetch"
	"actives_trader/internal/metrics"
	"actives_trader/internal/models"

	"github.com/shopspring/decimal"
)

// TradeCycle runs one complete pass: gate check, guard acquisition, budget
// resync, position reconciliation and the per-symbol decision loop. The
// guard is released on every exit path; no single symbol's failure aborts
// the cycle.
func (t *Trader) TradeCycle(ctx context.Context) {
	if !t.marketOpen() {
		log.Println("Market is closed. Skipping trade cycle.")
		metrics.Cycles.WithLabelValues("market_closed").Inc()
		return
	}

	if !t.trading.CompareAndSwap(false, true) {
		log.Println("Trade cycle already running. Skipping this execution.")
		metrics.Cycles.WithLabelValues("busy").Inc()
		return
	}
	defer t.trading.Store(false)

	acct, err := t.provider.GetAccount()
	if err != nil {
		log.Printf("Error fetching buying power, skipping cycle: %v", err)
		metrics.Cycles.WithLabelValues("failed").Inc()
		return
	}
	t.budget.Resync(acct.BuyingPower, t.budgetLimit)
	t.publishBudget()

	log.Printf("Running trade cycle... Remaining Budget: $%s", t.budget.Remaining().StringFixed(2))

	held := t.reconcilePositions()

	now := time.Now()
	t.processDueExits(ctx, now, held)

	processed := make(map[string]bool)
	for _, symbol := range t.Universe() {
		if processed[symbol] {
			continue
		}
		processed[symbol] = true
		t.processSymbol(ctx, symbol, held, now)
	}

	metrics.Cycles.WithLabelValues("completed").Inc()
}

// reconcilePositions fetches the broker's positions keyed by symbol. On
// failure the system degrades to "assume no holdings": overbuying is bounded
// by the budget and the broker stays the source of truth regardless.
func (t *Trader) reconcilePositions() map[string]models.Position {
	held := make(map[string]models.Position)

	positions, err := t.provider.ListPositions()
	if err != nil {
		log.Printf("Error fetching positions, assuming no holdings: %v", err)
		return held
	}

	for _, p := range positions {
		if _, ok := held[p.Symbol]; ok {
			continue
		}
		held[p.Symbol] = p
	}
	return held
}

// processSymbol prices one symbol and applies the buy/sell heuristic.
func (t *Trader) processSymbol(ctx context.Context, symbol string, held map[string]models.Position, now time.Time) {
	quote, err := fetch.Do(ctx, "price for "+symbol, t.quotePolicy, func() (*models.Quote, error) {
		return t.provider.GetQuote(symbol)
	})
	if err != nil {
		// No data is not a price of zero. Skip the symbol entirely.
		log.Printf("No price for %s, skipping: %v", symbol, err)
		metrics.Decisions.WithLabelValues("skip").Inc()
		return
	}
	price := quote.ClosePrice
	if price.Sign() <= 0 {
		log.Printf("Ignoring non-positive price for %s: %s", symbol, price)
		metrics.Decisions.WithLabelValues("skip").Inc()
		return
	}
	log.Printf("Price of %s: $%s", symbol, price.StringFixed(2))

	remaining := t.budget.Remaining()
	maxShares := remaining.Div(price).Floor().IntPart()
	if maxShares <= 0 {
		log.Printf("Skipping %s: not enough funds (Remaining Budget: $%s)", symbol, remaining.StringFixed(2))
		metrics.Decisions.WithLabelValues("skip").Inc()
		return
	}

	// Size new positions at a fraction of the remaining budget, but never
	// fewer than the minimum lot, bounded by what is affordable.
	tradeAmount := remaining.Mul(t.sizing).Div(price).Floor().IntPart()
	if tradeAmount < t.cfg.MinTradeShares {
		tradeAmount = t.cfg.MinTradeShares
	}
	if tradeAmount > maxShares {
		tradeAmount = maxShares
	}

	if pos, ok := held[symbol]; ok {
		t.maybeSell(symbol, pos, price, held)
		return
	}

	if tradeAmount > 0 {
		t.tryBuy(symbol, tradeAmount, price, now, held)
	}
}

// maybeSell exits the full position once the gain threshold is reached
// (boundary inclusive). Below threshold the engine holds; it never sells at
// a loss and never re-buys into an existing position.
func (t *Trader) maybeSell(symbol string, pos models.Position, price decimal.Decimal, held map[string]models.Position) {
	threshold := pos.AvgEntryPrice.Mul(t.sellMult)
	if price.LessThan(threshold) {
		log.Printf("Holding %s: $%s below sell threshold $%s", symbol, price.StringFixed(2), threshold.StringFixed(2))
		metrics.Decisions.WithLabelValues("hold").Inc()
		return
	}

	log.Printf("Selling %d shares of %s at $%s", pos.Qty, symbol, price.StringFixed(2))
	if !t.sellPosition(symbol, pos, held) {
		return
	}
	metrics.Decisions.WithLabelValues("sell").Inc()
}

// sellPosition submits the sell and, on success, credits the proceeds and
// drops the local snapshot. Proceeds are the broker-reported market value of
// the position, which can lag the live price.
func (t *Trader) sellPosition(symbol string, pos models.Position, held map[string]models.Position) bool {
	_, err := t.provider.PlaceOrder(models.OrderIntent{Symbol: symbol, Qty: pos.Qty, Side: models.Sell})
	if err != nil {
		// The order did not execute: no budget mutation, move on.
		log.Printf("Sell order failed for %s: %v", symbol, err)
		metrics.Orders.WithLabelValues("sell", "rejected").Inc()
		return false
	}

	t.budget.Release(pos.MarketValue)
	t.publishBudget()
	delete(held, symbol)
	t.exits.Cancel(symbol)
	metrics.Orders.WithLabelValues("sell", "ok").Inc()
	log.Printf("Successfully sold %d shares of %s", pos.Qty, symbol)
	return true
}

// tryBuy submits a buy sized to tradeAmount shares, skipping when rounding
// pushed the cost past the remaining budget.
func (t *Trader) tryBuy(symbol string, qty int64, price decimal.Decimal, now time.Time, held map[string]models.Position) {
	cost := price.Mul(decimal.NewFromInt(qty))
	remaining := t.budget.Remaining()
	if cost.GreaterThan(remaining) {
		log.Printf("Skipping %s: cannot afford %d shares (Cost: $%s, Remaining: $%s)",
			symbol, qty, cost.StringFixed(2), remaining.StringFixed(2))
		metrics.Decisions.WithLabelValues("skip").Inc()
		return
	}

	log.Printf("Buying %d shares of %s at $%s, staying within $%s budget",
		qty, symbol, price.StringFixed(2), remaining.StringFixed(2))

	_, err := t.provider.PlaceOrder(models.OrderIntent{Symbol: symbol, Qty: qty, Side: models.Buy})
	if err != nil {
		log.Printf("Buy order failed for %s: %v", symbol, err)
		metrics.Orders.WithLabelValues("buy", "rejected").Inc()
		return
	}

	t.budget.Reserve(cost)
	t.publishBudget()
	metrics.Orders.WithLabelValues("buy", "ok").Inc()
	metrics.Decisions.WithLabelValues("buy").Inc()

	// Optimistic local snapshot of the order just submitted; never persisted.
	held[symbol] = models.Position{Symbol: symbol, Qty: qty, AvgEntryPrice: price, MarketValue: cost}

	t.exits.Schedule(ExitTask{
		Symbol:    symbol,
		Target:    price.Mul(t.sellMult),
		NotBefore: now.Add(time.Duration(t.cfg.ExitRecheckMins) * time.Minute),
		Deadline:  now.Add(time.Duration(t.cfg.ExitDeadlineMins) * time.Minute),
	})
	log.Printf("Successfully bought %d shares of %s", qty, symbol)
}

// processDueExits drains the delayed re-checks whose window has opened. A
// due task whose position is gone is dropped; a due task whose price has not
// reached the target is dropped too — it was a one-shot check.
func (t *Trader) processDueExits(ctx context.Context, now time.Time, held map[string]models.Position) {
	for _, task := range t.exits.Due(now) {
		pos, ok := held[task.Symbol]
		if !ok {
			continue
		}

		quote, err := fetch.Do(ctx, "exit re-check for "+task.Symbol, t.quotePolicy, func() (*models.Quote, error) {
			return t.provider.GetQuote(task.Symbol)
		})
		if err != nil {
			log.Printf("Exit re-check for %s failed, dropping task: %v", task.Symbol, err)
			continue
		}

		if quote.ClosePrice.LessThan(task.Target) {
			log.Printf("Exit re-check for %s: $%s below target $%s",
				task.Symbol, quote.ClosePrice.StringFixed(2), task.Target.StringFixed(2))
			continue
		}

		log.Printf("Exit target reached for %s: selling %d shares at $%s",
			task.Symbol, pos.Qty, quote.ClosePrice.StringFixed(2))
		if t.sellPosition(task.Symbol, pos, held) {
			metrics.Decisions.WithLabelValues("sell").Inc()
		}
	}
}

func (t *Trader) publishBudget() {
	metrics.RemainingBudget.Set(t.budget.Remaining().InexactFloat64())
}
