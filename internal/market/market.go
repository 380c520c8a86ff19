package market

import "actives_trader/internal/models"

// MarketProvider is the brokerage surface the trading core depends on.
// A concrete implementation (Alpaca) lives in the alpaca subpackage; tests
// swap in mocks without touching the code that uses the provider.
type MarketProvider interface {
	// GetClock returns the current market session snapshot. Callers must
	// re-query it before any time-sensitive action rather than caching it.
	GetClock() (*models.Clock, error)

	// GetAccount returns the account state, including buying power — the
	// authoritative funds figure resynchronized at the start of each cycle.
	GetAccount() (*models.Account, error)

	// ListPositions returns the currently held positions.
	ListPositions() ([]models.Position, error)

	// GetQuote returns the latest close price for a symbol.
	GetQuote(symbol string) (*models.Quote, error)

	// PlaceOrder submits a market GTC order. No partial-fill semantics are
	// modeled: the order either succeeds or errors.
	PlaceOrder(intent models.OrderIntent) (*models.Order, error)
}
