package trader

import (
	"context"
	"fmt"
	"sync"

	"actives_trader/internal/config"
	"actives_trader/internal/models"

	"github.com/shopspring/decimal"
)

// MockProvider implements market.MarketProvider for testing.
type MockProvider struct {
	mu sync.Mutex

	clock        models.Clock
	clockErr     error
	account      models.Account
	accountErr   error
	positions    []models.Position
	positionsErr error
	prices       map[string]decimal.Decimal
	priceErrs    map[string]error
	orderErrs    map[string]error // symbol -> error on PlaceOrder

	placed []models.OrderIntent

	accountCalls  int
	positionCalls int
	quoteCalls    int

	// quoteBlock, when set, is received from inside GetQuote so a test can
	// hold a cycle open mid-loop.
	quoteBlock   chan struct{}
	quoteEntered chan struct{}
}

func newMockProvider() *MockProvider {
	return &MockProvider{
		clock:     models.Clock{IsOpen: true},
		account:   models.Account{ID: "acct", Status: "ACTIVE", BuyingPower: decimal.NewFromInt(1000)},
		prices:    make(map[string]decimal.Decimal),
		priceErrs: make(map[string]error),
		orderErrs: make(map[string]error),
	}
}

func (m *MockProvider) GetClock() (*models.Clock, error) {
	if m.clockErr != nil {
		return nil, m.clockErr
	}
	c := m.clock
	return &c, nil
}

func (m *MockProvider) GetAccount() (*models.Account, error) {
	m.mu.Lock()
	m.accountCalls++
	m.mu.Unlock()
	if m.accountErr != nil {
		return nil, m.accountErr
	}
	a := m.account
	return &a, nil
}

func (m *MockProvider) ListPositions() ([]models.Position, error) {
	m.mu.Lock()
	m.positionCalls++
	m.mu.Unlock()
	if m.positionsErr != nil {
		return nil, m.positionsErr
	}
	return m.positions, nil
}

func (m *MockProvider) GetQuote(symbol string) (*models.Quote, error) {
	m.mu.Lock()
	m.quoteCalls++
	entered := m.quoteEntered
	block := m.quoteBlock
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}

	if err, ok := m.priceErrs[symbol]; ok {
		return nil, err
	}
	if p, ok := m.prices[symbol]; ok {
		return &models.Quote{Symbol: symbol, ClosePrice: p}, nil
	}
	return nil, fmt.Errorf("no price configured for %s", symbol)
}

func (m *MockProvider) PlaceOrder(intent models.OrderIntent) (*models.Order, error) {
	if err, ok := m.orderErrs[intent.Symbol]; ok {
		return nil, err
	}
	m.mu.Lock()
	m.placed = append(m.placed, intent)
	m.mu.Unlock()
	return &models.Order{ID: "mock_order_id", Symbol: intent.Symbol, Status: "accepted"}, nil
}

func (m *MockProvider) placedOrders() []models.OrderIntent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.OrderIntent(nil), m.placed...)
}

// MockScreener implements Screener for testing.
type MockScreener struct {
	symbols []string
	err     error
	calls   int
}

func (m *MockScreener) TopActives(ctx context.Context, n int) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.symbols) > n {
		return m.symbols[:n], nil
	}
	return m.symbols, nil
}

func testConfig() *config.Config {
	return &config.Config{
		TradeIntervalMins:    2,
		RefreshIntervalHours: 72,
		StocksToMonitor:      5,
		BudgetLimit:          5000,
		SellGainPct:          3.0,
		SizingFraction:       0.1,
		MinTradeShares:       10,
		FetchMaxAttempts:     1,
		ExitRecheckMins:      0,
		ExitDeadlineMins:     30,
	}
}

func newTestTrader(provider *MockProvider, scr Screener) *Trader {
	if scr == nil {
		scr = &MockScreener{}
	}
	return New(testConfig(), provider, scr)
}

func (t *Trader) setUniverse(symbols []string) {
	t.mu.Lock()
	t.universe = symbols
	t.mu.Unlock()
}
