package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side identifies the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Position is a read-only snapshot of a holding reported by the broker.
// The broker owns the real thing; we only reflect an order we just submitted
// into the local copy, never back into the broker.
type Position struct {
	Symbol        string          `json:"symbol"`
	Qty           int64           `json:"qty"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
}

// Quote is the latest close price for a symbol, fetched fresh per decision.
type Quote struct {
	Symbol     string          `json:"symbol"`
	ClosePrice decimal.Decimal `json:"close_price"`
	AsOf       time.Time       `json:"as_of"`
}

// Clock represents the market session status.
type Clock struct {
	Timestamp time.Time `json:"timestamp"`
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// Account is the slice of the broker account state we care about.
type Account struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	BuyingPower    decimal.Decimal `json:"buying_power"`
	Cash           decimal.Decimal `json:"cash"`
	Equity         decimal.Decimal `json:"equity"`
	TradingBlocked bool            `json:"trading_blocked"`
}

// OrderIntent is what the decision engine emits: always a market order,
// good-till-canceled, fire and forget.
type OrderIntent struct {
	Symbol string `json:"symbol"`
	Qty    int64  `json:"qty"`
	Side   Side   `json:"side"`
}

// Order is the broker's acknowledgement of a submitted order.
type Order struct {
	ID            string          `json:"id"`
	ClientOrderID string          `json:"client_order_id"`
	Symbol        string          `json:"symbol"`
	Qty           decimal.Decimal `json:"qty"`
	Side          string          `json:"side"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}
