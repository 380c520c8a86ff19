package trader

import "github.com/shopspring/decimal"

// Budget tracks the remaining in-cycle funds. It is only meaningful within a
// single trade cycle: Resync is called at cycle start from the broker's
// buying power, then the value is debited and credited synchronously as each
// decision is applied. It is never persisted and never authoritative beyond
// the current cycle; the broker's balance is the source of truth.
type Budget struct {
	remaining decimal.Decimal
}

// Resync resets the remaining funds from the broker-reported buying power,
// capped by the configured budget ceiling.
func (b *Budget) Resync(buyingPower, limit decimal.Decimal) {
	b.remaining = decimal.Min(buyingPower, limit)
}

// Reserve debits the cost of a buy that was accepted by the broker.
func (b *Budget) Reserve(cost decimal.Decimal) {
	b.remaining = b.remaining.Sub(cost)
}

// Release credits the proceeds of a sell that was accepted by the broker.
func (b *Budget) Release(proceeds decimal.Decimal) {
	b.remaining = b.remaining.Add(proceeds)
}

// Remaining returns the current in-cycle funds.
func (b *Budget) Remaining() decimal.Decimal {
	return b.remaining
}
