package alpaca

import (
	"fmt"
	"time"

	"actives_trader/internal/market"
	"actives_trader/internal/models"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provider implements the generic MarketProvider interface for Alpaca.
type Provider struct {
	mdClient    *marketdata.Client
	tradeClient *alpaca.Client
}

// Ensure Provider implements the interface
var _ market.MarketProvider = (*Provider)(nil)

// NewProvider returns a new Alpaca provider. The clients pick up API keys
// from the environment variables validated in config.
func NewProvider() *Provider {
	return &Provider{
		mdClient:    marketdata.NewClient(marketdata.ClientOpts{}),
		tradeClient: alpaca.NewClient(alpaca.ClientOpts{}),
	}
}

func (p *Provider) GetClock() (*models.Clock, error) {
	c, err := p.tradeClient.GetClock()
	if err != nil {
		return nil, err
	}
	return &models.Clock{
		Timestamp: c.Timestamp,
		IsOpen:    c.IsOpen,
		NextOpen:  c.NextOpen,
		NextClose: c.NextClose,
	}, nil
}

func (p *Provider) GetAccount() (*models.Account, error) {
	a, err := p.tradeClient.GetAccount()
	if err != nil {
		return nil, err
	}
	return &models.Account{
		ID:             a.ID,
		Status:         a.Status,
		BuyingPower:    a.BuyingPower,
		Cash:           a.Cash,
		Equity:         a.Equity,
		TradingBlocked: a.TradingBlocked || a.AccountBlocked,
	}, nil
}

func (p *Provider) ListPositions() ([]models.Position, error) {
	alpacaPositions, err := p.tradeClient.GetPositions()
	if err != nil {
		return nil, err
	}

	var result []models.Position
	for _, x := range alpacaPositions {
		// MarketValue is a pointer in the SDK; missing means zero.
		marketValue := decimal.Zero
		if x.MarketValue != nil {
			marketValue = *x.MarketValue
		}

		result = append(result, models.Position{
			Symbol:        x.Symbol,
			Qty:           x.Qty.IntPart(),
			AvgEntryPrice: x.AvgEntryPrice,
			MarketValue:   marketValue,
		})
	}
	return result, nil
}

// GetQuote fetches the most recent 15-minute bar and reports its close.
func (p *Provider) GetQuote(symbol string) (*models.Quote, error) {
	start := time.Now().Add(-24 * time.Hour)
	bars, err := p.mdClient.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.NewTimeFrame(15, marketdata.Min),
		Start:     start,
	})
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars available for %s", symbol)
	}

	last := bars[len(bars)-1]
	return &models.Quote{
		Symbol:     symbol,
		ClosePrice: decimal.NewFromFloat(last.Close),
		AsOf:       last.Timestamp,
	}, nil
}

func (p *Provider) PlaceOrder(intent models.OrderIntent) (*models.Order, error) {
	qty := decimal.NewFromInt(intent.Qty)
	req := alpaca.PlaceOrderRequest{
		Symbol:        intent.Symbol,
		Qty:           &qty,
		Side:          alpaca.Side(intent.Side),
		Type:          alpaca.Market,
		TimeInForce:   alpaca.GTC,
		ClientOrderID: uuid.NewString(),
	}

	o, err := p.tradeClient.PlaceOrder(req)
	if err != nil {
		return nil, err
	}
	return mapOrder(o), nil
}

func mapOrder(o *alpaca.Order) *models.Order {
	if o == nil {
		return nil
	}

	qty := decimal.Zero
	if o.Qty != nil {
		qty = *o.Qty
	}

	return &models.Order{
		ID:            o.ID,
		ClientOrderID: o.ClientOrderID,
		Symbol:        o.Symbol,
		Qty:           qty,
		Side:          string(o.Side),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
}
