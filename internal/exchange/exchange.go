// Package exchange talks to the spot exchange. The Gateway interface is the
// only surface the rest of the bot sees, so live trading and tests swap
// implementations freely.
package exchange

import (
	"context"
	"time"

	"binance-trade-bot-go/internal/models"
)

// Gateway 定义了机器人与交易所交互所需的全部操作。
type Gateway interface {
	// ListTradableSymbols returns trading rules for every symbol that is
	// currently tradable against one of the given quote assets. An empty
	// filter returns all tradable symbols.
	ListTradableSymbols(ctx context.Context, quoteAssets []string) ([]models.SymbolInfo, error)

	// FetchBars returns up to limit bars for symbol at interval, ascending by
	// open time, ending strictly before endTime (zero endTime means "now").
	// Requests beyond the exchange's single-call maximum are paginated
	// transparently.
	FetchBars(ctx context.Context, symbol, interval string, limit int, endTime time.Time) ([]models.Bar, error)

	// FetchBalances returns the account balance of every asset, keyed by asset.
	FetchBalances(ctx context.Context) (map[string]models.Balance, error)

	// SubmitOrder validates and submits spec. It either returns the confirmed
	// order or an error; there is no partial-order state. With spec.Test set
	// the exchange only validates the order and a synthetic NEW order is
	// returned.
	SubmitOrder(ctx context.Context, spec models.OrderSpec) (*models.Order, error)

	// FetchOrderStatus returns the exchange's view of a previously submitted
	// order, identified by its client order id.
	FetchOrderStatus(ctx context.Context, symbol, clientOrderID string) (*models.Order, error)
}
