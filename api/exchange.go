package api

import (
	"github.com/quantadex/crossmarket/model"
)

// Ticker encapsulates the price data for a given trading pair
type Ticker struct {
	AskPrice *model.Number
	BidPrice *model.Number
}

// TickerAPI is the interface we use as a generic API for getting ticker data from any crypto exchange
type TickerAPI interface {
	GetTickerPrice(pairs []model.TradingPair) (map[model.TradingPair]Ticker, error)
}

// BalanceSnapshot holds the free and total balances of an exchange account, keyed by asset
type BalanceSnapshot struct {
	Free  map[model.Asset]*model.Number
	Total map[model.Asset]*model.Number
}

// ExternalExchange is the interface we use as a generic API for the reference
// exchange whose orderbook we mirror and on which we place counter-orders
type ExternalExchange interface {
	TickerAPI

	// GetOrderBook fetches the depth ladder for the pair, limited to maxCount levels per side
	GetOrderBook(pair *model.TradingPair, maxCount int32) (*model.Depth, error)

	// GetBalances fetches the free and total balances of the trading account
	GetBalances() (*BalanceSnapshot, error)

	// SubmitMarketOrder places a market order for the given base-asset volume and
	// returns the exchange-assigned transaction id
	SubmitMarketOrder(pair *model.TradingPair, action model.OrderAction, volume *model.Number) (*model.TransactionID, error)

	// GetClosedTrades fetches the account's recently closed trades on the pair
	GetClosedTrades(pair *model.TradingPair) ([]model.Trade, error)
}
