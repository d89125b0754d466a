package plugins

import (
	"fmt"

	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/support/sdk"
)

const ccxtPrecision = 8

// ccxtExchange is the implementation for the CCXT REST library
type ccxtExchange struct {
	api *sdk.Ccxt
}

// ensure that ccxtExchange implements ExternalExchange
var _ api.ExternalExchange = ccxtExchange{}

// MakeCcxtExchange is a factory method to make an exchange using the CCXT interface
func MakeCcxtExchange(exchangeName string, apiKey string, apiSecret string) (api.ExternalExchange, error) {
	c, e := sdk.MakeInitializedCcxtExchange(exchangeName, apiKey, apiSecret)
	if e != nil {
		return nil, fmt.Errorf("error making a ccxt exchange: %s", e)
	}

	return ccxtExchange{
		api: c,
	}, nil
}

// GetTickerPrice impl.
func (c ccxtExchange) GetTickerPrice(pairs []model.TradingPair) (map[model.TradingPair]api.Ticker, error) {
	priceResult := map[model.TradingPair]api.Ticker{}
	for _, p := range pairs {
		pairString, e := p.ToString(model.CcxtAssetConverter, "/")
		if e != nil {
			return nil, fmt.Errorf("error converting pair to string: %s", e)
		}

		tickerMap, e := c.api.FetchTicker(pairString)
		if e != nil {
			return nil, fmt.Errorf("error while fetching ticker price for trading pair %s: %s", pairString, e)
		}

		askPrice, e := parseTickerField(tickerMap, "ask", pairString)
		if e != nil {
			return nil, e
		}
		bidPrice, e := parseTickerField(tickerMap, "bid", pairString)
		if e != nil {
			return nil, e
		}

		priceResult[p] = api.Ticker{
			AskPrice: model.NumberFromFloat(askPrice, ccxtPrecision),
			BidPrice: model.NumberFromFloat(bidPrice, ccxtPrecision),
		}
	}
	return priceResult, nil
}

func parseTickerField(tickerMap map[string]interface{}, field string, pairString string) (float64, error) {
	v, ok := tickerMap[field]
	if !ok {
		return 0, fmt.Errorf("ticker result for pair '%s' is missing the field '%s'", pairString, field)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("ticker field '%s' for pair '%s' is not a number: %v", field, pairString, v)
	}
	return f, nil
}

// GetOrderBook impl.
func (c ccxtExchange) GetOrderBook(pair *model.TradingPair, maxCount int32) (*model.Depth, error) {
	pairString, e := pair.ToString(model.CcxtAssetConverter, "/")
	if e != nil {
		return nil, fmt.Errorf("error converting pair to string: %s", e)
	}

	limit := int(maxCount)
	ob, e := c.api.FetchOrderBook(pairString, &limit)
	if e != nil {
		return nil, fmt.Errorf("error while fetching orderbook for trading pair '%s': %s", pairString, e)
	}

	if _, ok := ob["bids"]; !ok {
		return nil, fmt.Errorf("orderbook for trading pair '%s' did not contain bids", pairString)
	}
	if _, ok := ob["asks"]; !ok {
		return nil, fmt.Errorf("orderbook for trading pair '%s' did not contain asks", pairString)
	}

	return model.MakeDepth(pair, readLevels(ob["bids"]), readLevels(ob["asks"])), nil
}

func readLevels(orders []sdk.CcxtOrder) []model.Level {
	levels := []model.Level{}
	for _, o := range orders {
		levels = append(levels, model.MakeLevel(
			model.NumberFromFloat(o.Price, ccxtPrecision),
			model.NumberFromFloat(o.Amount, ccxtPrecision),
		))
	}
	return levels
}

// GetBalances impl.
func (c ccxtExchange) GetBalances() (*api.BalanceSnapshot, error) {
	balances, e := c.api.FetchBalance()
	if e != nil {
		return nil, fmt.Errorf("error while fetching balances: %s", e)
	}

	snapshot := &api.BalanceSnapshot{
		Free:  map[model.Asset]*model.Number{},
		Total: map[model.Asset]*model.Number{},
	}
	for assetString, b := range balances {
		asset := model.ParseAsset(assetString)
		snapshot.Free[asset] = model.NumberFromFloat(b.Free, ccxtPrecision)
		snapshot.Total[asset] = model.NumberFromFloat(b.Total, ccxtPrecision)
	}
	return snapshot, nil
}

// SubmitMarketOrder impl.
func (c ccxtExchange) SubmitMarketOrder(pair *model.TradingPair, action model.OrderAction, volume *model.Number) (*model.TransactionID, error) {
	pairString, e := pair.ToString(model.CcxtAssetConverter, "/")
	if e != nil {
		return nil, fmt.Errorf("error converting pair to string: %s", e)
	}

	openOrder, e := c.api.CreateMarketOrder(pairString, action.String(), volume.AsFloat())
	if e != nil {
		return nil, fmt.Errorf("error while submitting market order for trading pair '%s': %s", pairString, e)
	}
	return model.MakeTransactionID(openOrder.ID), nil
}

// GetClosedTrades impl.
func (c ccxtExchange) GetClosedTrades(pair *model.TradingPair) ([]model.Trade, error) {
	pairString, e := pair.ToString(model.CcxtAssetConverter, "/")
	if e != nil {
		return nil, fmt.Errorf("error converting pair to string: %s", e)
	}

	ccxtTrades, e := c.api.FetchMyTrades(pairString)
	if e != nil {
		return nil, fmt.Errorf("error while fetching closed trades for trading pair '%s': %s", pairString, e)
	}

	trades := []model.Trade{}
	for _, t := range ccxtTrades {
		trades = append(trades, model.Trade{
			Order: model.Order{
				Pair:        pair,
				OrderAction: model.OrderActionFromString(t.Side),
				OrderType:   model.OrderTypeMarket,
				Price:       model.NumberFromFloat(t.Price, ccxtPrecision),
				Volume:      model.NumberFromFloat(t.Amount, ccxtPrecision),
				Timestamp:   model.MakeTimestamp(t.Timestamp),
			},
			TransactionID: model.MakeTransactionID(t.ID),
			OrderID:       t.OrderID,
			Cost:          model.NumberFromFloat(t.Cost, ccxtPrecision),
		})
	}
	return trades, nil
}
