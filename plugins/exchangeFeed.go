package plugins

import (
	"fmt"

	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
)

// exchangeFeed reports the mid price of a trading pair on a ticker-capable exchange
type exchangeFeed struct {
	tickerAPI *api.TickerAPI
	pair      *model.TradingPair
}

// ensure that it implements PriceFeed
var _ api.PriceFeed = &exchangeFeed{}

func newExchangeFeed(tickerAPI *api.TickerAPI, pair *model.TradingPair) *exchangeFeed {
	return &exchangeFeed{
		tickerAPI: tickerAPI,
		pair:      pair,
	}
}

// GetPrice impl
func (f *exchangeFeed) GetPrice() (float64, error) {
	tickerAPI := *f.tickerAPI
	m, e := tickerAPI.GetTickerPrice([]model.TradingPair{*f.pair})
	if e != nil {
		return 0, fmt.Errorf("could not get ticker price: %s", e)
	}

	p, ok := m[*f.pair]
	if !ok {
		return 0, fmt.Errorf("could not get price for trading pair: %s", f.pair.String())
	}

	midPrice := (p.AskPrice.AsFloat() + p.BidPrice.AsFloat()) / 2
	return midPrice, nil
}
