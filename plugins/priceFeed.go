package plugins

import (
	"fmt"
	"strings"

	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
)

// MakePriceFeed makes a PriceFeed, url interpretation depends on the feedType
func MakePriceFeed(feedType string, url string) (api.PriceFeed, error) {
	switch feedType {
	case "fixed":
		return newFixedFeed(url)
	case "exchange":
		// url is of the form exchangeName/BASE/QUOTE, e.g. binance/BTC/USDT
		parts := strings.SplitN(url, "/", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("exchange feed url '%s' is not of the form exchangeName/BASE/QUOTE", url)
		}
		pair, e := model.TradingPairFromString(parts[1], "/")
		if e != nil {
			return nil, fmt.Errorf("could not parse trading pair from exchange feed url '%s': %s", url, e)
		}

		exchange, e := MakeCcxtExchange(parts[0], "", "")
		if e != nil {
			return nil, fmt.Errorf("error making ccxt exchange for exchange feed: %s", e)
		}
		tickerAPI := api.TickerAPI(exchange)
		return newExchangeFeed(&tickerAPI, pair), nil
	}
	return nil, fmt.Errorf("unable to make price feed for feedType=%s, url=%s", feedType, url)
}
