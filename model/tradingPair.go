package model

import (
	"fmt"
	"strings"
)

// TradingPair lists an ordered pair that is understood by the bot and our exchange API.
// EUR/USD = 1.25; EUR is base, USD is Quote. EUR is more valuable in this example
type TradingPair struct {
	// Base represents the asset that has a unit of 1 (implicit)
	Base Asset
	// Quote (or Counter) represents the asset that has its unit specified relative to the base asset
	Quote Asset
}

// MakeTradingPair is a factory method
func MakeTradingPair(base Asset, quote Asset) *TradingPair {
	return &TradingPair{
		Base:  base,
		Quote: quote,
	}
}

// String is the stringer function
func (p TradingPair) String() string {
	s, e := p.ToString(Display, "/")
	if e != nil {
		return fmt.Sprintf("<error, TradingPair: %s>", e)
	}
	return s
}

// ToString converts the trading pair to a string using the passed in assetConverter
func (p TradingPair) ToString(c *AssetConverter, delim string) (string, error) {
	a, e := c.ToString(p.Base)
	if e != nil {
		return "", e
	}

	b, e := c.ToString(p.Quote)
	if e != nil {
		return "", e
	}

	return a + delim + b, nil
}

// TradingPairFromString makes a TradingPair out of a delimited string such as "BTC/USD"
func TradingPairFromString(p string, delim string) (*TradingPair, error) {
	parts := strings.Split(p, delim)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid trading pair string '%s', expected two assets delimited by '%s'", p, delim)
	}

	return &TradingPair{
		Base:  ParseAsset(parts[0]),
		Quote: ParseAsset(parts[1]),
	}, nil
}
