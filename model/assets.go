package model

import (
	"errors"
	"log"
	"strings"
)

// Asset is typed and enlists the allowed assets that are understood by the bot
type Asset string

// this is the list of assets understood by the bot.
// This string can be converted by the specific exchange adapter as is needed by the exchange's API
const (
	QDEX Asset = "QDEX"
	BTC  Asset = "BTC"
	USD  Asset = "USD"
	USDT Asset = "USDT"
	ETH  Asset = "ETH"
	LTC  Asset = "LTC"
	XLM  Asset = "XLM"
)

// AssetConverter converts to and from the asset type, it is specific to an exchange
type AssetConverter struct {
	asset2String map[Asset]string
	string2Asset map[string]Asset
}

// makeAssetConverter is a factory method for AssetConverter
func makeAssetConverter(asset2String map[Asset]string) *AssetConverter {
	string2Asset := map[string]Asset{}
	for a, s := range asset2String {
		string2Asset[s] = a
	}

	return &AssetConverter{
		asset2String: asset2String,
		string2Asset: string2Asset,
	}
}

// ToString converts an asset to a string
func (c AssetConverter) ToString(a Asset) (string, error) {
	s, ok := c.asset2String[a]
	if !ok {
		return "", errors.New("could not recognize Asset: " + string(a))
	}
	return s, nil
}

// FromString converts from a string to an asset
func (c AssetConverter) FromString(s string) (Asset, error) {
	a, ok := c.string2Asset[s]
	if !ok {
		return "", errors.New("asset converter could not recognize string: " + s)
	}
	return a, nil
}

// MustFromString converts from a string to an asset, failing on errors
func (c AssetConverter) MustFromString(s string) Asset {
	a, e := c.FromString(s)
	if e != nil {
		log.Fatal(e)
	}
	return a
}

// Display is a basic converter for display purposes
var Display = makeAssetConverter(map[Asset]string{
	QDEX: string(QDEX),
	BTC:  string(BTC),
	USD:  string(USD),
	USDT: string(USDT),
	ETH:  string(ETH),
	LTC:  string(LTC),
	XLM:  string(XLM),
})

// CcxtAssetConverter is the asset converter for the CCXT REST interface, where
// asset codes are the upper-case strings used by the backing exchange
var CcxtAssetConverter = Display

// ParseAsset returns the typed asset for an arbitrary upper/lower case symbol.
// Unlike the converters this accepts any symbol, so adapters can handle assets
// that are not on the known list without failing.
func ParseAsset(s string) Asset {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if a, e := Display.FromString(norm); e == nil {
		return a
	}
	return Asset(norm)
}
