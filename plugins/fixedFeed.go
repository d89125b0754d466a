package plugins

import (
	"strconv"

	"github.com/quantadex/crossmarket/api"
)

// fixedFeed represents a fixed feed
type fixedFeed struct {
	price float64
}

// ensure that fixedFeed implements PriceFeed
var _ api.PriceFeed = &fixedFeed{}

func newFixedFeed(url string) (*fixedFeed, error) {
	m := new(fixedFeed)
	pA, e := strconv.ParseFloat(url, 64)
	if e != nil {
		return nil, e
	}

	m.price = pA
	return m, nil
}

// GetPrice impl
func (f *fixedFeed) GetPrice() (float64, error) {
	return f.price, nil
}
