package api

// PriceFeed allows you to fetch the price of a feed
type PriceFeed interface {
	GetPrice() (float64, error)
}
