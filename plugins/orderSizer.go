package plugins

import (
	"math"

	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/support/logger"
)

// SideBalances holds the free balances of the base and quote assets on one market.
type SideBalances struct {
	Base  *model.Number
	Quote *model.Number
}

// OrderSizer computes the maximal order at each filtered home price level that
// respects both the home-side balance and the external-side walk-the-book liquidity.
type OrderSizer struct {
	pair            *model.TradingPair
	minBaseVolume   float64
	pricePrecision  int8
	volumePrecision int8
	l               logger.Logger
}

// MakeOrderSizer is a factory method for OrderSizer
func MakeOrderSizer(
	pair *model.TradingPair,
	minBaseVolume float64,
	pricePrecision int8,
	volumePrecision int8,
	l logger.Logger,
) *OrderSizer {
	return &OrderSizer{
		pair:            pair,
		minBaseVolume:   minBaseVolume,
		pricePrecision:  pricePrecision,
		volumePrecision: volumePrecision,
		l:               l,
	}
}

// ComputeOrders sizes the buy and sell orders to place on the home market. rawDepth is
// the unaggregated external book used for walking the fill curve, filteredDepth carries
// the candidate home price levels. Balances are never mutated; running copies are
// decremented as orders are accepted. Four lanes are tracked independently: a buy
// consumes home quote and external base, a sell consumes home base and external quote.
func (s *OrderSizer) ComputeOrders(
	rawDepth *model.Depth,
	filteredDepth *model.Depth,
	home SideBalances,
	external SideBalances,
) ([]model.Order, []model.Order) {
	buyOrders := []model.Order{}
	sellOrders := []model.Order{}

	homeQuote := home.Quote.AsFloat()
	homeBase := home.Base.AsFloat()
	externalBase := external.Base.AsFloat()
	externalQuote := external.Quote.AsFloat()

	for _, level := range filteredDepth.Bids() {
		price := level.Price.AsFloat()
		amount := level.Amount.AsFloat()

		// no base on the external side means no capacity to counter-fill any further buys
		if externalBase == 0 {
			break
		}

		// how much quote could we raise externally if we sold our entire remaining base
		_, _, externalProceeds := walkDepthForBase(rawDepth.Bids(), externalBase)

		quoteLimit := math.Min(price*amount, math.Min(externalProceeds, homeQuote))
		// proceeds can exceed the base that raised them when the raw book prices above
		// the truncated home level, so cap at the base balance itself
		baseLimit := math.Min(quoteLimit/price, externalBase)
		quoteLimit = price * baseLimit
		if baseLimit < s.minBaseVolume {
			continue
		}

		// re-walk at the final size for the precise achievable price
		_, fillPrice, _ := walkDepthForBase(rawDepth.Bids(), baseLimit)
		expectedProfit := fillPrice*baseLimit - price*baseLimit
		s.l.Infof("estimated profit=%.4f %s (buy at %.8f, counter-sell at %.8f)\n", expectedProfit, s.pair.Quote, price, fillPrice)

		buyOrders = append(buyOrders, s.makeOrder(model.OrderActionBuy, price, baseLimit))
		homeQuote -= quoteLimit
		externalBase -= baseLimit
	}

	for _, level := range filteredDepth.Asks() {
		price := level.Price.AsFloat()
		amount := level.Amount.AsFloat()

		// no quote on the external side means no capacity to counter-fill any further sells
		if externalQuote == 0 {
			break
		}

		// how much base could we buy externally with our entire remaining quote
		_, _, externalBaseReach := walkDepthForQuote(rawDepth.Asks(), externalQuote)

		baseLimit := math.Min(amount, math.Min(externalBaseReach, homeBase))
		// the home valuation of baseLimit can exceed the quote that reaches it when the
		// raw book prices below the home level, so cap at the quote balance itself
		quoteLimit := math.Min(price*baseLimit, externalQuote)
		if baseLimit < s.minBaseVolume {
			continue
		}

		// re-walk at the final quote budget for the precise achievable size
		_, fillPrice, baseFilled := walkDepthForQuote(rawDepth.Asks(), quoteLimit)
		expectedProfit := baseFilled - baseLimit
		s.l.Infof("estimated profit=%.8f %s (~%.4f %s) (sell at %.8f, counter-buy at %.8f)\n", expectedProfit, s.pair.Base, expectedProfit*price, s.pair.Quote, price, fillPrice)

		sellOrders = append(sellOrders, s.makeOrder(model.OrderActionSell, price, baseLimit))
		homeBase -= baseLimit
		externalQuote -= quoteLimit
	}

	return buyOrders, sellOrders
}

func (s *OrderSizer) makeOrder(action model.OrderAction, price float64, volume float64) model.Order {
	return model.Order{
		Pair:        s.pair,
		OrderAction: action,
		OrderType:   model.OrderTypeLimit,
		Price:       model.NumberFromFloat(price, s.pricePrecision),
		Volume:      model.NumberFromFloatRoundTruncate(volume, s.volumePrecision),
	}
}

// walkDepthForBase walks the levels consuming up to baseTarget of the base asset,
// partially consuming the last level. Returns the consumed levels, the average
// achievable price for baseTarget, and the total quote proceeds.
func walkDepthForBase(levels []model.Level, baseTarget float64) ([]model.Level, float64, float64) {
	fill := []model.Level{}
	remaining := baseTarget
	for _, l := range levels {
		amount := l.Amount.AsFloat()
		if remaining < amount {
			fill = append(fill, model.MakeLevel(l.Price, model.NumberFromFloat(remaining, l.Amount.Precision())))
			remaining = 0
		} else {
			remaining -= amount
			fill = append(fill, l)
		}
	}

	totalQuote := 0.0
	for _, l := range fill {
		totalQuote += l.Price.AsFloat() * l.Amount.AsFloat()
	}

	if baseTarget == 0 {
		return fill, 0, totalQuote
	}
	return fill, totalQuote / baseTarget, totalQuote
}

// walkDepthForQuote walks the levels consuming up to quoteBudget of the quote asset,
// converting to base at each level's price. Returns the consumed levels, the average
// achievable price, and the total base acquired.
func walkDepthForQuote(levels []model.Level, quoteBudget float64) ([]model.Level, float64, float64) {
	fill := []model.Level{}
	remaining := quoteBudget
	for _, l := range levels {
		price := l.Price.AsFloat()
		levelQuote := price * l.Amount.AsFloat()
		if remaining < levelQuote {
			fill = append(fill, model.MakeLevel(l.Price, model.NumberFromFloat(remaining/price, l.Amount.Precision())))
			remaining = 0
		} else {
			remaining -= levelQuote
			fill = append(fill, l)
		}
	}

	totalBase := 0.0
	for _, l := range fill {
		totalBase += l.Amount.AsFloat()
	}

	if totalBase == 0 {
		return fill, 0, 0
	}
	return fill, quoteBudget / totalBase, totalBase
}
