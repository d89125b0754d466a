package plugins

import (
	"fmt"

	"github.com/quantadex/crossmarket/model"
)

// PriceBand is the price corridor our home-market orders should stay outside of.
// Bids are placed at or below High, asks at or above Low, so quotes are never
// tighter than the reference market plus the configured minimum spread.
type PriceBand struct {
	MarketSpread float64
	TargetSpread float64
	Low          *model.Number
	High         *model.Number
}

// String impl.
func (b PriceBand) String() string {
	return fmt.Sprintf("PriceBand[marketSpread=%.6f, targetSpread=%.6f, low=%s, high=%s]", b.MarketSpread, b.TargetSpread, b.Low.AsString(), b.High.AsString())
}

// ComputePriceBand derives the band from the aggregated depth. The market spread is
// bestAsk/bestBid - 1; the target spread widens that by the configured minimum spread
// percentage. The band edges sit half the target spread on either side of the center
// price, rounded to one decimal place coarser than the aggregation precision.
func ComputePriceBand(depth *model.Depth, minSpreadPct float64, centerPrice float64, precision int8) (*PriceBand, error) {
	if len(depth.Bids()) == 0 || len(depth.Asks()) == 0 {
		return nil, fmt.Errorf("cannot compute a price band on a depth with an empty side (bids=%d, asks=%d)", len(depth.Bids()), len(depth.Asks()))
	}
	if centerPrice <= 0 {
		return nil, fmt.Errorf("cannot compute a price band around a non-positive center price (centerPrice=%f)", centerPrice)
	}

	bestBid := depth.Bids()[0].Price.AsFloat()
	bestAsk := depth.Asks()[0].Price.AsFloat()
	marketSpread := bestAsk/bestBid - 1
	targetSpread := marketSpread + minSpreadPct/100.0

	low := centerPrice / (1 + targetSpread/2)
	high := centerPrice * (1 + targetSpread/2)

	return &PriceBand{
		MarketSpread: marketSpread,
		TargetSpread: targetSpread,
		Low:          model.NumberFromFloat(low, precision-1),
		High:         model.NumberFromFloat(high, precision-1),
	}, nil
}

// MidpointPrice returns the midpoint of the best bid and ask, used as the center
// price when no external feed is configured.
func MidpointPrice(depth *model.Depth) (float64, error) {
	if len(depth.Bids()) == 0 || len(depth.Asks()) == 0 {
		return 0, fmt.Errorf("cannot compute a midpoint on a depth with an empty side (bids=%d, asks=%d)", len(depth.Bids()), len(depth.Asks()))
	}
	return (depth.Bids()[0].Price.AsFloat() + depth.Asks()[0].Price.AsFloat()) / 2, nil
}
