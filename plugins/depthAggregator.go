package plugins

import (
	"fmt"

	"github.com/quantadex/crossmarket/model"
)

// DepthAggregator buckets raw orderbook levels into coarser price buckets and
// scales the visible liquidity down to the fraction of depth we are willing to mirror.
type DepthAggregator struct {
	depthScalePct float64
}

// MakeDepthAggregator is a factory method for DepthAggregator
func MakeDepthAggregator(depthScalePct float64) *DepthAggregator {
	return &DepthAggregator{
		depthScalePct: depthScalePct,
	}
}

// Aggregate buckets both sides of the depth, returning the aggregated depth and the
// precision (decimal places) used for bucketing. The precision is derived from the
// best bid: one less than its native decimal places, so bucketing adapts to the
// traded asset rather than using a fixed granularity.
func (a *DepthAggregator) Aggregate(depth *model.Depth) (*model.Depth, int8, error) {
	if len(depth.Bids()) == 0 || len(depth.Asks()) == 0 {
		return nil, 0, fmt.Errorf("cannot aggregate a depth with an empty side (bids=%d, asks=%d)", len(depth.Bids()), len(depth.Asks()))
	}

	precision := model.CountDecimalPlaces(depth.Bids()[0].Price.AsFloat()) - 1
	bids := a.scaleLevels(aggregateLevels(depth.Bids(), precision))
	asks := a.scaleLevels(aggregateLevels(depth.Asks(), precision))

	return model.MakeDepth(depth.Pair(), bids, asks), precision, nil
}

// aggregateLevels truncates each price to the given number of decimal places and merges
// adjacent levels that land in the same bucket by summing their amounts. Truncation is
// deliberate: a rounded bucket price could move past the true best price.
func aggregateLevels(levels []model.Level, decimals int8) []model.Level {
	out := []model.Level{}
	for _, l := range levels {
		price := model.NumberFromFloatRoundTruncate(l.Price.AsFloat(), decimals)
		if len(out) > 0 && out[len(out)-1].Price.AsFloat() == price.AsFloat() {
			last := out[len(out)-1]
			out[len(out)-1] = model.MakeLevel(last.Price, last.Amount.Add(*l.Amount))
		} else {
			out = append(out, model.MakeLevel(price, l.Amount))
		}
	}
	return out
}

func (a *DepthAggregator) scaleLevels(levels []model.Level) []model.Level {
	if a.depthScalePct >= 100.0 {
		return levels
	}

	out := make([]model.Level, len(levels))
	for i, l := range levels {
		out[i] = model.MakeLevel(l.Price, l.Amount.Scale(a.depthScalePct/100.0))
	}
	return out
}
