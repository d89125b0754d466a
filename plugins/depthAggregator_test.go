package plugins

import (
	"testing"

	"github.com/quantadex/crossmarket/model"
	"github.com/stretchr/testify/assert"
)

func makeTestPair() *model.TradingPair {
	return model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD"))
}

func makeTestDepth(t *testing.T, bids [][]float64, asks [][]float64, precision int8) *model.Depth {
	return model.MakeDepth(makeTestPair(), makeTestLevels(bids, precision), makeTestLevels(asks, precision))
}

func makeTestLevels(levels [][]float64, precision int8) []model.Level {
	out := []model.Level{}
	for _, l := range levels {
		out = append(out, model.MakeLevel(
			model.NumberFromFloat(l[0], precision),
			model.NumberFromFloat(l[1], precision),
		))
	}
	return out
}

func levelsAsFloats(levels []model.Level) [][]float64 {
	out := [][]float64{}
	for _, l := range levels {
		out = append(out, []float64{l.Price.AsFloat(), l.Amount.AsFloat()})
	}
	return out
}

func TestAggregate(t *testing.T) {
	testCases := []struct {
		name     string
		bids     [][]float64
		asks     [][]float64
		wantBids [][]float64
		wantAsks [][]float64
	}{
		{
			name:     "mergesAdjacentBuckets",
			bids:     [][]float64{{100.25, 1.0}, {100.21, 2.0}, {99.90, 3.0}},
			asks:     [][]float64{{101.15, 1.0}, {101.18, 0.5}, {102.40, 2.0}},
			wantBids: [][]float64{{100.2, 3.0}, {99.9, 3.0}},
			wantAsks: [][]float64{{101.1, 1.5}, {102.4, 2.0}},
		}, {
			name:     "noMergeNeeded",
			bids:     [][]float64{{100.25, 1.0}, {99.15, 2.0}},
			asks:     [][]float64{{101.35, 1.0}, {102.45, 2.0}},
			wantBids: [][]float64{{100.2, 1.0}, {99.1, 2.0}},
			wantAsks: [][]float64{{101.3, 1.0}, {102.4, 2.0}},
		},
	}

	agg := MakeDepthAggregator(100.0)
	for _, kase := range testCases {
		t.Run(kase.name, func(t *testing.T) {
			depth := makeTestDepth(t, kase.bids, kase.asks, 2)
			aggregated, precision, e := agg.Aggregate(depth)
			if !assert.NoError(t, e) {
				return
			}

			assert.Equal(t, int8(1), precision)
			assert.Equal(t, kase.wantBids, levelsAsFloats(aggregated.Bids()))
			assert.Equal(t, kase.wantAsks, levelsAsFloats(aggregated.Asks()))
		})
	}
}

func TestAggregateIdempotence(t *testing.T) {
	agg := MakeDepthAggregator(100.0)
	depth := makeTestDepth(t, [][]float64{{100.25, 1.0}, {100.21, 2.0}, {99.90, 3.0}}, [][]float64{{101.15, 1.0}, {102.40, 2.0}}, 2)

	once, _, e := agg.Aggregate(depth)
	if !assert.NoError(t, e) {
		return
	}
	twice := model.MakeDepth(once.Pair(), aggregateLevels(once.Bids(), 1), aggregateLevels(once.Asks(), 1))

	assert.Equal(t, levelsAsFloats(once.Bids()), levelsAsFloats(twice.Bids()))
	assert.Equal(t, levelsAsFloats(once.Asks()), levelsAsFloats(twice.Asks()))
}

func TestAggregateScalesDepth(t *testing.T) {
	agg := MakeDepthAggregator(50.0)
	depth := makeTestDepth(t, [][]float64{{100.25, 2.0}}, [][]float64{{101.15, 4.0}}, 2)

	aggregated, _, e := agg.Aggregate(depth)
	if !assert.NoError(t, e) {
		return
	}

	assert.Equal(t, 1.0, aggregated.Bids()[0].Amount.AsFloat())
	assert.Equal(t, 2.0, aggregated.Asks()[0].Amount.AsFloat())
}

func TestAggregateEmptySide(t *testing.T) {
	agg := MakeDepthAggregator(100.0)
	depth := makeTestDepth(t, [][]float64{{100.25, 2.0}}, [][]float64{}, 2)

	_, _, e := agg.Aggregate(depth)
	assert.Error(t, e)
}
