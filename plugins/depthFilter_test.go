package plugins

import (
	"testing"

	"github.com/quantadex/crossmarket/model"
	"github.com/stretchr/testify/assert"
)

func makeTestBand(low float64, high float64) *PriceBand {
	return &PriceBand{
		Low:  model.NumberFromFloat(low, 2),
		High: model.NumberFromFloat(high, 2),
	}
}

func TestFilterDepth(t *testing.T) {
	testCases := []struct {
		name     string
		bids     [][]float64
		asks     [][]float64
		low      float64
		high     float64
		wantBids [][]float64
		wantAsks [][]float64
	}{
		{
			name:     "noLevelsCut",
			bids:     [][]float64{{100.0, 2.0}, {99.0, 3.0}},
			asks:     [][]float64{{101.0, 2.0}, {102.0, 3.0}},
			low:      100.5,
			high:     100.5,
			wantBids: [][]float64{{100.0, 2.0}, {99.0, 3.0}},
			wantAsks: [][]float64{{101.0, 2.0}, {102.0, 3.0}},
		}, {
			name: "foldsSkippedLevelsIntoBoundary",
			bids: [][]float64{{102.0, 1.0}, {101.0, 2.0}, {100.0, 3.0}},
			asks: [][]float64{{103.0, 1.0}, {104.0, 2.0}, {105.0, 3.0}},
			low:  104.0,
			high: 100.5,
			// bids above 100.5 are folded into the 100.0 level, asks below 104.0 into the 104.0 level
			wantBids: [][]float64{{100.0, 6.0}},
			wantAsks: [][]float64{{104.0, 3.0}, {105.0, 3.0}},
		}, {
			name:     "allLevelsCutOnOneSide",
			bids:     [][]float64{{100.0, 2.0}},
			asks:     [][]float64{{101.0, 2.0}},
			low:      102.0,
			high:     99.0,
			wantBids: [][]float64{},
			wantAsks: [][]float64{},
		},
	}

	for _, kase := range testCases {
		t.Run(kase.name, func(t *testing.T) {
			depth := makeTestDepth(t, kase.bids, kase.asks, 2)
			filtered := FilterDepth(depth, makeTestBand(kase.low, kase.high))

			assert.Equal(t, kase.wantBids, levelsAsFloats(filtered.Bids()))
			assert.Equal(t, kase.wantAsks, levelsAsFloats(filtered.Asks()))
		})
	}
}
