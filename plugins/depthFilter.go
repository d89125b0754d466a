package plugins

import (
	"github.com/quantadex/crossmarket/model"
)

// FilterDepth trims the aggregated depth to the levels we would actually quote
// against: bid levels priced at or below the band's high edge and ask levels priced
// at or above the band's low edge. Skipped levels ahead of the first retained one
// have their amounts folded into that retained level so no liquidity is dropped.
func FilterDepth(depth *model.Depth, band *PriceBand) *model.Depth {
	bids := filterLevels(depth.Bids(), func(price float64) bool {
		return price <= band.High.AsFloat()
	})
	asks := filterLevels(depth.Asks(), func(price float64) bool {
		return price >= band.Low.AsFloat()
	})
	return model.MakeDepth(depth.Pair(), bids, asks)
}

func filterLevels(levels []model.Level, keep func(price float64) bool) []model.Level {
	out := []model.Level{}
	skipped := model.NumberConstants.Zero
	for _, l := range levels {
		if !keep(l.Price.AsFloat()) {
			if len(out) == 0 {
				skipped = skipped.Add(*l.Amount)
			}
			continue
		}

		if len(out) == 0 {
			out = append(out, model.MakeLevel(l.Price, l.Amount.Add(*skipped)))
		} else {
			out = append(out, l)
		}
	}
	return out
}
