package api

import "github.com/quantadex/crossmarket/model"

// FillHandler is invoked by the engine whenever a counter-order on the external
// market completes, for off-path concerns such as persistence or logging
type FillHandler interface {
	HandleFill(trade model.Trade) error
}
