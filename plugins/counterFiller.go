package plugins

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikhilsaraf/go-tools/multithreading"
	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/support/logger"
)

// CounterFiller mirrors newly detected home-market fills as market orders on the
// external exchange and settles them against the exchange's closed trades.
type CounterFiller struct {
	pair            *model.TradingPair
	exchange        api.ExternalExchange
	homeMarket      api.HomeMarket
	settlementDelay time.Duration
	volumePrecision int8
	threadTracker   *multithreading.ThreadTracker
	fillHandlers    []api.FillHandler
	l               logger.Logger
}

// MakeCounterFiller is a factory method for CounterFiller
func MakeCounterFiller(
	pair *model.TradingPair,
	exchange api.ExternalExchange,
	homeMarket api.HomeMarket,
	settlementDelay time.Duration,
	volumePrecision int8,
	threadTracker *multithreading.ThreadTracker,
	fillHandlers []api.FillHandler,
	l logger.Logger,
) *CounterFiller {
	return &CounterFiller{
		pair:            pair,
		exchange:        exchange,
		homeMarket:      homeMarket,
		settlementDelay: settlementDelay,
		volumePrecision: volumePrecision,
		threadTracker:   threadTracker,
		fillHandlers:    fillHandlers,
		l:               l,
	}
}

// PlaceCounterOrders submits one external market order per changed fill, on the side
// opposite to the home order, and records each counter-order in the order's state.
// The merged fills are persisted on the home order's payload before any placement,
// and again after each accepted counter-order, so a partial placement failure never
// leads to the same fill being mirrored twice on a later pass.
func (f *CounterFiller) PlaceCounterOrders(order *api.HomeOrder, state *OrderFillState, changed []model.FillOperation) error {
	e := f.persistState(order.ID, state)
	if e != nil {
		return fmt.Errorf("error persisting fill state before placing counter-orders: %s", e)
	}

	for _, op := range changed {
		action := op.OrderAction.Reverse()
		volume := model.NumberByCappingPrecision(op.Amount, f.volumePrecision)

		txID, e := f.exchange.SubmitMarketOrder(f.pair, action, volume)
		if e != nil {
			return fmt.Errorf("error submitting counter %s order for fill operation %s: %s", action, op.OperationID, e)
		}

		counterOrderID := txID.String()
		if counterOrderID == "" {
			// exchanges that only confirm asynchronously still need a key to settle against
			counterOrderID = uuid.New().String()
		}
		state.RecordCounterOrder(counterOrderID, volume.AsFloat(), order.Order.Price.AsFloat())
		e = f.persistState(order.ID, state)
		if e != nil {
			return fmt.Errorf("error persisting fill state after placing counter-order %s: %s", counterOrderID, e)
		}
		f.l.Infof("placed counter %s order %s on external market for fill operation %s (volume=%s)\n", action, counterOrderID, op.OperationID, volume.AsString())
	}

	return nil
}

// SettleCounterOrders waits out the settlement delay, polls the external market's
// closed trades, and credits filled quantity against pending counter-orders. Orders
// that have not shown up in the closed trades are left for the next pass rather than
// retried, so a slow settlement never produces a duplicate counter-order.
func (f *CounterFiller) SettleCounterOrders(order *api.HomeOrder, state *OrderFillState) error {
	time.Sleep(f.settlementDelay)

	trades, e := f.exchange.GetClosedTrades(f.pair)
	if e != nil {
		return fmt.Errorf("error fetching closed trades while settling counter-orders: %s", e)
	}

	tradesByOrderID := map[string][]model.Trade{}
	for _, t := range trades {
		tradesByOrderID[t.OrderID] = append(tradesByOrderID[t.OrderID], t)
	}

	settledAny := false
	for _, counterOrderID := range state.PendingCounterOrders() {
		matched, ok := tradesByOrderID[counterOrderID]
		if !ok {
			f.l.Infof("counter-order %s not yet filled, leaving for next pass\n", counterOrderID)
			continue
		}

		for _, trade := range matched {
			state.ApplyCounterFill(counterOrderID, trade.Volume.AsFloat())
			settledAny = true
			f.dispatchFillHandlers(trade)
		}
	}

	if settledAny {
		e = f.persistState(order.ID, state)
		if e != nil {
			return fmt.Errorf("error persisting fill state after settling counter-orders: %s", e)
		}
	}
	return nil
}

func (f *CounterFiller) persistState(orderID string, state *OrderFillState) error {
	payload, e := state.Encode()
	if e != nil {
		return fmt.Errorf("error encoding fill state for order %s: %s", orderID, e)
	}

	e = f.homeMarket.UpdateOrderPayload(orderID, payload)
	if e != nil {
		return fmt.Errorf("error updating payload on order %s: %s", orderID, e)
	}
	return nil
}

func (f *CounterFiller) dispatchFillHandlers(trade model.Trade) {
	for _, handler := range f.fillHandlers {
		h := handler
		e := f.threadTracker.TriggerGoroutine(func(inputs []interface{}) {
			e := h.HandleFill(trade)
			if e != nil {
				f.l.Errorf("error in fill handler: %s\n", e)
			}
		}, nil)
		if e != nil {
			f.l.Errorf("error spawning fill handler goroutine: %s\n", e)
		}
	}
}
