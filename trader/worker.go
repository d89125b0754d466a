package trader

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/plugins"
	"github.com/quantadex/crossmarket/support/logger"
	"gopkg.in/tomb.v2"
)

// State is the worker's position in its reconciliation cycle
type State int8

// the worker states
const (
	StateInitializing State = iota
	StateChecking
	StateNeedsUpdate
	StateStable
	StateDisabled
)

// String impl.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateChecking:
		return "checking"
	case StateNeedsUpdate:
		return "needs-update"
	case StateStable:
		return "stable"
	case StateDisabled:
		return "disabled"
	}
	return "unknown"
}

// Worker runs the reconciliation loop for one market pair. All event sources funnel
// into a single channel consumed by one task, so no two checking passes for the same
// worker ever run concurrently. Workers for different pairs share no mutable state.
type Worker struct {
	sessionID             string
	homePair              *model.TradingPair
	externalPair          *model.TradingPair
	accountID             string
	homeMarket            api.HomeMarket
	exchange              api.ExternalExchange
	opsFeed               api.OperationsFeed
	priceFeed             api.PriceFeed
	counterFiller         *plugins.CounterFiller
	aggregator            *plugins.DepthAggregator
	timeController        api.TimeController
	alert                 api.Alert
	minSpreadPct          float64
	minBaseVolume         float64
	depthCount            int32
	pricePrecision        int8
	volumePrecision       int8
	minCheckInterval      time.Duration
	resetOnPriceChangePct *float64

	// uninitialized
	events          chan Event
	t               tomb.Tomb
	state           State
	lastCheckTime   time.Time
	lastCenterPrice float64
	l               logger.Logger
}

// MakeWorker is a factory method for Worker. A drift-reset threshold without a
// configured price feed is a conflicting configuration and is rejected here rather
// than disabling the worker on its first pass.
func MakeWorker(
	homePair *model.TradingPair,
	externalPair *model.TradingPair,
	accountID string,
	homeMarket api.HomeMarket,
	exchange api.ExternalExchange,
	opsFeed api.OperationsFeed,
	priceFeed api.PriceFeed,
	counterFiller *plugins.CounterFiller,
	aggregator *plugins.DepthAggregator,
	timeController api.TimeController,
	alert api.Alert,
	minSpreadPct float64,
	minBaseVolume float64,
	depthCount int32,
	pricePrecision int8,
	volumePrecision int8,
	minCheckInterval time.Duration,
	resetOnPriceChangePct *float64,
	l logger.Logger,
) (*Worker, error) {
	if resetOnPriceChangePct != nil && priceFeed == nil {
		return nil, fmt.Errorf("conflicting configuration: reset on price change requires a center price feed")
	}

	return &Worker{
		sessionID:             uuid.New().String(),
		homePair:              homePair,
		externalPair:          externalPair,
		accountID:             accountID,
		homeMarket:            homeMarket,
		exchange:              exchange,
		opsFeed:               opsFeed,
		priceFeed:             priceFeed,
		counterFiller:         counterFiller,
		aggregator:            aggregator,
		timeController:        timeController,
		alert:                 alert,
		minSpreadPct:          minSpreadPct,
		minBaseVolume:         minBaseVolume,
		depthCount:            depthCount,
		pricePrecision:        pricePrecision,
		volumePrecision:       volumePrecision,
		minCheckInterval:      minCheckInterval,
		resetOnPriceChangePct: resetOnPriceChangePct,
		events:                make(chan Event, 1),
		state:                 StateInitializing,
		l:                     l,
	}, nil
}

// Events returns the channel that wakes this worker, for wiring up external
// event sources such as the market listener
func (w *Worker) Events() chan<- Event {
	return w.events
}

// State returns the worker's current state
func (w *Worker) State() State {
	return w.state
}

// Start spawns the worker's tick producer and its single consuming task
func (w *Worker) Start() {
	w.l.Infof("starting worker %s for market %s (external %s)\n", w.sessionID, w.homePair.String(), w.externalPair.String())
	w.t.Go(w.tickLoop)
	w.t.Go(w.run)
}

// Stop kills the worker and waits for in-flight work to finish
func (w *Worker) Stop() error {
	w.t.Kill(nil)
	return w.t.Wait()
}

// Tomb exposes the worker's lifecycle for companion tasks such as listeners
func (w *Worker) Tomb() *tomb.Tomb {
	return &w.t
}

func (w *Worker) tickLoop() error {
	lastTick := time.Now().Add(-24 * time.Hour)
	for {
		select {
		case <-w.t.Dying():
			return nil
		case <-time.After(w.timeController.SleepTime(lastTick)):
		}

		now := time.Now()
		if !w.timeController.ShouldUpdate(lastTick, now) {
			continue
		}
		lastTick = now

		select {
		case w.events <- Event{Type: EventTick, At: now}:
		case <-w.t.Dying():
			return nil
		}
	}
}

func (w *Worker) run() error {
	for {
		select {
		case <-w.t.Dying():
			return nil
		case ev := <-w.events:
			w.handleEvent(ev)
		}
	}
}

func (w *Worker) handleEvent(ev Event) {
	if w.state == StateDisabled {
		return
	}

	e := w.check()
	if e != nil {
		w.disable(fmt.Sprintf("error handling %s event", ev.Type), e)
	}
}

// disable transitions the worker to the terminal disabled state and surfaces the
// failure instead of retrying forever
func (w *Worker) disable(context string, e error) {
	w.state = StateDisabled
	w.l.Errorf("%s, disabling worker %s: %s\n", context, w.sessionID, e)

	if w.alert != nil {
		alertErr := w.alert.Trigger(fmt.Sprintf("worker %s disabled: %s", w.sessionID, context), e.Error())
		if alertErr != nil {
			w.l.Errorf("could not trigger alert: %s\n", alertErr)
		}
	}
}

// check is one reconciliation pass
func (w *Worker) check() error {
	now := time.Now()
	if w.state != StateInitializing && now.Sub(w.lastCheckTime) < w.minCheckInterval {
		return nil
	}
	w.lastCheckTime = now
	w.state = StateChecking

	needsUpdate, e := w.checkOrders()
	if e != nil {
		return fmt.Errorf("checking pass failed: %s", e)
	}

	if !needsUpdate && w.resetOnPriceChangePct != nil {
		needsUpdate, e = w.centerPriceDrifted()
		if e != nil {
			return fmt.Errorf("could not evaluate center price drift: %s", e)
		}
	}

	if needsUpdate {
		w.state = StateNeedsUpdate
		e = w.updateOrders(true)
		if e != nil {
			return fmt.Errorf("update pass failed: %s", e)
		}
	}

	w.state = StateStable
	return nil
}

// checkOrders walks the resting home orders, merges any new fill operations into
// each order's state, and mirrors new fills on the external market. Returns whether
// a full order refresh is needed.
func (w *Worker) checkOrders() (bool, error) {
	orders, e := w.homeMarket.FetchOrders()
	if e != nil {
		return false, fmt.Errorf("could not fetch home orders: %s", e)
	}
	if len(orders) == 0 {
		return true, nil
	}

	ops, e := w.opsFeed.GetFillOperations(w.accountID)
	if e != nil {
		return false, fmt.Errorf("could not fetch fill operations: %s", e)
	}
	opsByOrder := map[string][]model.FillOperation{}
	for _, op := range ops {
		opsByOrder[op.OrderID] = append(opsByOrder[op.OrderID], op)
	}

	activeCount := 0
	for i := range orders {
		order := orders[i]

		current, e := w.homeMarket.FetchOrder(order.ID)
		if e != nil {
			// a single failed lookup should not abort the pass
			w.l.Errorf("could not look up order %s, skipping: %s\n", order.ID, e)
			continue
		}
		stillOpen := current != nil && current.Open
		if stillOpen {
			activeCount++
		}

		state := plugins.ParseOrderFillState(order.Payload)
		changed := state.MergeFills(opsByOrder[order.ID])
		if len(changed) > 0 {
			w.l.Infof("detected %d new fills on order %s\n", len(changed), order.ID)
			e = w.counterFiller.PlaceCounterOrders(&order, state, changed)
			if e != nil {
				return false, fmt.Errorf("could not place counter-orders for order %s: %s", order.ID, e)
			}
			e = w.counterFiller.SettleCounterOrders(&order, state)
			if e != nil {
				return false, fmt.Errorf("could not settle counter-orders for order %s: %s", order.ID, e)
			}
		}

		if !stillOpen && len(state.PendingCounterOrders()) == 0 {
			e = w.homeMarket.RemoveOrder(order.ID)
			if e != nil {
				w.l.Errorf("could not remove reconciled order %s: %s\n", order.ID, e)
			} else {
				w.l.Infof("removed fully reconciled order %s\n", order.ID)
			}
		}
	}

	return activeCount == 0, nil
}

func (w *Worker) centerPriceDrifted() (bool, error) {
	if w.lastCenterPrice == 0 {
		return false, nil
	}

	price, e := w.priceFeed.GetPrice()
	if e != nil {
		return false, fmt.Errorf("could not get center price from feed: %s", e)
	}

	deviationPct := math.Abs(price-w.lastCenterPrice) / w.lastCenterPrice * 100
	if deviationPct >= *w.resetOnPriceChangePct {
		w.l.Infof("center price drifted %.4f%% (threshold %.4f%%), refreshing orders\n", deviationPct, *w.resetOnPriceChangePct)
		return true, nil
	}
	return false, nil
}

// updateOrders cancels the current order set and places a freshly sized one. A
// placement shortfall triggers one more full update to compensate for transient
// failures, bounded so a persistent failure cannot loop.
func (w *Worker) updateOrders(allowRetry bool) error {
	e := w.homeMarket.CancelAllOrders()
	if e != nil {
		return fmt.Errorf("could not cancel home orders: %s", e)
	}

	buys, sells, e := w.computeOrders()
	if e != nil {
		return fmt.Errorf("could not compute orders: %s", e)
	}

	placed := 0
	for _, o := range buys {
		if w.placeOrder(o, w.homeMarket.PlaceBuyOrder) {
			placed++
		}
	}
	for _, o := range sells {
		if w.placeOrder(o, w.homeMarket.PlaceSellOrder) {
			placed++
		}
	}

	expected := len(buys) + len(sells)
	w.l.Infof("placed %d of %d computed orders\n", placed, expected)
	if placed < expected && allowRetry && w.state != StateDisabled {
		w.l.Infof("placement shortfall, repeating the full update once\n")
		return w.updateOrders(false)
	}
	return nil
}

func (w *Worker) placeOrder(o model.Order, place func(volume *model.Number, price *model.Number) (*api.HomeOrder, error)) bool {
	homeOrder, e := place(o.Volume, o.Price)
	if e != nil {
		w.l.Errorf("could not place order %s: %s\n", o.String(), e)
		return false
	}

	// seed the payload so the next pass always decodes a typed state
	payload, e := plugins.MakeOrderFillState().Encode()
	if e == nil {
		e = w.homeMarket.UpdateOrderPayload(homeOrder.ID, payload)
	}
	if e != nil {
		w.l.Errorf("could not seed fill state on order %s: %s\n", homeOrder.ID, e)
	}
	return true
}

// computeOrders runs the sizing pipeline: external depth, aggregation, price band,
// filtering, then balance-constrained sizing.
func (w *Worker) computeOrders() ([]model.Order, []model.Order, error) {
	rawDepth, e := w.exchange.GetOrderBook(w.externalPair, w.depthCount)
	if e != nil {
		return nil, nil, fmt.Errorf("could not fetch external orderbook: %s", e)
	}

	aggregated, precision, e := w.aggregator.Aggregate(rawDepth)
	if e != nil {
		return nil, nil, fmt.Errorf("could not aggregate depth: %s", e)
	}

	centerPrice, e := w.centerPrice(aggregated)
	if e != nil {
		return nil, nil, e
	}
	w.lastCenterPrice = centerPrice

	band, e := plugins.ComputePriceBand(aggregated, w.minSpreadPct, centerPrice, precision)
	if e != nil {
		return nil, nil, fmt.Errorf("could not compute price band: %s", e)
	}
	w.l.Infof("using %s around center price %.8f\n", band.String(), centerPrice)

	filtered := plugins.FilterDepth(aggregated, band)

	home, e := w.homeBalances()
	if e != nil {
		return nil, nil, e
	}
	external, e := w.externalBalances()
	if e != nil {
		return nil, nil, e
	}

	sizer := plugins.MakeOrderSizer(w.homePair, w.minBaseVolume, w.pricePrecision, w.volumePrecision, w.l)
	buys, sells := sizer.ComputeOrders(rawDepth, filtered, home, external)
	return buys, sells, nil
}

func (w *Worker) centerPrice(aggregated *model.Depth) (float64, error) {
	if w.priceFeed == nil {
		midpoint, e := plugins.MidpointPrice(aggregated)
		if e != nil {
			return 0, fmt.Errorf("could not compute midpoint center price: %s", e)
		}
		return midpoint, nil
	}

	price, e := w.priceFeed.GetPrice()
	if e != nil {
		return 0, fmt.Errorf("could not get center price from feed: %s", e)
	}
	if price <= 0 {
		return 0, fmt.Errorf("center price feed returned a non-positive price: %f", price)
	}
	return price, nil
}

func (w *Worker) homeBalances() (plugins.SideBalances, error) {
	base, e := w.homeMarket.GetBalance(w.homePair.Base)
	if e != nil {
		return plugins.SideBalances{}, fmt.Errorf("could not fetch home balance of %s: %s", w.homePair.Base, e)
	}
	quote, e := w.homeMarket.GetBalance(w.homePair.Quote)
	if e != nil {
		return plugins.SideBalances{}, fmt.Errorf("could not fetch home balance of %s: %s", w.homePair.Quote, e)
	}
	return plugins.SideBalances{Base: base, Quote: quote}, nil
}

func (w *Worker) externalBalances() (plugins.SideBalances, error) {
	snapshot, e := w.exchange.GetBalances()
	if e != nil {
		return plugins.SideBalances{}, fmt.Errorf("could not fetch external balances: %s", e)
	}

	base, ok := snapshot.Free[w.externalPair.Base]
	if !ok {
		base = model.NumberConstants.Zero
	}
	quote, ok := snapshot.Free[w.externalPair.Quote]
	if !ok {
		quote = model.NumberConstants.Zero
	}
	return plugins.SideBalances{Base: base, Quote: quote}, nil
}
