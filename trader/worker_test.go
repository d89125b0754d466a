package trader

import (
	"fmt"
	"testing"
	"time"

	"github.com/nikhilsaraf/go-tools/multithreading"
	"github.com/openlyinc/pointy"
	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/plugins"
	"github.com/quantadex/crossmarket/support/logger"
	"github.com/stretchr/testify/assert"
)

type mockHomeMarket struct {
	orders          []api.HomeOrder
	balances        map[model.Asset]float64
	payloads        map[string]string
	fetchCalls      int
	cancelCalls     int
	removed         []string
	placed          []model.Order
	failPlacements  int
	nextOrderNumber int
}

var _ api.HomeMarket = &mockHomeMarket{}

func (m *mockHomeMarket) FetchOrders() ([]api.HomeOrder, error) {
	m.fetchCalls++
	return m.orders, nil
}

func (m *mockHomeMarket) FetchOrder(id string) (*api.HomeOrder, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			return &m.orders[i], nil
		}
	}
	return nil, nil
}

func (m *mockHomeMarket) placeOrder(action model.OrderAction, volume *model.Number, price *model.Number) (*api.HomeOrder, error) {
	if m.failPlacements > 0 {
		m.failPlacements--
		return nil, fmt.Errorf("placement rejected")
	}

	m.nextOrderNumber++
	order := model.Order{
		Pair:        model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD")),
		OrderAction: action,
		OrderType:   model.OrderTypeLimit,
		Price:       price,
		Volume:      volume,
	}
	m.placed = append(m.placed, order)
	return &api.HomeOrder{
		ID:    fmt.Sprintf("order%d", m.nextOrderNumber),
		Order: order,
		Open:  true,
	}, nil
}

func (m *mockHomeMarket) PlaceBuyOrder(volume *model.Number, price *model.Number) (*api.HomeOrder, error) {
	return m.placeOrder(model.OrderActionBuy, volume, price)
}

func (m *mockHomeMarket) PlaceSellOrder(volume *model.Number, price *model.Number) (*api.HomeOrder, error) {
	return m.placeOrder(model.OrderActionSell, volume, price)
}

func (m *mockHomeMarket) CancelAllOrders() error {
	m.cancelCalls++
	return nil
}

func (m *mockHomeMarket) RemoveOrder(id string) error {
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockHomeMarket) UpdateOrderPayload(id string, payload string) error {
	if m.payloads == nil {
		m.payloads = map[string]string{}
	}
	m.payloads[id] = payload
	return nil
}

func (m *mockHomeMarket) GetBalance(asset model.Asset) (*model.Number, error) {
	return model.NumberFromFloat(m.balances[asset], 8), nil
}

type mockExchange struct {
	depth           *model.Depth
	freeBalances    map[model.Asset]float64
	closedTrades    []model.Trade
	marketOrders    []model.Order
	failSubmitAfter int // reject submissions once this many were accepted (0 disables)
}

var _ api.ExternalExchange = &mockExchange{}

func (m *mockExchange) GetTickerPrice(pairs []model.TradingPair) (map[model.TradingPair]api.Ticker, error) {
	return map[model.TradingPair]api.Ticker{}, nil
}

func (m *mockExchange) GetOrderBook(pair *model.TradingPair, maxCount int32) (*model.Depth, error) {
	return m.depth, nil
}

func (m *mockExchange) GetBalances() (*api.BalanceSnapshot, error) {
	snapshot := &api.BalanceSnapshot{
		Free:  map[model.Asset]*model.Number{},
		Total: map[model.Asset]*model.Number{},
	}
	for asset, amount := range m.freeBalances {
		snapshot.Free[asset] = model.NumberFromFloat(amount, 8)
		snapshot.Total[asset] = model.NumberFromFloat(amount, 8)
	}
	return snapshot, nil
}

func (m *mockExchange) SubmitMarketOrder(pair *model.TradingPair, action model.OrderAction, volume *model.Number) (*model.TransactionID, error) {
	if m.failSubmitAfter > 0 && len(m.marketOrders) >= m.failSubmitAfter {
		return nil, fmt.Errorf("market order rejected")
	}
	m.marketOrders = append(m.marketOrders, model.Order{
		Pair:        pair,
		OrderAction: action,
		OrderType:   model.OrderTypeMarket,
		Volume:      volume,
	})
	return model.MakeTransactionID(fmt.Sprintf("counter%d", len(m.marketOrders))), nil
}

func (m *mockExchange) GetClosedTrades(pair *model.TradingPair) ([]model.Trade, error) {
	return m.closedTrades, nil
}

type mockOpsFeed struct {
	ops []model.FillOperation
}

var _ api.OperationsFeed = &mockOpsFeed{}

func (m *mockOpsFeed) GetFillOperations(accountID string) ([]model.FillOperation, error) {
	return m.ops, nil
}

type mockPriceFeed struct {
	price float64
}

var _ api.PriceFeed = &mockPriceFeed{}

func (m *mockPriceFeed) GetPrice() (float64, error) {
	return m.price, nil
}

type mockAlert struct {
	triggered []string
}

var _ api.Alert = &mockAlert{}

func (m *mockAlert) Trigger(description string, details interface{}) error {
	m.triggered = append(m.triggered, description)
	return nil
}

func makeMockDepth() *model.Depth {
	pair := model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD"))
	makeLevels := func(levels [][]float64) []model.Level {
		out := []model.Level{}
		for _, l := range levels {
			out = append(out, model.MakeLevel(model.NumberFromFloat(l[0], 2), model.NumberFromFloat(l[1], 2)))
		}
		return out
	}
	return model.MakeDepth(pair,
		makeLevels([][]float64{{100.25, 2.0}, {99.90, 3.0}}),
		makeLevels([][]float64{{101.15, 2.0}, {102.40, 3.0}}),
	)
}

func makeTestWorker(t *testing.T, homeMarket *mockHomeMarket, exchange *mockExchange, opsFeed *mockOpsFeed, priceFeed api.PriceFeed, resetPct *float64, alert api.Alert) *Worker {
	pair := model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD"))
	l := logger.MakeBasicLogger()

	counterFiller := plugins.MakeCounterFiller(pair, exchange, homeMarket, 0, 8, multithreading.MakeThreadTracker(), []api.FillHandler{}, l)
	worker, e := MakeWorker(
		pair,
		pair,
		"acct1",
		homeMarket,
		exchange,
		opsFeed,
		priceFeed,
		counterFiller,
		plugins.MakeDepthAggregator(100.0),
		plugins.MakeIntervalTimeController(time.Second, 0),
		alert,
		0.0,
		0.01,
		20,
		2,
		8,
		8*time.Second,
		resetPct,
		l,
	)
	if !assert.NoError(t, e) {
		t.FailNow()
	}
	return worker
}

func TestWorkerRefreshesWhenNoOrdersExist(t *testing.T) {
	homeMarket := &mockHomeMarket{
		balances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	exchange := &mockExchange{
		depth:        makeMockDepth(),
		freeBalances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	worker := makeTestWorker(t, homeMarket, exchange, &mockOpsFeed{}, nil, nil, nil)

	e := worker.check()
	if !assert.NoError(t, e) {
		return
	}

	assert.Equal(t, StateStable, worker.State())
	assert.Equal(t, 1, homeMarket.cancelCalls)
	assert.True(t, len(homeMarket.placed) > 0, "expected a fresh order set to be placed")
	for id, payload := range homeMarket.payloads {
		state := plugins.ParseOrderFillState(payload)
		assert.Equal(t, 0, len(state.FillOrders), fmt.Sprintf("expected a seeded empty state on order %s", id))
	}
}

func TestWorkerMirrorsNewFills(t *testing.T) {
	emptyPayload, e := plugins.MakeOrderFillState().Encode()
	if !assert.NoError(t, e) {
		return
	}

	homeMarket := &mockHomeMarket{
		orders: []api.HomeOrder{
			{
				ID: "order1",
				Order: model.Order{
					Pair:        model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD")),
					OrderAction: model.OrderActionBuy,
					OrderType:   model.OrderTypeLimit,
					Price:       model.NumberFromFloat(100.0, 2),
					Volume:      model.NumberFromFloat(2.0, 8),
				},
				Open:    true,
				Payload: emptyPayload,
			},
		},
		balances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	exchange := &mockExchange{
		depth:        makeMockDepth(),
		freeBalances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
		closedTrades: []model.Trade{
			{
				Order: model.Order{
					Pair:        model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD")),
					OrderAction: model.OrderActionSell,
					OrderType:   model.OrderTypeMarket,
					Price:       model.NumberFromFloat(100.5, 2),
					Volume:      model.NumberFromFloat(1.5, 8),
				},
				TransactionID: model.MakeTransactionID("trade1"),
				OrderID:       "counter1",
				Cost:          model.NumberFromFloat(150.75, 2),
			},
		},
	}
	opsFeed := &mockOpsFeed{
		ops: []model.FillOperation{
			{
				OperationID: "op1",
				OrderID:     "order1",
				OrderAction: model.OrderActionBuy,
				Amount:      model.NumberFromFloat(1.5, 8),
				AssetID:     "1.3.0",
			},
		},
	}
	worker := makeTestWorker(t, homeMarket, exchange, opsFeed, nil, nil, nil)

	e = worker.check()
	if !assert.NoError(t, e) {
		return
	}

	// a buy fill on the home market is mirrored as a sell on the external market
	if !assert.Equal(t, 1, len(exchange.marketOrders)) {
		return
	}
	assert.True(t, exchange.marketOrders[0].OrderAction.IsSell())
	assert.Equal(t, 1.5, exchange.marketOrders[0].Volume.AsFloat())

	state := plugins.ParseOrderFillState(homeMarket.payloads["order1"])
	assert.Equal(t, 1, len(state.FillOrders))
	assert.Equal(t, 1.5, state.FillOrders["op1"].Amount)
	assert.Equal(t, 1.5, state.CounterOrders["counter1"].Filled)
	assert.Equal(t, 0, len(state.PendingCounterOrders()))
}

func TestWorkerDoesNotRemirrorFillsAfterPartialCounterFailure(t *testing.T) {
	emptyPayload, e := plugins.MakeOrderFillState().Encode()
	if !assert.NoError(t, e) {
		return
	}

	homeMarket := &mockHomeMarket{
		orders: []api.HomeOrder{
			{
				ID: "order1",
				Order: model.Order{
					Pair:        model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD")),
					OrderAction: model.OrderActionBuy,
					OrderType:   model.OrderTypeLimit,
					Price:       model.NumberFromFloat(100.0, 2),
					Volume:      model.NumberFromFloat(2.0, 8),
				},
				Open:    true,
				Payload: emptyPayload,
			},
		},
		balances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	exchange := &mockExchange{
		depth:           makeMockDepth(),
		freeBalances:    map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
		failSubmitAfter: 1,
	}
	opsFeed := &mockOpsFeed{
		ops: []model.FillOperation{
			{
				OperationID: "op1",
				OrderID:     "order1",
				OrderAction: model.OrderActionBuy,
				Amount:      model.NumberFromFloat(1.5, 8),
				AssetID:     "1.3.0",
			}, {
				OperationID: "op2",
				OrderID:     "order1",
				OrderAction: model.OrderActionBuy,
				Amount:      model.NumberFromFloat(0.5, 8),
				AssetID:     "1.3.0",
			},
		},
	}
	worker := makeTestWorker(t, homeMarket, exchange, opsFeed, nil, nil, nil)

	e = worker.check()
	assert.Error(t, e)
	assert.Equal(t, 1, len(exchange.marketOrders))

	// the merged fills were persisted before the failing placement, so a later pass
	// sees nothing new and cannot mirror op1 a second time
	state := plugins.ParseOrderFillState(homeMarket.payloads["order1"])
	assert.Equal(t, 2, len(state.FillOrders))
	assert.Equal(t, 1, len(state.CounterOrders))
	assert.Equal(t, 0, len(state.MergeFills(opsFeed.ops)))
}

func TestWorkerEnforcesMinCheckInterval(t *testing.T) {
	homeMarket := &mockHomeMarket{
		orders: []api.HomeOrder{
			{ID: "order1", Open: true},
		},
		balances: map[model.Asset]float64{},
	}
	exchange := &mockExchange{depth: makeMockDepth(), freeBalances: map[model.Asset]float64{}}
	worker := makeTestWorker(t, homeMarket, exchange, &mockOpsFeed{}, nil, nil, nil)

	e := worker.check()
	if !assert.NoError(t, e) {
		return
	}
	assert.Equal(t, 1, homeMarket.fetchCalls)

	// a second pass inside the minimum interval is a no-op
	e = worker.check()
	if !assert.NoError(t, e) {
		return
	}
	assert.Equal(t, 1, homeMarket.fetchCalls)
}

func TestWorkerRetriesOncePlacementShortfall(t *testing.T) {
	homeMarket := &mockHomeMarket{
		balances:       map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
		failPlacements: 1,
	}
	exchange := &mockExchange{
		depth:        makeMockDepth(),
		freeBalances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	worker := makeTestWorker(t, homeMarket, exchange, &mockOpsFeed{}, nil, nil, nil)

	e := worker.check()
	if !assert.NoError(t, e) {
		return
	}

	// the first placement failure causes exactly one additional full update
	assert.Equal(t, 2, homeMarket.cancelCalls)
	assert.True(t, len(homeMarket.placed) > 0)
}

func TestWorkerRefreshesOnCenterPriceDrift(t *testing.T) {
	homeMarket := &mockHomeMarket{
		orders: []api.HomeOrder{
			{ID: "order1", Open: true},
		},
		balances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	exchange := &mockExchange{
		depth:        makeMockDepth(),
		freeBalances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	feed := &mockPriceFeed{price: 110.0}
	worker := makeTestWorker(t, homeMarket, exchange, &mockOpsFeed{}, feed, pointy.Float64(1.0), nil)
	worker.lastCenterPrice = 100.0

	e := worker.check()
	if !assert.NoError(t, e) {
		return
	}

	// 10% drift exceeds the 1% threshold so the full order set is refreshed
	assert.Equal(t, 1, homeMarket.cancelCalls)
}

func TestWorkerRefreshesOnDriftAtExactThreshold(t *testing.T) {
	homeMarket := &mockHomeMarket{
		orders: []api.HomeOrder{
			{ID: "order1", Open: true},
		},
		balances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	exchange := &mockExchange{
		depth:        makeMockDepth(),
		freeBalances: map[model.Asset]float64{model.Asset("BTC"): 1000.0, model.Asset("USD"): 1000.0},
	}
	feed := &mockPriceFeed{price: 101.0}
	worker := makeTestWorker(t, homeMarket, exchange, &mockOpsFeed{}, feed, pointy.Float64(1.0), nil)
	worker.lastCenterPrice = 100.0

	e := worker.check()
	if !assert.NoError(t, e) {
		return
	}

	// a drift of exactly the threshold refreshes too
	assert.Equal(t, 1, homeMarket.cancelCalls)
}

func TestWorkerStaysStableWithoutDrift(t *testing.T) {
	homeMarket := &mockHomeMarket{
		orders: []api.HomeOrder{
			{ID: "order1", Open: true},
		},
		balances: map[model.Asset]float64{},
	}
	exchange := &mockExchange{depth: makeMockDepth(), freeBalances: map[model.Asset]float64{}}
	feed := &mockPriceFeed{price: 100.05}
	worker := makeTestWorker(t, homeMarket, exchange, &mockOpsFeed{}, feed, pointy.Float64(1.0), nil)
	worker.lastCenterPrice = 100.0

	e := worker.check()
	if !assert.NoError(t, e) {
		return
	}

	assert.Equal(t, StateStable, worker.State())
	assert.Equal(t, 0, homeMarket.cancelCalls)
}

func TestMakeWorkerRejectsDriftWithoutFeed(t *testing.T) {
	homeMarket := &mockHomeMarket{}
	exchange := &mockExchange{depth: makeMockDepth()}
	pair := model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD"))
	l := logger.MakeBasicLogger()
	counterFiller := plugins.MakeCounterFiller(pair, exchange, homeMarket, 0, 8, multithreading.MakeThreadTracker(), []api.FillHandler{}, l)

	_, e := MakeWorker(
		pair, pair, "acct1", homeMarket, exchange, &mockOpsFeed{}, nil, counterFiller,
		plugins.MakeDepthAggregator(100.0), plugins.MakeIntervalTimeController(time.Second, 0), nil,
		0.0, 0.01, 20, 2, 8, 8*time.Second, pointy.Float64(1.0), l,
	)
	assert.Error(t, e)
}

func TestWorkerDisablesAndAlertsOnEventError(t *testing.T) {
	// an empty external book makes the update pass fail
	pair := model.MakeTradingPair(model.Asset("BTC"), model.Asset("USD"))
	homeMarket := &mockHomeMarket{balances: map[model.Asset]float64{}}
	exchange := &mockExchange{depth: model.MakeDepth(pair, []model.Level{}, []model.Level{})}
	alert := &mockAlert{}
	worker := makeTestWorker(t, homeMarket, exchange, &mockOpsFeed{}, nil, nil, alert)

	worker.handleEvent(Event{Type: EventTick, At: time.Now()})

	assert.Equal(t, StateDisabled, worker.State())
	assert.Equal(t, 1, len(alert.triggered))

	// a disabled worker ignores further events
	worker.handleEvent(Event{Type: EventTick, At: time.Now()})
	assert.Equal(t, 1, len(alert.triggered))
}
