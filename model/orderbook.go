package model

import (
	"fmt"
)

// OrderAction is the action of buy / sell
type OrderAction bool

// OrderActionBuy and OrderActionSell are the two actions
const (
	OrderActionBuy  OrderAction = false
	OrderActionSell OrderAction = true
)

// IsBuy returns true for buy actions
func (a OrderAction) IsBuy() bool {
	return a == OrderActionBuy
}

// IsSell returns true for sell actions
func (a OrderAction) IsSell() bool {
	return a == OrderActionSell
}

// Reverse returns the opposite action
func (a OrderAction) Reverse() OrderAction {
	if a.IsSell() {
		return OrderActionBuy
	}
	return OrderActionSell
}

// String is the stringer function
func (a OrderAction) String() string {
	if a == OrderActionBuy {
		return "buy"
	} else if a == OrderActionSell {
		return "sell"
	}
	return "error, unrecognized order action"
}

var orderActionMap = map[string]OrderAction{
	"buy":  OrderActionBuy,
	"sell": OrderActionSell,
}

// OrderActionFromString is a convenience to convert from common strings to the corresponding OrderAction
func OrderActionFromString(s string) OrderAction {
	return orderActionMap[s]
}

// OrderType represents a type of an order, example market, limit, etc.
type OrderType int8

// These are the available order types
const (
	OrderTypeMarket OrderType = 0
	OrderTypeLimit  OrderType = 1
)

// IsMarket returns true for market orders
func (o OrderType) IsMarket() bool {
	return o == OrderTypeMarket
}

// IsLimit returns true for limit orders
func (o OrderType) IsLimit() bool {
	return o == OrderTypeLimit
}

// String is the stringer function
func (o OrderType) String() string {
	if o == OrderTypeMarket {
		return "market"
	} else if o == OrderTypeLimit {
		return "limit"
	}
	return "error, unrecognized order type"
}

// Level is a single price level of an orderbook, an (amount available) at a (price)
type Level struct {
	Price  *Number
	Amount *Number
}

// MakeLevel is a factory method for Level
func MakeLevel(price *Number, amount *Number) Level {
	return Level{
		Price:  price,
		Amount: amount,
	}
}

// String is the stringer function
func (l Level) String() string {
	return fmt.Sprintf("[%s, %s]", l.Price.AsString(), l.Amount.AsString())
}

// Depth encapsulates the bid/ask price-level ladder of a market.
// bids are ordered by descending price, asks by ascending price; best bid/ask are at index 0
type Depth struct {
	pair *TradingPair
	bids []Level
	asks []Level
}

// MakeDepth creates a new Depth from the bids and the asks
func MakeDepth(pair *TradingPair, bids []Level, asks []Level) *Depth {
	return &Depth{
		pair: pair,
		bids: bids,
		asks: asks,
	}
}

// Pair returns the trading pair
func (d Depth) Pair() *TradingPair {
	return d.pair
}

// Bids returns the bids in a depth
func (d Depth) Bids() []Level {
	return d.bids
}

// Asks returns the asks in a depth
func (d Depth) Asks() []Level {
	return d.asks
}

// Order represents an order on a market
type Order struct {
	Pair        *TradingPair
	OrderAction OrderAction
	OrderType   OrderType
	Price       *Number
	Volume      *Number
	Timestamp   *Timestamp
}

// String is the stringer function
func (o Order) String() string {
	tsString := "<nil>"
	if o.Timestamp != nil {
		tsString = fmt.Sprintf("%d", o.Timestamp.AsInt64())
	}

	return fmt.Sprintf("Order[pair=%s, action=%s, type=%s, price=%s, vol=%s, ts=%s]",
		o.Pair,
		o.OrderAction,
		o.OrderType,
		o.Price.AsString(),
		o.Volume.AsString(),
		tsString,
	)
}

// TransactionID is typed for the concept of a transaction ID of an order
type TransactionID string

// String is the stringer function
func (t *TransactionID) String() string {
	return string(*t)
}

// MakeTransactionID is a factory method for convenience
func MakeTransactionID(s string) *TransactionID {
	t := TransactionID(s)
	return &t
}

// Trade represents a trade on an exchange
type Trade struct {
	Order
	TransactionID *TransactionID
	OrderID       string
	Cost          *Number
	Fee           *Number
}

func (t Trade) String() string {
	return fmt.Sprintf("Trade[txid: %s, orderId: %s, ts: %s, pair: %s, action: %s, type: %s, counterPrice: %s, baseVolume: %s, counterCost: %s, fee: %s]",
		checkedString(t.TransactionID),
		t.OrderID,
		checkedString(t.Timestamp),
		*t.Pair,
		t.OrderAction,
		t.OrderType,
		checkedString(t.Price),
		checkedString(t.Volume),
		checkedString(t.Cost),
		checkedString(t.Fee),
	)
}

func checkedString(v interface{}) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", v)
}
