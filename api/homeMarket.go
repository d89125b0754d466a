package api

import (
	"github.com/quantadex/crossmarket/model"
)

// HomeOrder is an order resting on the home market, together with the opaque
// payload the bot attaches to it for fill tracking
type HomeOrder struct {
	ID      string
	Order   model.Order
	Open    bool
	Payload string
}

// HomeMarket is the interface to the market we quote on. Placement, cancellation
// and balance lookup are owned by the concrete client; the engine only consumes
// this narrow surface
type HomeMarket interface {
	// FetchOrders returns all of the bot's orders on the market, with payloads
	FetchOrders() ([]HomeOrder, error)

	// FetchOrder returns the order with the given id, or nil if it is not known
	FetchOrder(id string) (*HomeOrder, error)

	// PlaceBuyOrder and PlaceSellOrder place limit orders sized in the base asset
	PlaceBuyOrder(volume *model.Number, price *model.Number) (*HomeOrder, error)
	PlaceSellOrder(volume *model.Number, price *model.Number) (*HomeOrder, error)

	// CancelAllOrders cancels all of the bot's orders on the market
	CancelAllOrders() error

	// RemoveOrder soft-removes a tracked order from the bot's order set
	RemoveOrder(id string) error

	// UpdateOrderPayload persists a new opaque payload against the order
	UpdateOrderPayload(id string, payload string) error

	// GetBalance returns the available balance of the asset
	GetBalance(asset model.Asset) (*model.Number, error)
}

// OperationsFeed provides the home chain's historical fill operations for an account.
// The feed is the source of truth for which home orders have been matched
type OperationsFeed interface {
	GetFillOperations(accountID string) ([]model.FillOperation, error)
}
