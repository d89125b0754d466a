package plugins

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/support/networking"
)

const homeMarketPrecision = 8

// quantaMarket drives the home DEX through its REST gateway
type quantaMarket struct {
	baseURL    string
	accountID  string
	pair       *model.TradingPair
	httpClient *http.Client
}

// ensure quantaMarket implements HomeMarket
var _ api.HomeMarket = &quantaMarket{}

// MakeQuantaMarket is a factory method for a HomeMarket backed by the home DEX
// gateway. baseURL should not have a trailing '/'
func MakeQuantaMarket(baseURL string, accountID string, pair *model.TradingPair) api.HomeMarket {
	return &quantaMarket{
		baseURL:    baseURL,
		accountID:  accountID,
		pair:       pair,
		httpClient: http.DefaultClient,
	}
}

type homeOrderResponse struct {
	ID      string  `json:"id"`
	Side    string  `json:"side"`
	Price   float64 `json:"price"`
	Volume  float64 `json:"volume"`
	Open    bool    `json:"open"`
	Payload string  `json:"payload"`
}

func (m *quantaMarket) convertOrder(r homeOrderResponse) api.HomeOrder {
	return api.HomeOrder{
		ID: r.ID,
		Order: model.Order{
			Pair:        m.pair,
			OrderAction: model.OrderActionFromString(r.Side),
			OrderType:   model.OrderTypeLimit,
			Price:       model.NumberFromFloat(r.Price, homeMarketPrecision),
			Volume:      model.NumberFromFloat(r.Volume, homeMarketPrecision),
		},
		Open:    r.Open,
		Payload: r.Payload,
	}
}

// FetchOrders impl.
func (m *quantaMarket) FetchOrders() ([]api.HomeOrder, error) {
	url := fmt.Sprintf("%s/accounts/%s/orders?market=%s", m.baseURL, m.accountID, m.pair.String())
	var response []homeOrderResponse
	e := networking.JSONRequest(m.httpClient, "GET", url, "", map[string]string{}, &response, "error")
	if e != nil {
		return nil, fmt.Errorf("error fetching orders for account '%s': %s", m.accountID, e)
	}

	orders := []api.HomeOrder{}
	for _, r := range response {
		orders = append(orders, m.convertOrder(r))
	}
	return orders, nil
}

// FetchOrder impl.
func (m *quantaMarket) FetchOrder(id string) (*api.HomeOrder, error) {
	url := fmt.Sprintf("%s/orders/%s", m.baseURL, id)
	var response homeOrderResponse
	e := networking.JSONRequest(m.httpClient, "GET", url, "", map[string]string{}, &response, "error")
	if e != nil {
		return nil, fmt.Errorf("error fetching order '%s': %s", id, e)
	}
	if response.ID == "" {
		return nil, nil
	}

	order := m.convertOrder(response)
	return &order, nil
}

func (m *quantaMarket) placeOrder(side string, volume *model.Number, price *model.Number) (*api.HomeOrder, error) {
	data, e := json.Marshal(&struct {
		Account string `json:"account"`
		Market  string `json:"market"`
		Side    string `json:"side"`
		Price   string `json:"price"`
		Volume  string `json:"volume"`
	}{
		Account: m.accountID,
		Market:  m.pair.String(),
		Side:    side,
		Price:   price.AsString(),
		Volume:  volume.AsString(),
	})
	if e != nil {
		return nil, fmt.Errorf("error marshaling %s order request: %s", side, e)
	}

	var response homeOrderResponse
	e = networking.JSONRequest(m.httpClient, "POST", m.baseURL+"/orders", string(data), map[string]string{}, &response, "error")
	if e != nil {
		return nil, fmt.Errorf("error placing %s order (price=%s, volume=%s): %s", side, price.AsString(), volume.AsString(), e)
	}

	order := m.convertOrder(response)
	return &order, nil
}

// PlaceBuyOrder impl.
func (m *quantaMarket) PlaceBuyOrder(volume *model.Number, price *model.Number) (*api.HomeOrder, error) {
	return m.placeOrder("buy", volume, price)
}

// PlaceSellOrder impl.
func (m *quantaMarket) PlaceSellOrder(volume *model.Number, price *model.Number) (*api.HomeOrder, error) {
	return m.placeOrder("sell", volume, price)
}

// CancelAllOrders impl.
func (m *quantaMarket) CancelAllOrders() error {
	url := fmt.Sprintf("%s/accounts/%s/orders?market=%s", m.baseURL, m.accountID, m.pair.String())
	var response interface{}
	e := networking.JSONRequest(m.httpClient, "DELETE", url, "", map[string]string{}, &response, "error")
	if e != nil {
		return fmt.Errorf("error cancelling all orders for account '%s': %s", m.accountID, e)
	}
	return nil
}

// RemoveOrder impl.
func (m *quantaMarket) RemoveOrder(id string) error {
	url := fmt.Sprintf("%s/orders/%s", m.baseURL, id)
	var response interface{}
	e := networking.JSONRequest(m.httpClient, "DELETE", url, "", map[string]string{}, &response, "error")
	if e != nil {
		return fmt.Errorf("error removing order '%s': %s", id, e)
	}
	return nil
}

// UpdateOrderPayload impl.
func (m *quantaMarket) UpdateOrderPayload(id string, payload string) error {
	data, e := json.Marshal(&struct {
		Payload string `json:"payload"`
	}{
		Payload: payload,
	})
	if e != nil {
		return fmt.Errorf("error marshaling payload for order '%s': %s", id, e)
	}

	url := fmt.Sprintf("%s/orders/%s/payload", m.baseURL, id)
	var response interface{}
	e = networking.JSONRequest(m.httpClient, "PUT", url, string(data), map[string]string{}, &response, "error")
	if e != nil {
		return fmt.Errorf("error updating payload on order '%s': %s", id, e)
	}
	return nil
}

// GetBalance impl.
func (m *quantaMarket) GetBalance(asset model.Asset) (*model.Number, error) {
	url := fmt.Sprintf("%s/accounts/%s/balances/%s", m.baseURL, m.accountID, string(asset))
	var response struct {
		Asset  string  `json:"asset"`
		Amount float64 `json:"amount"`
	}
	e := networking.JSONRequest(m.httpClient, "GET", url, "", map[string]string{}, &response, "error")
	if e != nil {
		return nil, fmt.Errorf("error fetching balance of asset '%s' for account '%s': %s", string(asset), m.accountID, e)
	}
	return model.NumberFromFloat(response.Amount, homeMarketPrecision), nil
}
