package sdk

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/quantadex/crossmarket/support/networking"
)

// ccxtBaseURL should not have a trailing '/'
const ccxtBaseURL = "http://localhost:3000"
const pathExchanges = "/exchanges"

// Ccxt Rest SDK
type Ccxt struct {
	httpClient   *http.Client
	exchangeName string
	instanceName string
}

// MakeInitializedCcxtExchange constructs an instance of Ccxt that is bound to a specific exchange instance on the CCXT REST server
func MakeInitializedCcxtExchange(exchangeName string, apiKey string, apiSecret string) (*Ccxt, error) {
	instanceName := exchangeName + "1"
	c := &Ccxt{
		httpClient:   http.DefaultClient,
		exchangeName: exchangeName,
		instanceName: instanceName,
	}

	e := c.init(apiKey, apiSecret)
	if e != nil {
		return nil, fmt.Errorf("error when initializing Ccxt exchange: %s", e)
	}

	return c, nil
}

func (c *Ccxt) init(apiKey string, apiSecret string) error {
	// get exchange list
	var exchangeList []string
	e := networking.JSONRequest(c.httpClient, "GET", ccxtBaseURL+pathExchanges, "", map[string]string{}, &exchangeList, "error")
	if e != nil {
		return fmt.Errorf("error getting list of supported exchanges by CCXT: %s", e)
	}

	// validate that exchange name is in the exchange list
	exchangeListed := false
	for _, name := range exchangeList {
		if name == c.exchangeName {
			exchangeListed = true
			break
		}
	}
	if !exchangeListed {
		return fmt.Errorf("exchange '%s' is not in the list of %d exchanges available: %v", c.exchangeName, len(exchangeList), exchangeList)
	}

	// list all the instances of the exchange
	var instanceList []string
	e = networking.JSONRequest(c.httpClient, "GET", ccxtBaseURL+pathExchanges+"/"+c.exchangeName, "", map[string]string{}, &instanceList, "error")
	if e != nil {
		return fmt.Errorf("error getting list of exchange instances for exchange '%s': %s", c.exchangeName, e)
	}

	// make a new instance if needed
	if !c.hasInstance(instanceList) {
		e = c.newInstance(apiKey, apiSecret)
		if e != nil {
			return fmt.Errorf("error creating new instance '%s' for exchange '%s': %s", c.instanceName, c.exchangeName, e)
		}
		log.Printf("created new instance '%s' for exchange '%s'\n", c.instanceName, c.exchangeName)
	}

	// load markets to populate fields related to markets
	url := ccxtBaseURL + pathExchanges + "/" + c.exchangeName + "/" + c.instanceName + "/loadMarkets"
	var markets interface{}
	e = networking.JSONRequest(c.httpClient, "POST", url, "", map[string]string{}, &markets, "error")
	if e != nil {
		return fmt.Errorf("error loading markets for exchange instance (exchange=%s, instanceName=%s): %s", c.exchangeName, c.instanceName, e)
	}

	return nil
}

func (c *Ccxt) hasInstance(instanceList []string) bool {
	for _, i := range instanceList {
		if i == c.instanceName {
			return true
		}
	}
	return false
}

func (c *Ccxt) newInstance(apiKey string, apiSecret string) error {
	data, e := json.MarshalIndent(&struct {
		ID        string `json:"id"`
		APIKey    string `json:"apiKey"`
		APISecret string `json:"secret"`
	}{
		ID:        c.instanceName,
		APIKey:    apiKey,
		APISecret: apiSecret,
	}, "", "")
	if e != nil {
		return fmt.Errorf("error marshaling instanceName '%s' as ID for exchange '%s': %s", c.instanceName, c.exchangeName, e)
	}

	var newInstance map[string]interface{}
	e = networking.JSONRequest(c.httpClient, "POST", ccxtBaseURL+pathExchanges+"/"+c.exchangeName, string(data), map[string]string{}, &newInstance, "error")
	if e != nil {
		return fmt.Errorf("error in web request when creating new exchange instance for exchange '%s': %s", c.exchangeName, e)
	}

	if _, ok := newInstance["urls"]; !ok {
		return fmt.Errorf("check for new instance of exchange '%s' failed for instanceName: %s", c.exchangeName, c.instanceName)
	}
	return nil
}

// symbolExists returns an error if the symbol does not exist
func (c *Ccxt) symbolExists(tradingPair string) error {
	if !strings.Contains(tradingPair, "/") {
		return fmt.Errorf("trading pair '%s' does not contain a '/' delimiter", tradingPair)
	}
	return nil
}

// FetchTicker calls the /fetchTicker endpoint on CCXT, trading pair is specified as a string of the form 'BTC/USDT'
func (c *Ccxt) FetchTicker(tradingPair string) (map[string]interface{}, error) {
	e := c.symbolExists(tradingPair)
	if e != nil {
		return nil, fmt.Errorf("symbol does not exist: %s", e)
	}

	// marshal input data
	data, e := json.Marshal(&[]string{tradingPair})
	if e != nil {
		return nil, fmt.Errorf("error marshaling input (tradingPair=%s) as an array for exchange '%s': %s", tradingPair, c.exchangeName, e)
	}

	// fetch ticker for symbol
	url := ccxtBaseURL + pathExchanges + "/" + c.exchangeName + "/" + c.instanceName + "/fetchTicker"
	var output interface{}
	e = networking.JSONRequest(c.httpClient, "POST", url, string(data), map[string]string{}, &output, "error")
	if e != nil {
		return nil, fmt.Errorf("error fetching tickers for trading pair '%s': %s", tradingPair, e)
	}

	tickerMap, ok := output.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("could not convert result from fetchTicker to a map for trading pair '%s': %v", tradingPair, output)
	}
	return tickerMap, nil
}

// CcxtOrder represents an order in the orderbook
type CcxtOrder struct {
	Price  float64
	Amount float64
}

// FetchOrderBook calls the /fetchOrderBook endpoint on CCXT, trading pair is specified as a string of the form 'BTC/USDT'
func (c *Ccxt) FetchOrderBook(tradingPair string, limit *int) (map[string][]CcxtOrder, error) {
	e := c.symbolExists(tradingPair)
	if e != nil {
		return nil, fmt.Errorf("symbol does not exist: %s", e)
	}

	// marshal input data
	var data []byte
	if limit != nil {
		data, e = json.Marshal(&[]interface{}{tradingPair, *limit})
	} else {
		data, e = json.Marshal(&[]interface{}{tradingPair})
	}
	if e != nil {
		return nil, fmt.Errorf("error marshaling input (tradingPair=%s) as an array for exchange '%s': %s", tradingPair, c.exchangeName, e)
	}

	// fetch orderbook for symbol
	url := ccxtBaseURL + pathExchanges + "/" + c.exchangeName + "/" + c.instanceName + "/fetchOrderBook"
	var output interface{}
	e = networking.JSONRequest(c.httpClient, "POST", url, string(data), map[string]string{}, &output, "error")
	if e != nil {
		return nil, fmt.Errorf("error fetching orderbook for trading pair '%s': %s", tradingPair, e)
	}

	tickerMap, ok := output.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("could not convert orderbook to a map for trading pair '%s': %v", tradingPair, output)
	}

	result := map[string][]CcxtOrder{}
	for k, v := range tickerMap {
		if k != "asks" && k != "bids" {
			continue
		}

		parsedList := []CcxtOrder{}
		// parse the list into the struct
		ordersList, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("could not convert orders for '%s' to an array for trading pair '%s': %v", k, tradingPair, v)
		}
		for _, o := range ordersList {
			order, ok := o.([]interface{})
			if !ok {
				return nil, fmt.Errorf("could not convert single order to an array of numbers for trading pair '%s': %v", tradingPair, o)
			}

			parsedList = append(parsedList, CcxtOrder{
				Price:  order[0].(float64),
				Amount: order[1].(float64),
			})
		}
		result[k] = parsedList
	}
	return result, nil
}

// CcxtTrade represents a trade
type CcxtTrade struct {
	Amount    float64 `json:"amount"`
	Cost      float64 `json:"cost"`
	Datetime  string  `json:"datetime"`
	ID        string  `json:"id"`
	OrderID   string  `json:"order"`
	Price     float64 `json:"price"`
	Side      string  `json:"side"`
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"timestamp"`
}

// FetchMyTrades calls the /fetchMyTrades endpoint on CCXT, trading pair is specified as a string of the form 'BTC/USDT'
func (c *Ccxt) FetchMyTrades(tradingPair string) ([]CcxtTrade, error) {
	e := c.symbolExists(tradingPair)
	if e != nil {
		return nil, fmt.Errorf("symbol does not exist: %s", e)
	}

	// marshal input data
	data, e := json.Marshal(&[]string{tradingPair})
	if e != nil {
		return nil, fmt.Errorf("error marshaling input (tradingPair=%s) as an array for exchange '%s': %s", tradingPair, c.exchangeName, e)
	}

	url := ccxtBaseURL + pathExchanges + "/" + c.exchangeName + "/" + c.instanceName + "/fetchMyTrades"
	var output []CcxtTrade
	e = networking.JSONRequest(c.httpClient, "POST", url, string(data), map[string]string{}, &output, "error")
	if e != nil {
		return nil, fmt.Errorf("error fetching trades for trading pair '%s': %s", tradingPair, e)
	}
	return output, nil
}

// CcxtBalance represents the balance for an asset
type CcxtBalance struct {
	Total float64
	Used  float64
	Free  float64
}

// FetchBalance calls the /fetchBalance endpoint on CCXT
func (c *Ccxt) FetchBalance() (map[string]CcxtBalance, error) {
	url := ccxtBaseURL + pathExchanges + "/" + c.exchangeName + "/" + c.instanceName + "/fetchBalance"
	var output interface{}
	e := networking.JSONRequest(c.httpClient, "POST", url, "", map[string]string{}, &output, "error")
	if e != nil {
		return nil, fmt.Errorf("error fetching balance: %s", e)
	}

	outputMap, ok := output.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("could not convert result from fetchBalance to a map: %v", output)
	}
	if _, ok := outputMap["total"]; !ok {
		return nil, fmt.Errorf("result from fetchBalance did not contain 'total' field")
	}
	totals, ok := outputMap["total"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("could not convert 'total' field from fetchBalance to a map: %v", outputMap["total"])
	}

	result := map[string]CcxtBalance{}
	for asset, v := range totals {
		totalBalance, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("could not convert total balance for asset '%s' to a float: %v", asset, v)
		}
		if totalBalance == 0 {
			continue
		}

		assetData, ok := outputMap[asset]
		if !ok {
			return nil, fmt.Errorf("result from fetchBalance did not contain balance for asset '%s'", asset)
		}

		var assetBalance CcxtBalance
		e = mapstructure.Decode(assetData, &assetBalance)
		if e != nil {
			return nil, fmt.Errorf("could not decode balance for asset '%s': %s", asset, e)
		}
		result[asset] = assetBalance
	}
	return result, nil
}

// CcxtOpenOrder represents an open order
type CcxtOpenOrder struct {
	Amount    float64
	Cost      float64
	Filled    float64
	ID        string
	Price     float64
	Side      string
	Status    string
	Symbol    string
	Type      string
	Timestamp int64
}

// CreateMarketOrder calls the /createOrder endpoint on CCXT with a market order type
func (c *Ccxt) CreateMarketOrder(tradingPair string, side string, amount float64) (*CcxtOpenOrder, error) {
	e := c.symbolExists(tradingPair)
	if e != nil {
		return nil, fmt.Errorf("symbol does not exist: %s", e)
	}

	data, e := json.Marshal(&[]interface{}{tradingPair, "market", side, amount})
	if e != nil {
		return nil, fmt.Errorf("error marshaling input (tradingPair=%s, side=%s, amount=%f) as an array for exchange '%s': %s", tradingPair, side, amount, c.exchangeName, e)
	}

	url := ccxtBaseURL + pathExchanges + "/" + c.exchangeName + "/" + c.instanceName + "/createOrder"
	var output interface{}
	e = networking.JSONRequest(c.httpClient, "POST", url, string(data), map[string]string{}, &output, "error")
	if e != nil {
		return nil, fmt.Errorf("error creating market order (tradingPair=%s, side=%s, amount=%f): %s", tradingPair, side, amount, e)
	}

	var openOrder CcxtOpenOrder
	e = mapstructure.Decode(output, &openOrder)
	if e != nil {
		return nil, fmt.Errorf("could not decode response of createOrder (tradingPair=%s, side=%s, amount=%f): %s", tradingPair, side, amount, e)
	}
	return &openOrder, nil
}
