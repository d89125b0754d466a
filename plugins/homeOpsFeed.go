package plugins

import (
	"fmt"
	"net/http"

	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/support/networking"
)

const fillOperationsPrecision = 8

// homeOpsFeed reads fill operations from the home chain's history API
type homeOpsFeed struct {
	baseURL    string
	httpClient *http.Client
}

// ensure homeOpsFeed implements OperationsFeed
var _ api.OperationsFeed = &homeOpsFeed{}

// MakeHomeOpsFeed is a factory method for an OperationsFeed backed by the home
// chain's history endpoint. baseURL should not have a trailing '/'
func MakeHomeOpsFeed(baseURL string) api.OperationsFeed {
	return &homeOpsFeed{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

type fillOpResponse struct {
	OperationID string  `json:"operation_id"`
	OrderID     string  `json:"order_id"`
	Side        string  `json:"side"`
	Amount      float64 `json:"amount"`
	AssetID     string  `json:"asset_id"`
}

// GetFillOperations impl.
func (f *homeOpsFeed) GetFillOperations(accountID string) ([]model.FillOperation, error) {
	url := fmt.Sprintf("%s/accounts/%s/operations?type=fill_order", f.baseURL, accountID)
	var response []fillOpResponse
	e := networking.JSONRequest(f.httpClient, "GET", url, "", map[string]string{}, &response, "error")
	if e != nil {
		return nil, fmt.Errorf("error fetching fill operations for account '%s': %s", accountID, e)
	}

	ops := []model.FillOperation{}
	for _, r := range response {
		ops = append(ops, model.FillOperation{
			OperationID: r.OperationID,
			OrderID:     r.OrderID,
			OrderAction: model.OrderActionFromString(r.Side),
			Amount:      model.NumberFromFloat(r.Amount, fillOperationsPrecision),
			AssetID:     r.AssetID,
		})
	}
	return ops, nil
}
