package plugins

import (
	"encoding/json"
	"fmt"

	"github.com/quantadex/crossmarket/model"
)

// current version of the serialized fill state payload
const fillStateVersion = 1

// FillRecord is a single home-market fill matched against an order.
type FillRecord struct {
	Amount  float64 `json:"amount"`
	AssetID string  `json:"asset_id"`
}

// CounterOrderRecord tracks an offsetting order placed on the external market.
type CounterOrderRecord struct {
	Amount     float64 `json:"amount"`
	LimitPrice float64 `json:"limit_price"`
	Filled     float64 `json:"filled"`
}

// OrderFillState is the per-order record of which external fill operations have
// already been mirrored, attached to each home order as a serialized payload.
type OrderFillState struct {
	Version       int                           `json:"version"`
	FillOrders    map[string]FillRecord         `json:"fill_orders"`
	CounterOrders map[string]CounterOrderRecord `json:"counter_orders"`
}

// MakeOrderFillState creates an empty OrderFillState
func MakeOrderFillState() *OrderFillState {
	return &OrderFillState{
		Version:       fillStateVersion,
		FillOrders:    map[string]FillRecord{},
		CounterOrders: map[string]CounterOrderRecord{},
	}
}

// ParseOrderFillState decodes a stored payload. A corrupt, legacy, or empty payload
// yields the empty state rather than an error so an order is never unloadable
// because of bad history.
func ParseOrderFillState(payload string) *OrderFillState {
	state := MakeOrderFillState()
	if payload == "" {
		return state
	}

	e := json.Unmarshal([]byte(payload), state)
	if e != nil || state.FillOrders == nil || state.CounterOrders == nil {
		return MakeOrderFillState()
	}
	state.Version = fillStateVersion
	return state
}

// Encode serializes the state for storage on the order's payload
func (s *OrderFillState) Encode() (string, error) {
	b, e := json.Marshal(s)
	if e != nil {
		return "", fmt.Errorf("unable to encode order fill state: %s", e)
	}
	return string(b), nil
}

// MergeFills records the fill operations that have not been seen before and returns
// them. Re-merging an already-seen operation id is a no-op.
func (s *OrderFillState) MergeFills(ops []model.FillOperation) []model.FillOperation {
	changed := []model.FillOperation{}
	for _, op := range ops {
		if _, seen := s.FillOrders[op.OperationID]; seen {
			continue
		}
		s.FillOrders[op.OperationID] = FillRecord{
			Amount:  op.Amount.AsFloat(),
			AssetID: op.AssetID,
		}
		changed = append(changed, op)
	}
	return changed
}

// RecordCounterOrder tracks a newly placed external counter-order
func (s *OrderFillState) RecordCounterOrder(counterOrderID string, amount float64, limitPrice float64) {
	s.CounterOrders[counterOrderID] = CounterOrderRecord{
		Amount:     amount,
		LimitPrice: limitPrice,
		Filled:     0,
	}
}

// ApplyCounterFill marks filled quantity on a pending counter-order, returning false
// when the id is not tracked by this state.
func (s *OrderFillState) ApplyCounterFill(counterOrderID string, filledAmount float64) bool {
	record, ok := s.CounterOrders[counterOrderID]
	if !ok {
		return false
	}
	record.Filled += filledAmount
	s.CounterOrders[counterOrderID] = record
	return true
}

// PendingCounterOrders returns the ids of counter-orders that are not yet fully filled
func (s *OrderFillState) PendingCounterOrders() []string {
	pending := []string{}
	for id, record := range s.CounterOrders {
		if record.Filled < record.Amount {
			pending = append(pending, id)
		}
	}
	return pending
}
