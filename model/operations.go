package model

import "fmt"

// FillOperation is an immutable record of a trade that was matched against an
// order on the home market, sourced from the chain's historical-operations feed.
// OperationID is the chain-level (virtual) operation id and is unique per match
type FillOperation struct {
	OperationID string
	OrderID     string
	OrderAction OrderAction
	Amount      *Number
	AssetID     string
}

// String is the stringer function
func (f FillOperation) String() string {
	return fmt.Sprintf("FillOperation[opID=%s, orderID=%s, action=%s, amount=%s, assetID=%s]",
		f.OperationID,
		f.OrderID,
		f.OrderAction,
		f.Amount.AsString(),
		f.AssetID,
	)
}
