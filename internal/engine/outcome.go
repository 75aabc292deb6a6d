package engine

import "orderledger/internal/inventory"

// Result is the top-level verdict of one lifecycle operation.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"

	// ResultPartial means the sales ledger write committed but the inventory
	// write did not. The two ledgers disagree until someone repairs them, so
	// this is kept apart from ordinary failures.
	ResultPartial Result = "partial"
)

// Kind classifies failures so callers can branch on outcome instead of
// parsing message strings.
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindIllegalState         Kind = "illegal_state"
	KindInsufficientQuantity Kind = "insufficient_quantity"
	KindPartialFailure       Kind = "partial_failure"
	KindStoreUnavailable     Kind = "store_unavailable"
)

type Outcome struct {
	Operation string `json:"operation"`
	Result    Result `json:"status"`
	Kind      Kind   `json:"error_kind,omitempty"`
	Data      *Data  `json:"data,omitempty"`
	Message   string `json:"message"`
}

type Data struct {
	OrderID     int64               `json:"order_id,omitempty"`
	ProductID   int64               `json:"product_id,omitempty"`
	Quantity    int                 `json:"quantity,omitempty"`
	Revenue     string              `json:"revenue,omitempty"`
	OrderStatus string              `json:"order_status,omitempty"`
	Note        string              `json:"note,omitempty"` // e.g. already_complete
	Inventory   *inventory.Counters `json:"inventory,omitempty"`
}

func success(op string, d *Data, msg string) Outcome {
	return Outcome{Operation: op, Result: ResultSuccess, Data: d, Message: msg}
}

func failure(op string, kind Kind, msg string) Outcome {
	return Outcome{Operation: op, Result: ResultFailure, Kind: kind, Message: msg}
}

func partial(op string, orderID, productID int64, msg string) Outcome {
	return Outcome{
		Operation: op,
		Result:    ResultPartial,
		Kind:      KindPartialFailure,
		Data:      &Data{OrderID: orderID, ProductID: productID},
		Message:   msg,
	}
}
