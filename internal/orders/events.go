package orders

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	EventOrderCommitted = "OrderCommitted"
	EventOrderModified  = "OrderModified"
	EventOrderScheduled = "OrderScheduled"
	EventOrderCompleted = "OrderCompleted"
	EventOrderCancelled = "OrderCancelled"
	EventOrderReturned  = "OrderReturned"
	EventLedgerDiverged = "LedgerDiverged"
)

type Envelope struct {
	EventID       string          `json:"event_id"` // uuid
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "order-ledger"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads per event ----

type TransitionPayload struct {
	OrderID   int64  `json:"order_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
	Revenue   string `json:"revenue,omitempty"`
}

// LedgerDivergedPayload names the pair an operator has to repair: the sales
// ledger already holds the new row/status, the counter write never landed.
type LedgerDivergedPayload struct {
	OrderID   int64  `json:"order_id"`
	ProductID int64  `json:"product_id"`
	Operation string `json:"operation"`
	Detail    string `json:"detail"`
}

// PartitionKey keeps every event for one order in order.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}
