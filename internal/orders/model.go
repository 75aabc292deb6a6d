package orders

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

// Order is one row in the sales ledger. The ledger assigns the ID on insert
// and it never changes; neither does ProductID or SaleDate. Quantity and
// Revenue change together through the modify transition only.
type Order struct {
	ID        int64
	ProductID int64
	Quantity  int
	Revenue   decimal.Decimal
	Status    Status
	SaleDate  time.Time
}

// RevenueFor computes revenue at write time: price times quantity, rounded
// to cents. Historical rows are never re-priced.
func RevenueFor(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
