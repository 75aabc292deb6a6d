package reconcile

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGTaskStore appends repair tasks to the sales-ledger database. The table
// is append-only from this side; operators close tasks out of band.
type PGTaskStore struct{ DB *pgxpool.Pool }

func (s *PGTaskStore) Save(ctx context.Context, t Task) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO reconcile_tasks
			(order_id, product_id, operation, detail, order_status,
			 total_qty, committed_qty, scheduled_qty, available_qty, backorder_qty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.OrderID, t.ProductID, t.Operation, t.Detail, t.OrderStatus,
		t.Counters.Total, t.Counters.Committed, t.Counters.Scheduled,
		t.Counters.Available, t.Counters.Backorder,
	)
	return err
}
