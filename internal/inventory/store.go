package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the pgx-backed inventory ledger: one counter row per product.
type Store struct{ DB *pgxpool.Pool }

func (s *Store) Get(ctx context.Context, productID int64) (Counters, error) {
	var c Counters
	err := s.DB.QueryRow(ctx, `
		SELECT total_qty, committed_qty, scheduled_qty, available_qty, backorder_qty
		FROM inventory WHERE product_id = $1`, productID,
	).Scan(&c.Total, &c.Committed, &c.Scheduled, &c.Available, &c.Backorder)
	if errors.Is(err, pgx.ErrNoRows) {
		return Counters{}, ErrNotFound
	}
	if err != nil {
		return Counters{}, err
	}
	return c, nil
}

// Mutate runs fn on the current counters and writes the result back, all
// under a row lock. Concurrent transitions on the same product serialize
// here; different products proceed in parallel.
func (s *Store) Mutate(ctx context.Context, productID int64, fn func(Counters) Counters) (Counters, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Counters{}, err
	}
	defer tx.Rollback(ctx)

	var c Counters
	err = tx.QueryRow(ctx, `
		SELECT total_qty, committed_qty, scheduled_qty, available_qty, backorder_qty
		FROM inventory WHERE product_id = $1 FOR UPDATE`, productID,
	).Scan(&c.Total, &c.Committed, &c.Scheduled, &c.Available, &c.Backorder)
	if errors.Is(err, pgx.ErrNoRows) {
		return Counters{}, ErrNotFound
	}
	if err != nil {
		return Counters{}, err
	}

	c = fn(c)
	if _, err := tx.Exec(ctx, `
		UPDATE inventory
		SET total_qty = $2, committed_qty = $3, scheduled_qty = $4,
		    available_qty = $5, backorder_qty = $6
		WHERE product_id = $1`,
		productID, c.Total, c.Committed, c.Scheduled, c.Available, c.Backorder,
	); err != nil {
		return Counters{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Counters{}, err
	}
	return c, nil
}
