package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store is the pgx-backed sales ledger. One row per sale; append-mostly.
type Store struct{ DB *pgxpool.Pool }

func (s *Store) Insert(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
		INSERT INTO sales (product_id, quantity, sale_date, revenue, order_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING sale_id`,
		o.ProductID, o.Quantity, o.SaleDate.Format("2006-01-02"), o.Revenue.String(), string(o.Status),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (Order, error) {
	var (
		o       Order
		date    string
		revenue string
		status  string
	)
	err := s.DB.QueryRow(ctx, `
		SELECT sale_id, product_id, quantity, sale_date::text, revenue::text, order_status
		FROM sales WHERE sale_id = $1`, id,
	).Scan(&o.ID, &o.ProductID, &o.Quantity, &date, &revenue, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	if o.Revenue, err = decimal.NewFromString(revenue); err != nil {
		return Order{}, err
	}
	if o.SaleDate, err = time.Parse("2006-01-02", date); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, st Status) error {
	ct, err := s.DB.Exec(ctx, `UPDATE sales SET order_status = $2 WHERE sale_id = $1`, id, string(st))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateQuantityRevenue(ctx context.Context, id int64, qty int, revenue decimal.Decimal) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE sales SET quantity = $2, revenue = $3 WHERE sale_id = $1`,
		id, qty, revenue.String())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
