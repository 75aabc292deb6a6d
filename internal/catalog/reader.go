package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"orderledger/internal/redisx"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID       int64           `json:"product_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Status   string          `json:"status"`
	Price    decimal.Decimal `json:"price"`
}

// Reader serves product reference data. The lifecycle engine only ever reads
// prices; it never writes catalog rows. Redis is optional and only shortcuts
// the price lookup.
type Reader struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func (r *Reader) Price(ctx context.Context, productID int64) (decimal.Decimal, error) {
	key := fmt.Sprintf(redisx.KeyPrice, productID)
	if r.Redis != nil {
		if s, err := r.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			if d, err := decimal.NewFromString(s); err == nil {
				return d, nil
			}
		}
	}

	var s string
	err := r.DB.QueryRow(ctx, `SELECT price::text FROM product WHERE product_id = $1`, productID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Decimal{}, ErrNotFound
	}
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if r.Redis != nil {
		_ = r.Redis.Set(ctx, key, d.String(), redisx.TTLPriceCache).Err()
	}
	return d, nil
}

func (r *Reader) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, name, category, status, price::text
		FROM product ORDER BY product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var (
			p     Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Status, &price); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
