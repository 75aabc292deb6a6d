// Package storetest provides in-memory stand-ins for the three stores the
// lifecycle engine depends on. They honor the same contracts as the pgx
// implementations, including per-product serialization in Mutate.
package storetest

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"orderledger/internal/catalog"
	"orderledger/internal/inventory"
	"orderledger/internal/orders"
)

// OrderStore keeps the sales ledger in a map. Err* fields force the next
// matching write to fail, for exercising partial-failure paths.
type OrderStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]orders.Order

	ErrInsert error
	ErrUpdate error
}

func NewOrderStore() *OrderStore {
	return &OrderStore{rows: make(map[int64]orders.Order)}
}

func (s *OrderStore) Insert(ctx context.Context, o orders.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ErrInsert != nil {
		return 0, s.ErrInsert
	}
	s.nextID++
	o.ID = s.nextID
	s.rows[o.ID] = o
	return o.ID, nil
}

func (s *OrderStore) GetByID(ctx context.Context, id int64) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.rows[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, st orders.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ErrUpdate != nil {
		return s.ErrUpdate
	}
	o, ok := s.rows[id]
	if !ok {
		return orders.ErrNotFound
	}
	o.Status = st
	s.rows[id] = o
	return nil
}

func (s *OrderStore) UpdateQuantityRevenue(ctx context.Context, id int64, qty int, revenue decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ErrUpdate != nil {
		return s.ErrUpdate
	}
	o, ok := s.rows[id]
	if !ok {
		return orders.ErrNotFound
	}
	o.Quantity = qty
	o.Revenue = revenue
	s.rows[id] = o
	return nil
}

// InventoryStore keeps one counter row per product. A single mutex stands in
// for the row locks of the pgx store.
type InventoryStore struct {
	mu   sync.Mutex
	rows map[int64]inventory.Counters

	ErrMutate error
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{rows: make(map[int64]inventory.Counters)}
}

func (s *InventoryStore) Seed(productID int64, c inventory.Counters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[productID] = c
}

func (s *InventoryStore) Get(ctx context.Context, productID int64) (inventory.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[productID]
	if !ok {
		return inventory.Counters{}, inventory.ErrNotFound
	}
	return c, nil
}

func (s *InventoryStore) Mutate(ctx context.Context, productID int64, fn func(inventory.Counters) inventory.Counters) (inventory.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ErrMutate != nil {
		return inventory.Counters{}, s.ErrMutate
	}
	c, ok := s.rows[productID]
	if !ok {
		return inventory.Counters{}, inventory.ErrNotFound
	}
	c = fn(c)
	s.rows[productID] = c
	return c, nil
}

// Catalog maps product ids to prices.
type Catalog struct {
	Prices map[int64]decimal.Decimal
	Err    error
}

func (c *Catalog) Price(ctx context.Context, productID int64) (decimal.Decimal, error) {
	if c.Err != nil {
		return decimal.Decimal{}, c.Err
	}
	p, ok := c.Prices[productID]
	if !ok {
		return decimal.Decimal{}, catalog.ErrNotFound
	}
	return p, nil
}

var ErrStoreDown = errors.New("store down")
