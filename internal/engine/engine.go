package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"orderledger/internal/catalog"
	"orderledger/internal/inventory"
	"orderledger/internal/orders"
)

// OrderStore is the sales ledger as the engine sees it.
type OrderStore interface {
	Insert(ctx context.Context, o orders.Order) (int64, error)
	GetByID(ctx context.Context, id int64) (orders.Order, error)
	UpdateStatus(ctx context.Context, id int64, st orders.Status) error
	UpdateQuantityRevenue(ctx context.Context, id int64, qty int, revenue decimal.Decimal) error
}

// InventoryStore is the counter ledger. Mutate must serialize callers per
// product; the pgx store does it with a row lock, test fakes with a mutex.
type InventoryStore interface {
	Get(ctx context.Context, productID int64) (inventory.Counters, error)
	Mutate(ctx context.Context, productID int64, fn func(inventory.Counters) inventory.Counters) (inventory.Counters, error)
}

// PriceReader is the read-only product catalog.
type PriceReader interface {
	Price(ctx context.Context, productID int64) (decimal.Decimal, error)
}

// Engine drives every order lifecycle transition. It is the only writer of
// order statuses and inventory counters. All six operations return a
// structured Outcome and never an error; store faults become outcome kinds.
type Engine struct {
	orders OrderStore
	inv    InventoryStore
	prices PriceReader
}

func New(orderStore OrderStore, inventoryStore InventoryStore, prices PriceReader) *Engine {
	return &Engine{orders: orderStore, inv: inventoryStore, prices: prices}
}

// Create writes the sale and commits the ordered quantity against inventory.
// The row is inserted as Committed in a single statement; an Open row is
// never observable, and a one-write ledger phase means a ledger fault leaves
// no stranded row behind.
func (e *Engine) Create(ctx context.Context, productID int64, qty int) Outcome {
	const op = "create_order"

	if qty <= 0 {
		return failure(op, KindIllegalState, fmt.Sprintf("quantity must be positive, got %d", qty))
	}

	price, err := e.prices.Price(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return failure(op, KindNotFound, fmt.Sprintf("product %d not found", productID))
		}
		log.Printf("%s: price lookup failed: %v", op, err)
		return failure(op, KindStoreUnavailable, fmt.Sprintf("product catalog is unavailable for product %d", productID))
	}

	// Inventory row must exist before anything is written anywhere.
	if out := e.requireCounters(ctx, op, productID); out != nil {
		return *out
	}

	revenue := orders.RevenueFor(price, qty)
	order := orders.Order{
		ProductID: productID,
		Quantity:  qty,
		Revenue:   revenue,
		Status:    orders.StatusCommitted,
		SaleDate:  time.Now(),
	}

	orderID, counters, fail := e.apply(ctx, op, productID,
		func(ctx context.Context) (int64, error) {
			return e.orders.Insert(ctx, order)
		},
		func(c inventory.Counters) inventory.Counters {
			c.Committed += qty
			return c.Normalized()
		},
	)
	if fail != nil {
		return *fail
	}

	return success(op, &Data{
		OrderID:     orderID,
		ProductID:   productID,
		Quantity:    qty,
		Revenue:     revenue.StringFixed(2),
		OrderStatus: string(orders.StatusCommitted),
		Inventory:   &counters,
	}, fmt.Sprintf("order %d created for product %d, quantity %d, revenue %s", orderID, productID, qty, revenue.StringFixed(2)))
}

// Modify changes the quantity of an Open or Committed order, reprices the
// row at the current catalog price and re-commits the quantity delta.
func (e *Engine) Modify(ctx context.Context, orderID int64, newQty int) Outcome {
	const op = "modify_order"

	if newQty <= 0 {
		return failure(op, KindIllegalState, fmt.Sprintf("quantity must be positive, got %d", newQty))
	}

	order, out := e.getOrder(ctx, op, orderID)
	if out != nil {
		return *out
	}
	if !order.Status.Modifiable() {
		return failure(op, KindIllegalState,
			fmt.Sprintf("only Open or Committed orders can be modified; order %d is %s", orderID, order.Status))
	}

	price, err := e.prices.Price(ctx, order.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return failure(op, KindNotFound, fmt.Sprintf("price for product %d not found", order.ProductID))
		}
		log.Printf("%s: price lookup failed: %v", op, err)
		return failure(op, KindStoreUnavailable, fmt.Sprintf("product catalog is unavailable for product %d", order.ProductID))
	}

	if out := e.requireCounters(ctx, op, order.ProductID); out != nil {
		return *out
	}

	revenue := orders.RevenueFor(price, newQty)
	delta := newQty - order.Quantity

	_, counters, fail := e.apply(ctx, op, order.ProductID,
		func(ctx context.Context) (int64, error) {
			return orderID, e.orders.UpdateQuantityRevenue(ctx, orderID, newQty, revenue)
		},
		func(c inventory.Counters) inventory.Counters {
			c.Committed += delta
			return c.Normalized()
		},
	)
	if fail != nil {
		return *fail
	}

	return success(op, &Data{
		OrderID:     orderID,
		ProductID:   order.ProductID,
		Quantity:    newQty,
		Revenue:     revenue.StringFixed(2),
		OrderStatus: string(order.Status),
		Inventory:   &counters,
	}, fmt.Sprintf("order %d updated to quantity %d, revenue %s", orderID, newQty, revenue.StringFixed(2)))
}

// Schedule releases a committed order for fulfillment. The demand must fit
// inside the committed-but-unscheduled quantity, otherwise nothing is
// written.
func (e *Engine) Schedule(ctx context.Context, orderID int64) Outcome {
	const op = "schedule_order"

	order, out := e.getOrder(ctx, op, orderID)
	if out != nil {
		return *out
	}
	if !orders.CanTransition(order.Status, orders.StatusScheduled) {
		return failure(op, KindIllegalState,
			fmt.Sprintf("order %d is %s and cannot be scheduled", orderID, order.Status))
	}

	counters, err := e.inv.Get(ctx, order.ProductID)
	if err != nil {
		return e.countersFailure(op, order.ProductID, err)
	}
	if counters.Schedulable() < order.Quantity {
		return failure(op, KindInsufficientQuantity,
			fmt.Sprintf("insufficient committed quantity to schedule order %d: need %d, only %d schedulable",
				orderID, order.Quantity, counters.Schedulable()))
	}

	qty := order.Quantity
	_, counters, fail := e.apply(ctx, op, order.ProductID,
		func(ctx context.Context) (int64, error) {
			return orderID, e.orders.UpdateStatus(ctx, orderID, orders.StatusScheduled)
		},
		func(c inventory.Counters) inventory.Counters {
			c.Scheduled += qty
			return c.Normalized()
		},
	)
	if fail != nil {
		return *fail
	}

	return success(op, &Data{
		OrderID:     orderID,
		ProductID:   order.ProductID,
		Quantity:    qty,
		OrderStatus: string(orders.StatusScheduled),
		Inventory:   &counters,
	}, fmt.Sprintf("order %d scheduled, %d remaining schedulable for product %d", orderID, counters.Schedulable(), order.ProductID))
}

// Complete ships the order: physical stock and the committed/scheduled
// promises all shrink by the ordered quantity. Completing an already
// completed order is a no-op reported as success.
func (e *Engine) Complete(ctx context.Context, orderID int64) Outcome {
	const op = "complete_order"

	order, out := e.getOrder(ctx, op, orderID)
	if out != nil {
		return *out
	}
	if order.Status == orders.StatusComplete {
		return success(op, &Data{
			OrderID:     orderID,
			ProductID:   order.ProductID,
			OrderStatus: string(orders.StatusComplete),
			Note:        "already_complete",
		}, fmt.Sprintf("order %d is already complete", orderID))
	}
	if !orders.CanTransition(order.Status, orders.StatusComplete) {
		return failure(op, KindIllegalState,
			fmt.Sprintf("order %d is %s and cannot be completed", orderID, order.Status))
	}

	if out := e.requireCounters(ctx, op, order.ProductID); out != nil {
		return *out
	}

	qty := order.Quantity
	_, counters, fail := e.apply(ctx, op, order.ProductID,
		func(ctx context.Context) (int64, error) {
			return orderID, e.orders.UpdateStatus(ctx, orderID, orders.StatusComplete)
		},
		func(c inventory.Counters) inventory.Counters {
			c.Total -= qty
			c.Committed -= qty
			c.Scheduled -= qty
			return c.Normalized()
		},
	)
	if fail != nil {
		return *fail
	}

	return success(op, &Data{
		OrderID:     orderID,
		ProductID:   order.ProductID,
		Quantity:    qty,
		OrderStatus: string(orders.StatusComplete),
		Inventory:   &counters,
	}, fmt.Sprintf("order %d marked complete, product %d total now %d", orderID, order.ProductID, counters.Total))
}

// Cancel releases an order's claim on inventory. Cancelling an already
// cancelled order is a no-op reported as success; a completed or returned
// order cannot be cancelled.
func (e *Engine) Cancel(ctx context.Context, orderID int64) Outcome {
	const op = "cancel_order"

	order, out := e.getOrder(ctx, op, orderID)
	if out != nil {
		return *out
	}
	if order.Status == orders.StatusCancelled {
		return success(op, &Data{
			OrderID:     orderID,
			ProductID:   order.ProductID,
			OrderStatus: string(orders.StatusCancelled),
			Note:        "already_cancelled",
		}, fmt.Sprintf("order %d is already cancelled", orderID))
	}
	if !orders.CanTransition(order.Status, orders.StatusCancelled) {
		return failure(op, KindIllegalState,
			fmt.Sprintf("order %d is %s and cannot be cancelled", orderID, order.Status))
	}

	if out := e.requireCounters(ctx, op, order.ProductID); out != nil {
		return *out
	}

	qty := order.Quantity
	_, counters, fail := e.apply(ctx, op, order.ProductID,
		func(ctx context.Context) (int64, error) {
			return orderID, e.orders.UpdateStatus(ctx, orderID, orders.StatusCancelled)
		},
		func(c inventory.Counters) inventory.Counters {
			c.Committed -= qty
			c.Scheduled -= qty
			return c.Normalized()
		},
	)
	if fail != nil {
		return *fail
	}

	return success(op, &Data{
		OrderID:     orderID,
		ProductID:   order.ProductID,
		Quantity:    qty,
		OrderStatus: string(orders.StatusCancelled),
		Inventory:   &counters,
	}, fmt.Sprintf("order %d cancelled, %d units released for product %d", orderID, qty, order.ProductID))
}

// Return puts a completed order's stock back on the shelf.
func (e *Engine) Return(ctx context.Context, orderID int64) Outcome {
	const op = "return_order"

	order, out := e.getOrder(ctx, op, orderID)
	if out != nil {
		return *out
	}
	if !orders.CanTransition(order.Status, orders.StatusReturned) {
		return failure(op, KindIllegalState,
			fmt.Sprintf("only completed orders can be returned; order %d is %s", orderID, order.Status))
	}

	if out := e.requireCounters(ctx, op, order.ProductID); out != nil {
		return *out
	}

	qty := order.Quantity
	_, counters, fail := e.apply(ctx, op, order.ProductID,
		func(ctx context.Context) (int64, error) {
			return orderID, e.orders.UpdateStatus(ctx, orderID, orders.StatusReturned)
		},
		func(c inventory.Counters) inventory.Counters {
			c.Total += qty
			return c.Normalized()
		},
	)
	if fail != nil {
		return *fail
	}

	return success(op, &Data{
		OrderID:     orderID,
		ProductID:   order.ProductID,
		Quantity:    qty,
		OrderStatus: string(orders.StatusReturned),
		Inventory:   &counters,
	}, fmt.Sprintf("order %d returned, %d units back in stock for product %d", orderID, qty, order.ProductID))
}

// ---- shared lookups ----

func (e *Engine) getOrder(ctx context.Context, op string, orderID int64) (orders.Order, *Outcome) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			out := failure(op, KindNotFound, fmt.Sprintf("order %d not found", orderID))
			return orders.Order{}, &out
		}
		log.Printf("%s: order lookup failed: %v", op, err)
		out := failure(op, KindStoreUnavailable, fmt.Sprintf("sales ledger is unavailable for order %d", orderID))
		return orders.Order{}, &out
	}
	return order, nil
}

// requireCounters checks that the inventory row exists before the first
// write. Every transition touches counters in its second phase, so a missing
// row has to fail the operation while there are still no side effects.
func (e *Engine) requireCounters(ctx context.Context, op string, productID int64) *Outcome {
	if _, err := e.inv.Get(ctx, productID); err != nil {
		out := e.countersFailure(op, productID, err)
		return &out
	}
	return nil
}

func (e *Engine) countersFailure(op string, productID int64, err error) Outcome {
	if errors.Is(err, inventory.ErrNotFound) {
		return failure(op, KindNotFound, fmt.Sprintf("inventory for product %d not found", productID))
	}
	log.Printf("%s: inventory lookup failed: %v", op, err)
	return failure(op, KindStoreUnavailable, fmt.Sprintf("inventory ledger is unavailable for product %d", productID))
}
