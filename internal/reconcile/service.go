// Package reconcile is the intake for partial failures: transitions whose
// sales-ledger write committed while the inventory write did not. The engine
// cannot repair those on its own (replaying create or modify would
// double-apply), so each one is snapshotted and queued for an operator.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"orderledger/internal/inventory"
	kafkax "orderledger/internal/kafka"
	"orderledger/internal/orders"
	"orderledger/internal/redisx"
)

type OrderReader interface {
	GetByID(ctx context.Context, id int64) (orders.Order, error)
}

type CounterReader interface {
	Get(ctx context.Context, productID int64) (inventory.Counters, error)
}

// Task is one divergent order/product pair waiting for repair, with both
// ledgers as they looked when the event was processed.
type Task struct {
	OrderID     int64
	ProductID   int64
	Operation   string
	Detail      string
	OrderStatus string
	Counters    inventory.Counters
}

type TaskStore interface {
	Save(ctx context.Context, t Task) error
}

type Service struct {
	Orders      OrderReader
	Inventory   CounterReader
	Tasks       TaskStore
	Redis       *redis.Client // nil disables event dedup
	ServiceName string
}

// HandleLedgerDiverged is wired as the consumer handler for the reconcile
// topic.
func (s *Service) HandleLedgerDiverged(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventLedgerDiverged {
		return nil // ignore
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[orders.LedgerDivergedPayload](env.Payload)
	if err != nil {
		return err
	}

	task := Task{
		OrderID:   p.OrderID,
		ProductID: p.ProductID,
		Operation: p.Operation,
		Detail:    p.Detail,
	}

	// Snapshot both sides so the operator sees the divergence without
	// querying anything. Lookups here are best effort; the task is saved
	// regardless.
	if o, err := s.Orders.GetByID(ctx, p.OrderID); err == nil {
		task.OrderStatus = string(o.Status)
	} else {
		log.Printf("reconcile: order %d snapshot failed: %v", p.OrderID, err)
	}
	if c, err := s.Inventory.Get(ctx, p.ProductID); err == nil {
		task.Counters = c
	} else {
		log.Printf("reconcile: counters for product %d snapshot failed: %v", p.ProductID, err)
	}

	if err := s.Tasks.Save(ctx, task); err != nil {
		return err
	}
	log.Printf("reconcile: queued order=%d product=%d op=%s status=%s", task.OrderID, task.ProductID, task.Operation, task.OrderStatus)
	return nil
}
