package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderledger/internal/inventory"
	kafkax "orderledger/internal/kafka"
	"orderledger/internal/orders"
	"orderledger/internal/reconcile"
	"orderledger/internal/storetest"
)

type memTaskStore struct{ saved []reconcile.Task }

func (s *memTaskStore) Save(ctx context.Context, t reconcile.Task) error {
	s.saved = append(s.saved, t)
	return nil
}

func divergedMessage(t *testing.T, payload orders.LedgerDivergedPayload) kafkago.Message {
	t.Helper()
	env := orders.Envelope{
		EventID:      uuid.NewString(),
		EventType:    orders.EventLedgerDiverged,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleLedgerDiverged(t *testing.T) {
	ctx := context.Background()

	orderStore := storetest.NewOrderStore()
	invStore := storetest.NewInventoryStore()
	invStore.Seed(101, inventory.Counters{Total: 10, Committed: 3}.Normalized())

	id, err := orderStore.Insert(ctx, orders.Order{ProductID: 101, Quantity: 3, Status: orders.StatusCommitted})
	require.NoError(t, err)

	tasks := &memTaskStore{}
	svc := &reconcile.Service{
		Orders:      orderStore,
		Inventory:   invStore,
		Tasks:       tasks,
		ServiceName: "test-reconciler",
	}

	msg := divergedMessage(t, orders.LedgerDivergedPayload{
		OrderID:   id,
		ProductID: 101,
		Operation: "create_order",
		Detail:    "inventory write failed",
	})
	require.NoError(t, svc.HandleLedgerDiverged(ctx, msg))

	require.Len(t, tasks.saved, 1)
	task := tasks.saved[0]
	assert.Equal(t, id, task.OrderID)
	assert.Equal(t, int64(101), task.ProductID)
	assert.Equal(t, "create_order", task.Operation)
	assert.Equal(t, "Committed", task.OrderStatus)
	assert.Equal(t, 3, task.Counters.Committed)
}

func TestHandleLedgerDivergedIgnoresOtherEvents(t *testing.T) {
	tasks := &memTaskStore{}
	svc := &reconcile.Service{
		Orders:    storetest.NewOrderStore(),
		Inventory: storetest.NewInventoryStore(),
		Tasks:     tasks,
	}

	env := orders.Envelope{
		EventID:   uuid.NewString(),
		EventType: orders.EventOrderCommitted,
		Payload:   kafkax.MustMarshal(orders.TransitionPayload{OrderID: 1}),
	}
	msg := kafkago.Message{Value: kafkax.MustMarshal(env)}

	require.NoError(t, svc.HandleLedgerDiverged(context.Background(), msg))
	assert.Empty(t, tasks.saved)
}

func TestHandleLedgerDivergedMissingSnapshots(t *testing.T) {
	// both lookups fail; the task is still queued with the payload facts
	tasks := &memTaskStore{}
	svc := &reconcile.Service{
		Orders:    storetest.NewOrderStore(),
		Inventory: storetest.NewInventoryStore(),
		Tasks:     tasks,
	}

	msg := divergedMessage(t, orders.LedgerDivergedPayload{
		OrderID: 7, ProductID: 9, Operation: "cancel_order", Detail: "inventory write failed",
	})
	require.NoError(t, svc.HandleLedgerDiverged(context.Background(), msg))

	require.Len(t, tasks.saved, 1)
	assert.Equal(t, int64(7), tasks.saved[0].OrderID)
	assert.Empty(t, tasks.saved[0].OrderStatus)
}
