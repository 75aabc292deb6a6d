package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"orderledger/internal/catalog"
	"orderledger/internal/engine"
	kafkax "orderledger/internal/kafka"
	"orderledger/internal/orders"
	"orderledger/internal/redisx"
)

// Lifecycle is the engine surface the handlers call. Everything comes back
// as a structured outcome; the HTTP layer only maps it to a status code and
// fans the event out.
type Lifecycle interface {
	Create(ctx context.Context, productID int64, qty int) engine.Outcome
	Modify(ctx context.Context, orderID int64, qty int) engine.Outcome
	Schedule(ctx context.Context, orderID int64) engine.Outcome
	Complete(ctx context.Context, orderID int64) engine.Outcome
	Cancel(ctx context.Context, orderID int64) engine.Outcome
	Return(ctx context.Context, orderID int64) engine.Outcome
}

type OrderReader interface {
	GetByID(ctx context.Context, id int64) (orders.Order, error)
}

type ProductLister interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

type OrdersHandler struct {
	Engine   Lifecycle
	Orders   OrderReader
	Catalog  ProductLister
	Producer *kafkax.Producer // nil disables event publishing
	Redis    *redis.Client    // nil disables the status cache
	Service  string
}

type CreateOrderReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type ModifyOrderReq struct {
	Quantity int `json:"quantity"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Patch("/orders/{id}", h.modifyOrder)
	r.Post("/orders/{id}/schedule", h.transition(func(ctx context.Context, id int64) engine.Outcome { return h.Engine.Schedule(ctx, id) }))
	r.Post("/orders/{id}/complete", h.transition(func(ctx context.Context, id int64) engine.Outcome { return h.Engine.Complete(ctx, id) }))
	r.Post("/orders/{id}/cancel", h.transition(func(ctx context.Context, id int64) engine.Outcome { return h.Engine.Cancel(ctx, id) }))
	r.Post("/orders/{id}/return", h.transition(func(ctx context.Context, id int64) engine.Outcome { return h.Engine.Return(ctx, id) }))
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/products", h.listProducts)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == 0 || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id and positive quantity required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out := h.Engine.Create(ctx, req.ProductID, req.Quantity)
	h.afterTransition(r, out)

	code := statusCode(out)
	if code == http.StatusOK {
		code = http.StatusCreated
	}
	writeJSON(w, code, out)
}

func (h *OrdersHandler) modifyOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	var req ModifyOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "positive quantity required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out := h.Engine.Modify(ctx, id, req.Quantity)
	h.afterTransition(r, out)
	writeJSON(w, statusCode(out), out)
}

func (h *OrdersHandler) transition(run func(ctx context.Context, id int64) engine.Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out := run(ctx, id)
		h.afterTransition(r, out)
		writeJSON(w, statusCode(out), out)
	}
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// status cache first
	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	body := map[string]any{"order_id": o.ID, "status": o.Status}
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, kafkax.MustMarshal(body), redisx.TTLStatusCache).Err()
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// afterTransition refreshes the status cache and publishes the lifecycle
// event for the outcome. Partial failures go to the reconcile topic instead
// of the usual event stream.
func (h *OrdersHandler) afterTransition(r *http.Request, out engine.Outcome) {
	if out.Data == nil {
		return
	}

	if h.Redis != nil && out.Result == engine.ResultSuccess && out.Data.OrderStatus != "" {
		key := fmt.Sprintf(redisx.KeyOrderStatus, out.Data.OrderID)
		body := kafkax.MustMarshal(map[string]any{"order_id": out.Data.OrderID, "status": out.Data.OrderStatus})
		_ = h.Redis.Set(r.Context(), key, body, redisx.TTLStatusCache).Err()
	}

	if h.Producer == nil {
		return
	}

	switch out.Result {
	case engine.ResultSuccess:
		if out.Data.Note != "" {
			return // idempotent no-op, already announced the first time
		}
		topic, eventType := topicFor(out.Operation)
		if topic == "" {
			return
		}
		h.publish(r, topic, eventType, out.Data.OrderID, orders.TransitionPayload{
			OrderID:   out.Data.OrderID,
			ProductID: out.Data.ProductID,
			Quantity:  out.Data.Quantity,
			Status:    out.Data.OrderStatus,
			Revenue:   out.Data.Revenue,
		})
	case engine.ResultPartial:
		h.publish(r, orders.TopicReconcile, orders.EventLedgerDiverged, out.Data.OrderID, orders.LedgerDivergedPayload{
			OrderID:   out.Data.OrderID,
			ProductID: out.Data.ProductID,
			Operation: out.Operation,
			Detail:    out.Message,
		})
	}
}

func (h *OrdersHandler) publish(r *http.Request, topic, eventType string, orderID int64, payload any) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: strconv.FormatInt(orderID, 10),
		Payload:       kafkax.MustMarshal(payload),
	}
	h.Producer.Publish(topic, orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func topicFor(op string) (topic, eventType string) {
	switch op {
	case "create_order":
		return orders.TopicOrderCommitted, orders.EventOrderCommitted
	case "modify_order":
		return orders.TopicOrderModified, orders.EventOrderModified
	case "schedule_order":
		return orders.TopicOrderScheduled, orders.EventOrderScheduled
	case "complete_order":
		return orders.TopicOrderCompleted, orders.EventOrderCompleted
	case "cancel_order":
		return orders.TopicOrderCancelled, orders.EventOrderCancelled
	case "return_order":
		return orders.TopicOrderReturned, orders.EventOrderReturned
	}
	return "", ""
}

func statusCode(out engine.Outcome) int {
	switch out.Result {
	case engine.ResultSuccess:
		return http.StatusOK
	case engine.ResultPartial:
		return http.StatusInternalServerError
	}
	switch out.Kind {
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindIllegalState, engine.KindInsufficientQuantity:
		return http.StatusConflict
	case engine.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}
