package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/tiagobr21/ecommerce-orcou-back/internal/kafka"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/orders"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/redisx"
)

type placer interface {
	PlaceOrder(ctx context.Context, userID int64, cart orders.Cart) (*orders.Placement, error)
}

type orderQueries interface {
	ListOrders(ctx context.Context) ([]orders.OrderRow, error)
	OrderDetail(ctx context.Context, orderID string) ([]orders.OrderRow, error)
}

type orderGetter interface {
	GetOrder(ctx context.Context, orderID string) (*orders.Order, error)
}

type OrdersHandler struct {
	Placer       placer
	Queries      orderQueries
	Headers      orderGetter
	Redis        *redis.Client
	ProducerOK   *kafkax.Producer // order.committed
	ProducerFail *kafkax.Producer // order.failed
	Service      string
}

type placeOrderReq struct {
	UserID int64       `json:"userId"`
	Cart   orders.Cart `json:"cart"`
}

type placeOrderResp struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
}

func (h *OrdersHandler) Register(r chi.Router, authed func(http.Handler) http.Handler, admin func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.With(authed, admin).Get("/", h.listOrders)
		r.With(authed).Post("/new", h.placeOrder)
		r.Post("/payment", h.payment)
		r.Get("/{id}", h.getOrder)
		r.Get("/{id}/status", h.getOrderStatus)
	})
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, placeOrderResp{Message: "invalid json", Success: false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	placement, err := h.Placer.PlaceOrder(ctx, req.UserID, req.Cart)
	if err != nil {
		h.placementFailed(w, r, req.UserID, err)
		return
	}

	// Cache status for the read side; DB remains the truth.
	if h.Redis != nil {
		statusKey := fmt.Sprintf(redisx.KeyOrderStatus, placement.OrderID)
		_ = h.Redis.Set(ctx, statusKey, `{"status":"COMMITTED"}`, redisx.TTLStatusCache).Err()
	}

	h.publish(h.ProducerOK, orders.EventOrderCommitted, placement.OrderID, r.Header.Get("X-Request-Id"),
		orders.OrderCommittedPayload{
			OrderID:    placement.OrderID,
			UserID:     req.UserID,
			Lines:      placement.Lines,
			TotalCents: placement.TotalCents,
		})

	writeJSON(w, http.StatusCreated, placeOrderResp{
		Message: fmt.Sprintf("order created successfully with id %s", placement.OrderID),
		Success: true,
		OrderID: placement.OrderID,
	})
}

func (h *OrdersHandler) placementFailed(w http.ResponseWriter, r *http.Request, userID int64, err error) {
	var short *orders.StockShortfall
	switch {
	case errors.Is(err, orders.ErrValidation):
		writeJSON(w, http.StatusBadRequest, placeOrderResp{Message: err.Error(), Success: false})
		return
	case errors.Is(err, orders.ErrProductNotFound):
		h.publishFailure(r, userID, "PRODUCT_NOT_FOUND")
		writeJSON(w, http.StatusNotFound, placeOrderResp{Message: err.Error(), Success: false})
		return
	case errors.As(err, &short):
		h.publishFailure(r, userID, "OUT_OF_STOCK")
		writeJSON(w, http.StatusConflict, map[string]any{
			"message": short.Error(),
			"success": false,
			"details": []orders.StockShortfall{*short},
		})
		return
	default:
		h.publishFailure(r, userID, "STORAGE_ERROR")
		writeJSON(w, http.StatusInternalServerError, placeOrderResp{Message: "order placement failed", Success: false})
	}
}

func (h *OrdersHandler) publishFailure(r *http.Request, userID int64, reason string) {
	h.publish(h.ProducerFail, orders.EventOrderFailed, "", r.Header.Get("X-Request-Id"),
		orders.OrderFailedPayload{UserID: userID, Reason: reason})
}

func (h *OrdersHandler) publish(p *kafkax.Producer, eventType, orderID, traceID string, payload any) {
	if p == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rows, err := h.Queries.ListOrders(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(rows) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no orders found"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rows, err := h.Queries.OrderDetail(ctx, orderID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(rows) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	o, err := h.Headers.GetOrder(ctx, orderID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	b, _ := json.Marshal(map[string]any{"status": o.Status})
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// payment is the legacy gateway stub: a fixed delay then success, no state
// change.
func (h *OrdersHandler) payment(w http.ResponseWriter, r *http.Request) {
	select {
	case <-time.After(3 * time.Second):
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case <-r.Context().Done():
	}
}
