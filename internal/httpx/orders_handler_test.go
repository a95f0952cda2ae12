package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/orders"
)

type fakePlacer struct {
	placement *orders.Placement
	err       error

	gotUserID int64
	gotCart   orders.Cart
}

func (f *fakePlacer) PlaceOrder(_ context.Context, userID int64, cart orders.Cart) (*orders.Placement, error) {
	f.gotUserID = userID
	f.gotCart = cart
	return f.placement, f.err
}

type fakeQueries struct {
	rows []orders.OrderRow
	err  error
}

func (f *fakeQueries) ListOrders(context.Context) ([]orders.OrderRow, error) {
	return f.rows, f.err
}

func (f *fakeQueries) OrderDetail(context.Context, string) ([]orders.OrderRow, error) {
	return f.rows, f.err
}

type fakeGetter struct {
	order *orders.Order
	err   error
}

func (f *fakeGetter) GetOrder(context.Context, string) (*orders.Order, error) {
	return f.order, f.err
}

func passthrough(next http.Handler) http.Handler { return next }

func newOrdersRouter(h *OrdersHandler) *chi.Mux {
	r := chi.NewRouter()
	h.Register(r, passthrough, passthrough)
	return r
}

func TestPlaceOrderEndpoint_Success(t *testing.T) {
	placer := &fakePlacer{placement: &orders.Placement{
		OrderID:    "order-1",
		Lines:      []orders.PlacedLine{{ProductID: "p1", Qty: 3, PriceCents: 1000}},
		TotalCents: 3000,
	}}
	r := newOrdersRouter(&OrdersHandler{Placer: placer})

	body := `{"userId": 7, "cart": [{"product_id": "p1", "qty": 3}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/new", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp placeOrderResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "order-1", resp.OrderID)
	assert.Contains(t, resp.Message, "order-1")

	assert.Equal(t, int64(7), placer.gotUserID)
	require.Len(t, placer.gotCart, 1)
	assert.Equal(t, "p1", placer.gotCart[0].ProductID)
}

func TestPlaceOrderEndpoint_Validation(t *testing.T) {
	placer := &fakePlacer{err: orders.ErrValidation}
	r := newOrdersRouter(&OrdersHandler{Placer: placer})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/new", strings.NewReader(`{"userId": 0, "cart": []}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp placeOrderResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Empty(t, resp.OrderID)
}

func TestPlaceOrderEndpoint_BadJSON(t *testing.T) {
	r := newOrdersRouter(&OrdersHandler{Placer: &fakePlacer{}})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/new", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrderEndpoint_InsufficientStock(t *testing.T) {
	placer := &fakePlacer{err: &orders.StockShortfall{ProductID: "p1", Required: 3, Available: 2}}
	r := newOrdersRouter(&OrdersHandler{Placer: placer})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/new",
		strings.NewReader(`{"userId": 7, "cart": [{"product_id": "p1", "qty": 3}]}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		Success bool                    `json:"success"`
		Details []orders.StockShortfall `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, 2, resp.Details[0].Available)
}

func TestPlaceOrderEndpoint_StorageError(t *testing.T) {
	placer := &fakePlacer{err: errors.New("connection reset")}
	r := newOrdersRouter(&OrdersHandler{Placer: placer})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/new",
		strings.NewReader(`{"userId": 7, "cart": [{"product_id": "p1", "qty": 3}]}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal failure details stay out of the response.
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestListOrdersEndpoint(t *testing.T) {
	r := newOrdersRouter(&OrdersHandler{
		Placer: &fakePlacer{},
		Queries: &fakeQueries{rows: []orders.OrderRow{
			{OrderID: "order-1", Title: "Vela", Qty: 2, UserName: "ana"},
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []orders.OrderRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "ana", rows[0].UserName)
}

func TestGetOrderEndpoint_NotFound(t *testing.T) {
	r := newOrdersRouter(&OrdersHandler{Placer: &fakePlacer{}, Queries: &fakeQueries{}})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderStatusEndpoint(t *testing.T) {
	r := newOrdersRouter(&OrdersHandler{
		Placer:  &fakePlacer{},
		Headers: &fakeGetter{order: &orders.Order{ID: "order-1", Status: orders.StatusCommitted}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/order-1/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"COMMITTED"}`, rec.Body.String())
}

func TestGetOrderStatusEndpoint_NotFound(t *testing.T) {
	r := newOrdersRouter(&OrdersHandler{
		Placer:  &fakePlacer{},
		Headers: &fakeGetter{err: orders.ErrOrderNotFound},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ghost/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
