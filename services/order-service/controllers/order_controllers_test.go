package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/controllers"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/routes"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock OrderService ---

type mockOrderService struct {
	placeFn func(ctx context.Context, userID, key string, req *services.PlaceOrderRequest) (*models.Order, bool, error)
	listFn  func(ctx context.Context, userID string) ([]models.Order, error)
	getFn   func(ctx context.Context, userID, orderID string) (*models.Order, error)
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, userID, key string, req *services.PlaceOrderRequest) (*models.Order, bool, error) {
	return m.placeFn(ctx, userID, key, req)
}
func (m *mockOrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return m.listFn(ctx, userID)
}
func (m *mockOrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return m.getFn(ctx, userID, orderID)
}

// --- Helpers ---

func setupRouter(svc controllers.OrderPlacer) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(apperrors.MethodNotAllowed)
	r.Use(apperrors.ErrorMiddleware(false))
	oc := controllers.NewOrderController(svc, validation.NewRequestValidator())
	routes.RegisterOrderRoutes(r, auth.DefaultResolver(""), oc)
	return r
}

func do(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

var user = map[string]string{"X-User-ID": "user-1"}

// --- Tests ---

func TestCreateOrder_Created(t *testing.T) {
	var gotKey string
	var gotReq *services.PlaceOrderRequest
	svc := &mockOrderService{
		placeFn: func(_ context.Context, userID, key string, req *services.PlaceOrderRequest) (*models.Order, bool, error) {
			assert.Equal(t, "user-1", userID)
			gotKey, gotReq = key, req
			return &models.Order{UserID: userID, OrderID: "order-1", Total: 132}, true, nil
		},
	}
	headers := map[string]string{"X-User-ID": "user-1", controllers.IdempotencyHeader: "abc"}

	w := do(setupRouter(svc), http.MethodPost, "/orders", `{"items":[{"productId":"p1","quantity":2}]}`, headers)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "abc", gotKey)
	require.Len(t, gotReq.Items, 1)
	assert.Equal(t, 2, gotReq.Items[0].Quantity)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "order-1", order.OrderID)
}

func TestCreateOrder_EmptyBodyUsesCart(t *testing.T) {
	svc := &mockOrderService{
		placeFn: func(_ context.Context, _, _ string, req *services.PlaceOrderRequest) (*models.Order, bool, error) {
			assert.Empty(t, req.Items)
			return &models.Order{OrderID: "order-1"}, true, nil
		},
	}
	w := do(setupRouter(svc), http.MethodPost, "/orders", "", user)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateOrder_ReplayIs200(t *testing.T) {
	svc := &mockOrderService{
		placeFn: func(context.Context, string, string, *services.PlaceOrderRequest) (*models.Order, bool, error) {
			return &models.Order{OrderID: "order-1"}, false, nil
		},
	}
	w := do(setupRouter(svc), http.MethodPost, "/orders", `{}`, user)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrder_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"invalid json", `{"items":`, nil, http.StatusBadRequest, "Invalid JSON in request body"},
		{"bad quantity", `{"items":[{"productId":"p1","quantity":0}]}`, nil, http.StatusBadRequest, "items[0].quantity must be at least 1"},
		{"empty order", `{}`, apperrors.InvalidInput("empty order"), http.StatusBadRequest, "empty order"},
		{"unknown product", `{}`, apperrors.NotFound("product p9 not found"), http.StatusNotFound, "product p9 not found"},
		{"short stock", `{}`, apperrors.Conflict("insufficient stock for p1 (available 3, requested 5)"), http.StatusConflict, "insufficient stock for p1 (available 3, requested 5)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockOrderService{
				placeFn: func(context.Context, string, string, *services.PlaceOrderRequest) (*models.Order, bool, error) {
					return nil, false, tc.err
				},
			}
			w := do(setupRouter(svc), http.MethodPost, "/orders", tc.body, user)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.msg, errorBody(t, w))
		})
	}
}

func TestOrders_Unauthorized(t *testing.T) {
	w := do(setupRouter(&mockOrderService{}), http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized: Authentication required", errorBody(t, w))
}

func TestGetOrders(t *testing.T) {
	svc := &mockOrderService{
		listFn: func(context.Context, string) ([]models.Order, error) {
			return []models.Order{{OrderID: "order-2"}, {OrderID: "order-1"}}, nil
		},
	}
	w := do(setupRouter(svc), http.MethodGet, "/orders", "", user)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Orders, 2)
	assert.Equal(t, "order-2", body.Orders[0].OrderID)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	svc := &mockOrderService{
		getFn: func(_ context.Context, _, orderID string) (*models.Order, error) {
			assert.Equal(t, "order-9", orderID)
			return nil, apperrors.NotFound("Order not found")
		},
	}
	w := do(setupRouter(svc), http.MethodGet, "/orders/order-9", "", user)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", errorBody(t, w))
}

func TestOrders_MethodNotAllowed(t *testing.T) {
	w := do(setupRouter(&mockOrderService{}), http.MethodPatch, "/orders", "", user)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
