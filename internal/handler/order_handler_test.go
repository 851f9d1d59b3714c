package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dry-cleaner/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) orderResult(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ordersResult(args mock.Arguments) ([]model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]model.Order, error) {
	return m.ordersResult(m.Called(ctx))
}

func (m *MockOrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, id))
}

func (m *MockOrderService) Create(ctx context.Context, sessionKey string, req *model.OrderRequest) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, sessionKey, req))
}

func (m *MockOrderService) Advance(ctx context.Context, id string) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, id))
}

func (m *MockOrderService) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, id, update))
}

func (m *MockOrderService) MarkPaid(ctx context.Context, id string) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, id))
}

func (m *MockOrderService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderService) Search(ctx context.Context, query string) ([]model.Order, error) {
	return m.ordersResult(m.Called(ctx, query))
}

func (m *MockOrderService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

func newOrderRouter(h *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/orders", h.List)
	r.Post("/api/orders", h.Create)
	r.Get("/api/orders/search", h.Search)
	r.Get("/api/orders/stats", h.Stats)
	r.Get("/api/orders/{id}", h.GetByID)
	r.Put("/api/orders/{id}", h.Update)
	r.Delete("/api/orders/{id}", h.Delete)
	r.Post("/api/orders/{id}/advance", h.Advance)
	r.Post("/api/orders/{id}/mark-paid", h.MarkPaid)
	return r
}

func testOrder() *model.Order {
	return &model.Order{
		ID:            "order-1",
		OrderCode:     "DC123456001",
		ClientName:    "Alice",
		ClientPhone:   "0788123456",
		Items:         []model.LineItem{{Type: "shirt", Quantity: 2, Price: 1500}},
		Status:        model.StatusPending,
		PaymentMethod: model.PaymentMethodMobileMoney,
		PaymentStatus: model.PaymentUnpaid,
		TotalAmount:   3000,
		CreatedAt:     time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response must be wrapped in data: %s", rec.Body.String())
	return data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOrderHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockOrderService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Successful creation",
			body: `{"client_name": "Alice", "client_phone": "0788123456",
				"items": [{"type": "shirt", "quantity": 2, "price": 1500}],
				"payment_method": "Mobile Money", "payment_status": "Unpaid"}`,
			mockSetup: func(m *MockOrderService) {
				m.On("Create", mock.Anything, "till-1", mock.MatchedBy(func(req *model.OrderRequest) bool {
					return req.ClientName == "Alice" &&
						req.PaymentMethod == model.PaymentMethodMobileMoney &&
						len(req.Items) == 1 && req.Items[0].Price == 1500
				})).Return(testOrder(), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid JSON",
			body:           `{"client_name": `,
			mockSetup:      func(m *MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name: "Validation error",
			body: `{"client_name": ""}`,
			mockSetup: func(m *MockOrderService) {
				m.On("Create", mock.Anything, "till-1", mock.Anything).
					Return(nil, model.NewValidationError("Client name is required"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name: "Submission already in flight",
			body: `{"client_name": "Alice"}`,
			mockSetup: func(m *MockOrderService) {
				m.On("Create", mock.Anything, "till-1", mock.Anything).Return(nil, model.ErrSubmitInProgress)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeSubmitInProgress,
		},
		{
			name: "Repository failure is hidden",
			body: `{"client_name": "Alice"}`,
			mockSetup: func(m *MockOrderService) {
				m.On("Create", mock.Anything, "till-1", mock.Anything).Return(nil, errors.New("pq: connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			tt.mockSetup(svc)
			router := newOrderRouter(NewOrderHandler(svc, zerolog.Nop()))

			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body))
			req.Header.Set(SessionHeader, "till-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				body := decodeError(t, rec)
				assert.Equal(t, tt.expectedCode, body.Error)
				assert.NotContains(t, body.Message, "pq:")
			} else {
				data := decodeData(t, rec)
				assert.Equal(t, "DC123456001", data["order_code"])
				assert.Equal(t, "Mobile Money", data["payment_method"])
				assert.EqualValues(t, 3000, data["total_amount"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_GetByID(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("GetByID", mock.Anything, "order-1").Return(testOrder(), nil)
	svc.On("GetByID", mock.Anything, "missing").Return(nil, model.ErrOrderNotFound)
	router := newOrderRouter(NewOrderHandler(svc, zerolog.Nop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/order-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	data := decodeData(t, rec)
	assert.Equal(t, "order-1", data["id"])
	assert.Contains(t, data, "client_phone")
	assert.NotContains(t, data, "clientPhone")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.ErrCodeNotFound, decodeError(t, rec).Error)
}

func TestOrderHandler_ListSearchStats(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("List", mock.Anything).Return([]model.Order{*testOrder()}, nil)
	svc.On("Search", mock.Anything, "dc123").Return([]model.Order{}, nil)
	svc.On("Stats", mock.Anything).Return(&model.DashboardStats{TodayOrders: 1, PendingOrders: 1, TodayIncome: 8500}, nil)
	router := newOrderRouter(NewOrderHandler(svc, zerolog.Nop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Alice", list.Data[0]["client_name"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/search?query=dc123", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data": []}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"data": {"today_orders": 1, "pending_orders": 1, "today_income": 8500, "unpaid_amount": 0}}`,
		rec.Body.String())

	svc.AssertExpectations(t)
}

func TestOrderHandler_Update(t *testing.T) {
	ready := model.StatusReady
	paid := model.PaymentPaid
	updated := testOrder()
	updated.Status = ready
	updated.PaymentStatus = paid

	svc := new(MockOrderService)
	svc.On("Update", mock.Anything, "order-1", model.OrderUpdate{Status: &ready, PaymentStatus: &paid}).
		Return(updated, nil).Once()
	router := newOrderRouter(NewOrderHandler(svc, zerolog.Nop()))

	req := httptest.NewRequest(http.MethodPut, "/api/orders/order-1",
		strings.NewReader(`{"status": "Ready", "payment_status": "Paid"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ready", decodeData(t, rec)["status"])

	svc.AssertExpectations(t)
}

func TestOrderHandler_Update_RejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Unknown status", body: `{"status": "Folded"}`},
		{name: "Status in wrong case", body: `{"status": "picked up"}`},
		{name: "Unknown payment status", body: `{"payment_status": "Free"}`},
		{name: "Valid status with unknown payment status", body: `{"status": "Ready", "payment_status": "Partly"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			router := newOrderRouter(NewOrderHandler(svc, zerolog.Nop()))

			req := httptest.NewRequest(http.MethodPut, "/api/orders/order-1", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, model.ErrCodeInvalidStatus, decodeError(t, rec).Error)
			svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderHandler_Update_PaymentOnly(t *testing.T) {
	unpaid := model.PaymentUnpaid
	svc := new(MockOrderService)
	svc.On("Update", mock.Anything, "order-1", model.OrderUpdate{PaymentStatus: &unpaid}).
		Return(testOrder(), nil)
	router := newOrderRouter(NewOrderHandler(svc, zerolog.Nop()))

	req := httptest.NewRequest(http.MethodPut, "/api/orders/order-1", strings.NewReader(`{"payment_status": "Unpaid"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestOrderHandler_AdvanceMarkPaidDelete(t *testing.T) {
	advanced := testOrder()
	advanced.Status = model.StatusWashing
	paid := testOrder()
	paid.PaymentStatus = model.PaymentPaid

	svc := new(MockOrderService)
	svc.On("Advance", mock.Anything, "order-1").Return(advanced, nil)
	svc.On("MarkPaid", mock.Anything, "order-1").Return(paid, nil)
	svc.On("Delete", mock.Anything, "order-1").Return(nil)
	svc.On("Delete", mock.Anything, "missing").Return(model.ErrOrderNotFound)
	router := newOrderRouter(NewOrderHandler(svc, zerolog.Nop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/order-1/advance", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Washing", decodeData(t, rec)["status"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/order-1/mark-paid", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Paid", decodeData(t, rec)["payment_status"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/orders/order-1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/orders/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.AssertExpectations(t)
}

func TestSessionKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", sessionKey(req))

	req.Header.Set(SessionHeader, "till-2")
	assert.Equal(t, "till-2", sessionKey(req))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{model.ErrCodeValidation, http.StatusBadRequest},
		{model.ErrCodeInvalidStatus, http.StatusBadRequest},
		{model.ErrCodeInvalidItem, http.StatusBadRequest},
		{model.ErrCodeIndexOutOfRange, http.StatusBadRequest},
		{model.ErrCodeInvalidRange, http.StatusBadRequest},
		{model.ErrCodeNotFound, http.StatusNotFound},
		{model.ErrCodeSubmitInProgress, http.StatusConflict},
		{model.ErrCodeNoData, http.StatusUnprocessableEntity},
		{model.ErrCodeRateLimited, http.StatusTooManyRequests},
		{model.ErrCodeNetwork, http.StatusInternalServerError},
		{model.ErrCodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.code))
		})
	}
}
