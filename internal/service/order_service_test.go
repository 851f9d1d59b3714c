package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dry-cleaner/internal/metrics"
	"dry-cleaner/internal/model"
	"dry-cleaner/internal/notify"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so the service can mutate it freely.
	o := *args.Get(0).(*model.Order)
	return &o, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	args := m.Called(ctx, order)
	if fn, ok := args.Get(0).(func(context.Context, *model.Order) *model.Order); ok {
		return fn(ctx, order), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Search(ctx context.Context, query string) ([]model.Order, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) Stats(ctx context.Context, today time.Time) (*model.DashboardStats, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

// MockDispatcher is a mock implementation of EventDispatcher.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(event notify.Event) {
	m.Called(event)
}

var fixedNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.FixedZone("CAT", 7200))

func fixedClock() time.Time { return fixedNow }

func newTestOrderService(repo *MockOrderRepository, dispatcher *MockDispatcher) (OrderService, *metrics.Metrics) {
	m := metrics.NewNop()
	return NewOrderService(repo, dispatcher, m, fixedClock, zerolog.Nop()), m
}

func storedOrder(status model.Status) *model.Order {
	return &model.Order{
		ID:            "order-1",
		OrderCode:     "DC123456001",
		ClientName:    "Alice",
		ClientPhone:   "0788123456",
		Items:         []model.LineItem{{Type: "shirt", Quantity: 2, Price: 1500}},
		Status:        status,
		PaymentMethod: model.PaymentMethodCash,
		PaymentStatus: model.PaymentUnpaid,
		TotalAmount:   3000,
		CreatedAt:     fixedNow.Add(-time.Hour),
		UpdatedAt:     fixedNow.Add(-time.Hour),
	}
}

func validOrderRequest() *model.OrderRequest {
	return &model.OrderRequest{
		ClientName:  "Alice",
		ClientPhone: "0788123456",
		Items: []model.LineItemRequest{
			{Type: "shirt", Quantity: 2, Price: 1500},
			{Type: "trousers", Quantity: 1, Price: 2000},
		},
		PaymentMethod: model.PaymentMethodCash,
		PaymentStatus: model.PaymentUnpaid,
	}
}

func TestOrderService_Create(t *testing.T) {
	email := "alice@example.com"

	tests := []struct {
		name           string
		email          *string
		expectDispatch bool
	}{
		{name: "With email sends confirmation", email: &email, expectDispatch: true},
		{name: "Without email sends nothing", email: nil, expectDispatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockOrderRepository)
			dispatcher := new(MockDispatcher)
			svc, m := newTestOrderService(repo, dispatcher)

			req := validOrderRequest()
			req.ClientEmail = tt.email

			repo.On("Create", ctx, mock.MatchedBy(func(o *model.Order) bool {
				return o.TotalAmount == 5000 && o.Status == model.StatusPending && o.CreatedAt.Equal(fixedNow)
			})).Return(func(_ context.Context, o *model.Order) *model.Order {
				created := *o
				created.ID = "new-id"
				return &created
			}, nil)
			repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("unexpected order"))

			if tt.expectDispatch {
				dispatcher.On("Dispatch", mock.MatchedBy(func(e notify.Event) bool {
					return e.Type == notify.EventConfirmation && e.OrderID == "new-id"
				})).Return()
			}

			created, err := svc.Create(ctx, "till-1", req)

			require.NoError(t, err)
			assert.Equal(t, "new-id", created.ID)
			assert.Equal(t, float64(1), testutil.ToFloat64(m.OrdersCreated))
			dispatcher.AssertExpectations(t)
			if !tt.expectDispatch {
				dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything)
			}
		})
	}
}

func TestOrderService_Create_ValidationError(t *testing.T) {
	repo := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	svc, m := newTestOrderService(repo, dispatcher)

	req := validOrderRequest()
	req.ClientPhone = "0712345"

	_, err := svc.Create(context.Background(), "till-1", req)

	assert.ErrorIs(t, err, model.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.OrdersCreated))

	_, err = svc.Create(context.Background(), "till-1", nil)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestOrderService_Advance(t *testing.T) {
	tests := []struct {
		name           string
		from           model.Status
		to             model.Status
		expectUpdate   bool
		expectDispatch bool
	}{
		{name: "Pending to Washing", from: model.StatusPending, to: model.StatusWashing, expectUpdate: true},
		{name: "Ironing to Ready notifies", from: model.StatusIroning, to: model.StatusReady, expectUpdate: true, expectDispatch: true},
		{name: "Picked Up is a no-op", from: model.StatusPickedUp, to: model.StatusPickedUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockOrderRepository)
			dispatcher := new(MockDispatcher)
			svc, m := newTestOrderService(repo, dispatcher)

			stored := storedOrder(tt.from)
			repo.On("GetByID", ctx, "order-1").Return(stored, nil)

			if tt.expectUpdate {
				to := tt.to
				updated := storedOrder(tt.to)
				updated.UpdatedAt = fixedNow
				repo.On("Update", ctx, "order-1", model.OrderUpdate{Status: &to, UpdatedAt: fixedNow}).
					Return(updated, nil)
			}
			if tt.expectDispatch {
				dispatcher.On("Dispatch", mock.MatchedBy(func(e notify.Event) bool {
					return e.Type == notify.EventReady && e.OrderCode == "DC123456001"
				})).Return()
			}

			order, err := svc.Advance(ctx, "order-1")

			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
			if tt.expectUpdate {
				assert.Equal(t, fixedNow, order.UpdatedAt)
				assert.Equal(t, float64(1), testutil.ToFloat64(m.StatusTransitions.WithLabelValues(string(tt.to))))
			} else {
				assert.Equal(t, stored.UpdatedAt, order.UpdatedAt)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			}
			if !tt.expectDispatch {
				dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything)
			}
			repo.AssertExpectations(t)
			dispatcher.AssertExpectations(t)
		})
	}
}

func TestOrderService_Advance_UnknownStoredStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc, _ := newTestOrderService(repo, new(MockDispatcher))

	repo.On("GetByID", ctx, "order-1").Return(storedOrder(model.Status("Folded")), nil)

	_, err := svc.Advance(ctx, "order-1")

	assert.ErrorIs(t, err, model.ErrInvalidStatus)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Advance_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc, _ := newTestOrderService(repo, new(MockDispatcher))

	repo.On("GetByID", ctx, "missing").Return(nil, model.ErrOrderNotFound)

	_, err := svc.Advance(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_Update(t *testing.T) {
	ready := model.StatusReady
	bogus := model.Status("Folded")
	partial := model.PaymentPartial
	badPayment := model.PaymentStatus("Refunded")

	tests := []struct {
		name           string
		update         model.OrderUpdate
		expectErr      error
		expectDispatch bool
	}{
		{name: "Nothing to update", update: model.OrderUpdate{}, expectErr: model.ErrValidation},
		{name: "Unknown status", update: model.OrderUpdate{Status: &bogus}, expectErr: model.ErrInvalidStatus},
		{name: "Unknown payment status", update: model.OrderUpdate{PaymentStatus: &badPayment}, expectErr: model.ErrInvalidStatus},
		{name: "Jump straight to Ready", update: model.OrderUpdate{Status: &ready}, expectDispatch: true},
		{name: "Payment only", update: model.OrderUpdate{PaymentStatus: &partial}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockOrderRepository)
			dispatcher := new(MockDispatcher)
			svc, _ := newTestOrderService(repo, dispatcher)

			stored := storedOrder(model.StatusWashing)
			repo.On("GetByID", ctx, "order-1").Return(stored, nil).Maybe()

			if tt.expectErr == nil {
				result := storedOrder(model.StatusWashing)
				if tt.update.Status != nil {
					result.Status = *tt.update.Status
				}
				if tt.update.PaymentStatus != nil {
					result.PaymentStatus = *tt.update.PaymentStatus
				}
				want := tt.update
				want.UpdatedAt = fixedNow
				repo.On("Update", ctx, "order-1", want).Return(result, nil)
			}
			if tt.expectDispatch {
				dispatcher.On("Dispatch", mock.Anything).Return()
			}

			_, err := svc.Update(ctx, "order-1", tt.update)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
			dispatcher.AssertExpectations(t)
			if !tt.expectDispatch {
				dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything)
			}
		})
	}
}

func TestOrderService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	svc, _ := newTestOrderService(repo, dispatcher)

	// Picked Up orders can still be settled later.
	stored := storedOrder(model.StatusPickedUp)
	paid := model.PaymentPaid
	result := storedOrder(model.StatusPickedUp)
	result.PaymentStatus = model.PaymentPaid

	repo.On("GetByID", ctx, "order-1").Return(stored, nil)
	repo.On("Update", ctx, "order-1", model.OrderUpdate{PaymentStatus: &paid, UpdatedAt: fixedNow}).Return(result, nil)

	order, err := svc.MarkPaid(ctx, "order-1")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, order.PaymentStatus)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything)
	repo.AssertExpectations(t)
}

func TestOrderService_Passthrough(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc, _ := newTestOrderService(repo, new(MockDispatcher))

	orders := []model.Order{*storedOrder(model.StatusPending)}
	repo.On("List", ctx).Return(orders, nil)
	repo.On("Search", ctx, "alice").Return(orders, nil)
	repo.On("Stats", ctx, fixedNow).Return(&model.DashboardStats{TodayOrders: 1}, nil)
	repo.On("Delete", ctx, "order-1").Return(nil)
	repo.On("Delete", ctx, "missing").Return(model.ErrOrderNotFound)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Search(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	s, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.TodayOrders)

	assert.NoError(t, svc.Delete(ctx, "order-1"))
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), model.ErrOrderNotFound)

	repo.AssertExpectations(t)
}
