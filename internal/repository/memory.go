package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"dry-cleaner/internal/model"
	"dry-cleaner/internal/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memoryRepository keeps orders in process memory. It backs tests and the
// API server when no database is configured.
type memoryRepository struct {
	mu     sync.RWMutex
	orders map[string]model.Order
	logger zerolog.Logger
}

// NewMemoryRepository creates an empty in-memory order repository.
func NewMemoryRepository(logger zerolog.Logger) OrderRepository {
	return &memoryRepository{
		orders: make(map[string]model.Order),
		logger: logger.With().Str("repository", "memory-order").Logger(),
	}
}

func (r *memoryRepository) List(_ context.Context) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(*model.Order) bool { return true }), nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
	}
	return cloneOrder(o), nil
}

func (r *memoryRepository) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	o := *cloneOrder(*order)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[o.ID]; exists {
		return nil, fmt.Errorf("order %s already exists", o.ID)
	}
	r.orders[o.ID] = o

	r.logger.Debug().Str("order_id", o.ID).Str("order_code", o.OrderCode).Msg("order created")
	return cloneOrder(o), nil
}

func (r *memoryRepository) Update(_ context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		o.PaymentStatus = *update.PaymentStatus
	}
	o.UpdatedAt = update.UpdatedAt
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now()
	}
	r.orders[id] = o

	return cloneOrder(o), nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
	}
	delete(r.orders, id)
	return nil
}

func (r *memoryRepository) Search(_ context.Context, query string) ([]model.Order, error) {
	query = strings.TrimSpace(query)

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(o *model.Order) bool { return matchesQuery(o, query) }), nil
}

func (r *memoryRepository) Stats(_ context.Context, today time.Time) (*model.DashboardStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := stats.Dashboard(r.sorted(func(*model.Order) bool { return true }), today)
	return &s, nil
}

// sorted returns matching orders newest first. Callers hold the lock.
func (r *memoryRepository) sorted(keep func(*model.Order) bool) []model.Order {
	out := []model.Order{}
	for _, o := range r.orders {
		if keep(&o) {
			out = append(out, *cloneOrder(o))
		}
	}
	slices.SortFunc(out, func(a, b model.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.OrderCode, a.OrderCode)
	})
	return out
}

func cloneOrder(o model.Order) *model.Order {
	o.Items = slices.Clone(o.Items)
	if o.ClientEmail != nil {
		email := *o.ClientEmail
		o.ClientEmail = &email
	}
	return &o
}
