package repository

import (
	"context"
	"strings"
	"time"

	"dry-cleaner/internal/model"
)

// OrderRepository defines the interface for order data access operations.
// Lookups by an unknown ID fail with model.ErrOrderNotFound.
type OrderRepository interface {
	// List returns all orders, newest first.
	List(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves a single order with its line items.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// Create persists a new order and returns it with its assigned ID.
	Create(ctx context.Context, order *model.Order) (*model.Order, error)

	// Update applies a partial status/payment-status change.
	Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error)

	// Delete removes an order and its line items.
	Delete(ctx context.Context, id string) error

	// Search matches order code, phone or client name, case-insensitively.
	// An empty query returns every order.
	Search(ctx context.Context, query string) ([]model.Order, error)

	// Stats computes the dashboard counters relative to today.
	Stats(ctx context.Context, today time.Time) (*model.DashboardStats, error)
}

func dayBounds(today time.Time) (time.Time, time.Time) {
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return start, start.AddDate(0, 0, 1)
}

func matchesQuery(o *model.Order, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(o.OrderCode), q) ||
		strings.Contains(strings.ToLower(o.ClientPhone), q) ||
		strings.Contains(strings.ToLower(o.ClientName), q)
}
