package service

import (
	"context"
	"time"

	"dry-cleaner/internal/model"
	"dry-cleaner/internal/notify"
	"dry-cleaner/internal/stats"
)

// Clock returns the current time in the shop's timezone.
type Clock func() time.Time

// EventDispatcher hands notification events to the background sender.
type EventDispatcher interface {
	Dispatch(event notify.Event)
}

// OrderService defines operations for order management.
type OrderService interface {
	// List returns every order, newest first.
	List(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves a single order.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// Create submits a new order. Concurrent submissions sharing sessionKey
	// are rejected with model.ErrSubmitInProgress.
	Create(ctx context.Context, sessionKey string, req *model.OrderRequest) (*model.Order, error)

	// Advance moves the order one step forward; a no-op at Picked Up.
	Advance(ctx context.Context, id string) (*model.Order, error)

	// Update sets status and/or payment status.
	Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error)

	// MarkPaid sets the payment status to Paid.
	MarkPaid(ctx context.Context, id string) (*model.Order, error)

	// Delete removes an order.
	Delete(ctx context.Context, id string) error

	// Search finds orders by code, phone or client name.
	Search(ctx context.Context, query string) ([]model.Order, error)

	// Stats returns the dashboard counters for today.
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

// ReportService builds period reports and their printable exports.
type ReportService interface {
	// Generate aggregates the orders in the period.
	Generate(ctx context.Context, period stats.Period) (*stats.Report, error)

	// Export renders the period report as a PDF.
	Export(ctx context.Context, period stats.Period) (*Export, error)
}

// Export is a rendered report ready for download.
type Export struct {
	Filename string
	Data     []byte
	// Location is where the archived copy went; empty when archiving is off or failed.
	Location string
}
