// Package notify publishes order events to customers' notification channels.
package notify

import (
	"context"
	"time"

	"dry-cleaner/internal/model"

	"github.com/google/uuid"
)

// EventType names a notification.
type EventType string

const (
	// EventConfirmation is sent when an order with a client email is created.
	EventConfirmation EventType = "order.confirmation"
	// EventReady is sent when an order moves into Ready.
	EventReady EventType = "order.ready"
)

// Event is the payload handed to a sink.
type Event struct {
	ID            string              `json:"id"`
	Type          EventType           `json:"type"`
	OccurredAt    time.Time           `json:"occurredAt"`
	OrderID       string              `json:"orderId"`
	OrderCode     string              `json:"orderCode"`
	ClientName    string              `json:"clientName"`
	ClientPhone   string              `json:"clientPhone"`
	ClientEmail   *string             `json:"clientEmail,omitempty"`
	Items         []model.LineItem    `json:"items"`
	TotalAmount   int64               `json:"totalAmount"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
	Status        model.Status        `json:"status"`
}

// NewEvent snapshots order into an event of the given type.
func NewEvent(eventType EventType, order *model.Order, now time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		OccurredAt:    now,
		OrderID:       order.ID,
		OrderCode:     order.OrderCode,
		ClientName:    order.ClientName,
		ClientPhone:   order.ClientPhone,
		ClientEmail:   order.ClientEmail,
		Items:         order.Items,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		Status:        order.Status,
	}
}

// Notifier delivers a single event.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
	Close() error
}
