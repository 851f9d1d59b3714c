// Package lifecycle holds the order status state machine and the payment status rules.
//
// Status moves forward one step at a time through Advance. SetStatus allows any
// jump, including backwards, as an explicit override by staff. Payment status is
// an independent axis: an order may be Picked Up while still Unpaid.
package lifecycle

import (
	"fmt"
	"time"

	"dry-cleaner/internal/model"
)

// IndexOf returns the position of s in the forward status sequence, or -1.
func IndexOf(s model.Status) int {
	for i, status := range model.OrderStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

// Next returns the status that follows s. It reports false when s is terminal
// or not part of the sequence.
func Next(s model.Status) (model.Status, bool) {
	i := IndexOf(s)
	if i < 0 || i >= len(model.OrderStatuses)-1 {
		return "", false
	}
	return model.OrderStatuses[i+1], true
}

// IsTerminal reports whether no further Advance is possible from s.
func IsTerminal(s model.Status) bool {
	return IndexOf(s) == len(model.OrderStatuses)-1
}

// Advance moves the order to the next status and stamps UpdatedAt.
// At the terminal status it changes nothing and returns false.
func Advance(order *model.Order, now time.Time) bool {
	next, ok := Next(order.Status)
	if !ok {
		return false
	}
	order.Status = next
	order.UpdatedAt = now
	return true
}

// SetStatus sets any status in the domain, forwards or backwards.
func SetStatus(order *model.Order, status model.Status, now time.Time) error {
	if IndexOf(status) < 0 {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	order.Status = status
	order.UpdatedAt = now
	return nil
}

// SetPaymentStatus sets the payment status after checking it belongs to the domain.
func SetPaymentStatus(order *model.Order, status model.PaymentStatus, now time.Time) error {
	if !ValidPaymentStatus(status) {
		return fmt.Errorf("%w: payment status %q", model.ErrInvalidStatus, status)
	}
	order.PaymentStatus = status
	order.UpdatedAt = now
	return nil
}

// MarkPaid is SetPaymentStatus with Paid.
func MarkPaid(order *model.Order, now time.Time) error {
	return SetPaymentStatus(order, model.PaymentPaid, now)
}

// BecameReady reports whether a change from before to after entered Ready.
func BecameReady(before, after model.Status) bool {
	return before != model.StatusReady && after == model.StatusReady
}

// ValidStatus reports whether s is an order status.
func ValidStatus(s model.Status) bool {
	return IndexOf(s) >= 0
}

// ValidPaymentStatus reports whether s is a payment status.
func ValidPaymentStatus(s model.PaymentStatus) bool {
	for _, ps := range model.PaymentStatuses {
		if ps == s {
			return true
		}
	}
	return false
}

// ValidPaymentMethod reports whether m is a payment method.
func ValidPaymentMethod(m model.PaymentMethod) bool {
	for _, pm := range model.PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (model.Status, error) {
	s := model.Status(raw)
	if !ValidStatus(s) {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidStatus, raw)
	}
	return s, nil
}

// ParsePaymentStatus converts a raw string into a PaymentStatus.
func ParsePaymentStatus(raw string) (model.PaymentStatus, error) {
	s := model.PaymentStatus(raw)
	if !ValidPaymentStatus(s) {
		return "", fmt.Errorf("%w: payment status %q", model.ErrInvalidStatus, raw)
	}
	return s, nil
}
