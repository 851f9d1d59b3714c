// Package workflow validates and assembles new orders from line-item entries.
package workflow

import (
	"fmt"
	"math"

	"dry-cleaner/internal/model"
)

const (
	// MaxQuantity is the largest quantity a line may carry. It matches the
	// order_items.quantity INTEGER column.
	MaxQuantity = math.MaxInt32
	// MaxUnitPrice caps the price of a single unit. A full line at both
	// limits still fits in an int64.
	MaxUnitPrice int64 = 1_000_000_000
)

// Basket is the transient list of line items collected before an order is submitted.
// Lines keep insertion order and are never merged, even for the same clothing type.
type Basket struct {
	items []model.LineItem
}

// NewBasket creates an empty basket.
func NewBasket() *Basket {
	return &Basket{}
}

// AddItem appends a line. Quantity must be in [1, MaxQuantity], price in
// [0, MaxUnitPrice], and the basket total must still fit in an int64.
func (b *Basket) AddItem(itemType string, quantity int, price int64) error {
	if !validLine(quantity, price) {
		return fmt.Errorf("%w: %s x%d @ %d", model.ErrInvalidItem, itemType, quantity, price)
	}
	line := model.LineItem{Type: itemType, Quantity: quantity, Price: price}
	if _, err := CalculateTotal(append(b.Items(), line)); err != nil {
		return err
	}
	b.items = append(b.items, line)
	return nil
}

func validLine(quantity int, price int64) bool {
	return quantity > 0 && quantity <= MaxQuantity && price >= 0 && price <= MaxUnitPrice
}

// RemoveItem deletes the line at index.
func (b *Basket) RemoveItem(index int) error {
	if index < 0 || index >= len(b.items) {
		return fmt.Errorf("%w: %d (basket has %d lines)", model.ErrIndexOutOfRange, index, len(b.items))
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
	return nil
}

// Items returns a copy of the basket lines.
func (b *Basket) Items() []model.LineItem {
	out := make([]model.LineItem, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of lines.
func (b *Basket) Len() int {
	return len(b.items)
}

// Total is the basket amount. AddItem keeps it within int64.
func (b *Basket) Total() int64 {
	total, _ := CalculateTotal(b.items)
	return total
}

// Clear empties the basket.
func (b *Basket) Clear() {
	b.items = nil
}

// CalculateTotal returns Σ quantity × price using integer arithmetic.
// It fails with model.ErrInvalidItem when a line is negative or the sum
// does not fit in an int64.
func CalculateTotal(items []model.LineItem) (int64, error) {
	var total int64
	for i, item := range items {
		if item.Quantity < 0 || item.Price < 0 {
			return 0, fmt.Errorf("%w: line %d is negative", model.ErrInvalidItem, i)
		}
		q := int64(item.Quantity)
		if q != 0 && item.Price > math.MaxInt64/q {
			return 0, fmt.Errorf("%w: line %d overflows the total", model.ErrInvalidItem, i)
		}
		line := q * item.Price
		if total > math.MaxInt64-line {
			return 0, fmt.Errorf("%w: total overflows at line %d", model.ErrInvalidItem, i)
		}
		total += line
	}
	return total, nil
}
