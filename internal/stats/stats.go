// Package stats derives dashboard counters and period reports from a collection
// of orders. Every function here is pure: the input slice is never modified.
package stats

import (
	"cmp"
	"slices"
	"time"

	"dry-cleaner/internal/model"
)

// TopItemsLimit caps the top-items ranking.
const TopItemsLimit = 5

// Dashboard computes the dashboard counters. Dates are compared in today's location.
func Dashboard(orders []model.Order, today time.Time) model.DashboardStats {
	var s model.DashboardStats
	loc := today.Location()

	for i := range orders {
		o := &orders[i]
		isToday := SameDay(o.CreatedAt, today, loc)

		if isToday {
			s.TodayOrders++
			if o.PaymentStatus == model.PaymentPaid {
				s.TodayIncome += o.TotalAmount
			}
		}
		if o.Status != model.StatusPickedUp {
			s.PendingOrders++
		}
		if o.PaymentStatus == model.PaymentUnpaid {
			s.UnpaidAmount += o.TotalAmount
		}
	}

	return s
}

// StatusCount is one row of the order-status breakdown.
type StatusCount struct {
	Status model.Status `json:"status"`
	Count  int          `json:"count"`
}

// MethodCount is one row of the payment-method breakdown.
type MethodCount struct {
	Method model.PaymentMethod `json:"method"`
	Count  int                 `json:"count"`
}

// ItemQuantity is one row of the top-items ranking.
type ItemQuantity struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// Report is the aggregate over the orders created within a date range.
type Report struct {
	Type            RangeKind      `json:"type"`
	Title           string         `json:"title"`
	DateRange       DateRange      `json:"dateRange"`
	TotalOrders     int            `json:"totalOrders"`
	TotalRevenue    int64          `json:"totalRevenue"`
	PaidOrders      int            `json:"paidOrders"`
	UnpaidOrders    int            `json:"unpaidOrders"`
	PartialOrders   int            `json:"partialOrders"`
	PaidRevenue     int64          `json:"paidRevenue"`
	UnpaidRevenue   int64          `json:"unpaidRevenue"`
	PartialRevenue  int64          `json:"partialRevenue"`
	StatusBreakdown []StatusCount  `json:"statusBreakdown"`
	PaymentMethods  []MethodCount  `json:"paymentMethods"`
	TopItems        []ItemQuantity `json:"topItems"`
	Orders          []model.Order  `json:"orders"`
}

// PeriodReport resolves the period against now and aggregates the matching orders.
func PeriodReport(orders []model.Order, period Period, now time.Time) (*Report, error) {
	r, err := period.Resolve(now)
	if err != nil {
		return nil, err
	}
	report := Aggregate(orders, r)
	report.Type = period.Kind
	report.Title = Title(period.Kind)
	return report, nil
}

// Aggregate builds a report over the orders whose creation time falls in r.
func Aggregate(orders []model.Order, r DateRange) *Report {
	report := &Report{
		DateRange:       r,
		StatusBreakdown: make([]StatusCount, len(model.OrderStatuses)),
		PaymentMethods:  make([]MethodCount, len(model.PaymentMethods)),
		TopItems:        []ItemQuantity{},
		Orders:          []model.Order{},
	}
	for i, s := range model.OrderStatuses {
		report.StatusBreakdown[i].Status = s
	}
	for i, m := range model.PaymentMethods {
		report.PaymentMethods[i].Method = m
	}

	itemIndex := make(map[string]int)
	var items []ItemQuantity

	for _, o := range orders {
		if !r.Contains(o.CreatedAt) {
			continue
		}
		report.Orders = append(report.Orders, o)
		report.TotalOrders++
		report.TotalRevenue += o.TotalAmount

		switch o.PaymentStatus {
		case model.PaymentPaid:
			report.PaidOrders++
			report.PaidRevenue += o.TotalAmount
		case model.PaymentUnpaid:
			report.UnpaidOrders++
			report.UnpaidRevenue += o.TotalAmount
		case model.PaymentPartial:
			report.PartialOrders++
			report.PartialRevenue += o.TotalAmount
		}

		for i := range report.StatusBreakdown {
			if report.StatusBreakdown[i].Status == o.Status {
				report.StatusBreakdown[i].Count++
				break
			}
		}
		for i := range report.PaymentMethods {
			if report.PaymentMethods[i].Method == o.PaymentMethod {
				report.PaymentMethods[i].Count++
				break
			}
		}

		for _, item := range o.Items {
			idx, seen := itemIndex[item.Type]
			if !seen {
				idx = len(items)
				itemIndex[item.Type] = idx
				items = append(items, ItemQuantity{Type: item.Type})
			}
			items[idx].Quantity += item.Quantity
		}
	}

	// Stable sort keeps first-encountered order among equal quantities.
	slices.SortStableFunc(items, func(a, b ItemQuantity) int {
		return cmp.Compare(b.Quantity, a.Quantity)
	})
	if len(items) > TopItemsLimit {
		items = items[:TopItemsLimit]
	}
	if items != nil {
		report.TopItems = items
	}

	return report
}
