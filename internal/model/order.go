package model

import "time"

// Status is the processing stage of an order.
type Status string

// Order statuses in workflow order.
const (
	StatusPending  Status = "Pending"
	StatusWashing  Status = "Washing"
	StatusIroning  Status = "Ironing"
	StatusReady    Status = "Ready"
	StatusPickedUp Status = "Picked Up"
)

// PaymentStatus tracks money collected for an order. It is independent of Status.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPartial PaymentStatus = "Partial"
)

// PaymentMethod is how the client pays.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "Cash"
	PaymentMethodMobileMoney PaymentMethod = "Mobile Money"
	PaymentMethodBankCard    PaymentMethod = "Bank Card"
)

// OrderStatuses lists every status in strict forward order.
var OrderStatuses = []Status{StatusPending, StatusWashing, StatusIroning, StatusReady, StatusPickedUp}

// PaymentStatuses lists every payment status in display order.
var PaymentStatuses = []PaymentStatus{PaymentPaid, PaymentUnpaid, PaymentPartial}

// PaymentMethods lists every payment method in display order.
var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodBankCard}

// Order represents one customer drop-off transaction.
type Order struct {
	ID            string        `json:"id" db:"id"`
	OrderCode     string        `json:"orderCode" db:"order_code"`
	ClientName    string        `json:"clientName" db:"client_name"`
	ClientPhone   string        `json:"clientPhone" db:"client_phone"`
	ClientEmail   *string       `json:"clientEmail,omitempty" db:"client_email"`
	Items         []LineItem    `json:"items"`
	Status        Status        `json:"status" db:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status"`
	TotalAmount   int64         `json:"totalAmount" db:"total_amount"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}

// HasEmail reports whether the client left a contact email.
func (o *Order) HasEmail() bool {
	return o.ClientEmail != nil && *o.ClientEmail != ""
}

// ItemCount returns the number of pieces across all line items.
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// LineItem is a single clothing line within an order.
type LineItem struct {
	Type     string `json:"type" db:"type"`
	Quantity int    `json:"quantity" db:"quantity"`
	Price    int64  `json:"price" db:"price"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	ClientName    string            `json:"clientName"`
	ClientPhone   string            `json:"clientPhone"`
	ClientEmail   *string           `json:"clientEmail,omitempty"`
	Items         []LineItemRequest `json:"items"`
	PaymentMethod PaymentMethod     `json:"paymentMethod"`
	PaymentStatus PaymentStatus     `json:"paymentStatus"`
}

// LineItemRequest represents a single item in an order request.
type LineItemRequest struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// OrderUpdate carries the mutable fields of an order. Nil fields are left untouched.
type OrderUpdate struct {
	Status        *Status        `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// DashboardStats holds the headline counters shown on the dashboard.
type DashboardStats struct {
	TodayOrders   int   `json:"todayOrders"`
	PendingOrders int   `json:"pendingOrders"`
	TodayIncome   int64 `json:"todayIncome"`
	UnpaidAmount  int64 `json:"unpaidAmount"`
}
