package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Payment statuses for an order.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order statuses.
const (
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Accepted payment modes on checkout.
var PaymentModes = map[string]bool{
	"card":        true,
	"paypal":      true,
	"upi":         true,
	"cod":         true,
	"net_banking": true,
}

type Order struct {
	ID            gocql.UUID  `json:"id"`
	UserID        string      `json:"user_id"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"total_amount"`
	PaymentStatus string      `json:"payment_status"`
	OrderStatus   string      `json:"order_status"`
	PaymentMode   string      `json:"payment_mode"`
	AddressID     *gocql.UUID `json:"address_id,omitempty"`
	InvoiceID     *gocql.UUID `json:"invoice_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
}

// OrderItem is an immutable snapshot of one purchased line: the unit price is
// the product price at checkout time, not the (possibly stale) cart price.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
