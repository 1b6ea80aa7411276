package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Payment statuses for an invoice.
const (
	InvoiceUnpaid   = "unpaid"
	InvoicePaid     = "paid"
	InvoiceRefunded = "refunded"
	InvoiceFailed   = "failed"
)

type Invoice struct {
	ID            gocql.UUID `json:"id"`
	OrderID       gocql.UUID `json:"order_id"`
	UserID        string     `json:"user_id"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	OrderDate     time.Time  `json:"order_date"`
	// ArtifactKey is the object key of the generated PDF in the invoice
	// bucket; empty until the first successful render.
	ArtifactKey string     `json:"artifact_key,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
