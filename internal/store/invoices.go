package store

import (
	"context"
	"log"
	"time"

	"github.com/gocql/gocql"

	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/models"
)

type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	Get(ctx context.Context, id string) (*models.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]models.Invoice, error)
	SetArtifactKey(ctx context.Context, id string, key string) error
	UpdatePaymentStatus(ctx context.Context, id string, status string) error
}

func NewInvoiceStore() InvoiceStore {
	return &invoiceStore{}
}

type invoiceStore struct{}

const invoiceColumns = `invoice_id, order_id, user_id, amount, payment_method, payment_status, order_date, artifact_key, created_at, updated_at`

func (s *invoiceStore) Create(ctx context.Context, inv *models.Invoice) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO invoices (`+invoiceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OrderID, inv.UserID, inv.Amount, inv.PaymentMethod, inv.PaymentStatus,
		inv.OrderDate, inv.ArtifactKey, inv.CreatedAt, inv.UpdatedAt).WithContext(ctx).Exec(); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO invoices_by_user (user_id, created_at, invoice_id)
		VALUES (?, ?, ?)`, inv.UserID, inv.CreatedAt, inv.ID).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ invoices_by_user indexing error: %v", err)
	}
	return nil
}

func scanInvoice(scan func(...interface{}) error) (*models.Invoice, error) {
	var inv models.Invoice
	err := scan(&inv.ID, &inv.OrderID, &inv.UserID, &inv.Amount, &inv.PaymentMethod,
		&inv.PaymentStatus, &inv.OrderDate, &inv.ArtifactKey, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *invoiceStore) Get(ctx context.Context, id string) (*models.Invoice, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	invoiceID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	q := session.Query(`SELECT `+invoiceColumns+` FROM invoices WHERE invoice_id = ?`, invoiceID).WithContext(ctx)
	inv, err := scanInvoice(q.Scan)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	return inv, err
}

func (s *invoiceStore) ListByUser(ctx context.Context, userID string) ([]models.Invoice, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT invoice_id FROM invoices_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	invoices := make([]models.Invoice, 0, len(ids))
	for _, iid := range ids {
		inv, err := s.Get(ctx, iid.String())
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, nil
}

func (s *invoiceStore) SetArtifactKey(ctx context.Context, id string, key string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	invoiceID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now()
	return session.Query(`UPDATE invoices SET artifact_key = ?, updated_at = ? WHERE invoice_id = ?`,
		key, now, invoiceID).WithContext(ctx).Exec()
}

func (s *invoiceStore) UpdatePaymentStatus(ctx context.Context, id string, status string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	invoiceID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now()
	return session.Query(`UPDATE invoices SET payment_status = ?, updated_at = ? WHERE invoice_id = ?`,
		status, now, invoiceID).WithContext(ctx).Exec()
}
