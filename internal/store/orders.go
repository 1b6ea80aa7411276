package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"

	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/models"
)

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	AttachInvoice(ctx context.Context, orderID string, invoiceID gocql.UUID) error
	UpdateStatus(ctx context.Context, orderID, orderStatus, paymentStatus string) error
}

func NewOrderStore() OrderStore {
	return &orderStore{}
}

type orderStore struct{}

// Line items are stored as a JSON text column: an order is an immutable
// snapshot, so there is nothing to query inside the items.
func (s *orderStore) Create(ctx context.Context, o *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders (order_id, user_id, items, total_amount, payment_status, order_status, payment_mode, address_id, invoice_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, string(itemsJSON), o.TotalAmount, o.PaymentStatus, o.OrderStatus,
		o.PaymentMode, o.AddressID, o.InvoiceID, o.CreatedAt).WithContext(ctx).Exec(); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id)
		VALUES (?, ?, ?)`, o.UserID, o.CreatedAt, o.ID).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ orders_by_user indexing error: %v", err)
	}
	return nil
}

func scanOrder(scan func(...interface{}) error) (*models.Order, error) {
	var (
		o         models.Order
		itemsJSON string
	)
	err := scan(&o.ID, &o.UserID, &itemsJSON, &o.TotalAmount, &o.PaymentStatus,
		&o.OrderStatus, &o.PaymentMode, &o.AddressID, &o.InvoiceID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			log.Printf("⚠️ order %s items deserialization error: %v", o.ID, err)
			o.Items = []models.OrderItem{}
		}
	}
	return &o, nil
}

const orderColumns = `order_id, user_id, items, total_amount, payment_status, order_status, payment_mode, address_id, invoice_id, created_at, updated_at`

func (s *orderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	orderID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	q := session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID).WithContext(ctx)
	o, err := scanOrder(q.Scan)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	return o, err
}

func (s *orderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	// orders_by_user clusters by created_at DESC, so ids come back newest first.
	iter := session.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ids))
	for _, oid := range ids {
		o, err := s.Get(ctx, oid.String())
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (s *orderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + orderColumns + ` FROM orders`).WithContext(ctx).Iter()

	var orders []models.Order
	for {
		var (
			o         models.Order
			itemsJSON string
		)
		if !iter.Scan(&o.ID, &o.UserID, &itemsJSON, &o.TotalAmount, &o.PaymentStatus,
			&o.OrderStatus, &o.PaymentMode, &o.AddressID, &o.InvoiceID, &o.CreatedAt, &o.UpdatedAt) {
			break
		}
		if itemsJSON != "" {
			if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
				o.Items = []models.OrderItem{}
			}
		}
		orders = append(orders, o)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderStore) AttachInvoice(ctx context.Context, orderID string, invoiceID gocql.UUID) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	oid, err := gocql.ParseUUID(orderID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now()
	return session.Query(`UPDATE orders SET invoice_id = ?, updated_at = ? WHERE order_id = ?`,
		invoiceID, now, oid).WithContext(ctx).Exec()
}

func (s *orderStore) UpdateStatus(ctx context.Context, orderID, orderStatus, paymentStatus string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	oid, err := gocql.ParseUUID(orderID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now()
	return session.Query(`UPDATE orders SET order_status = ?, payment_status = ?, updated_at = ? WHERE order_id = ?`,
		orderStatus, paymentStatus, now, oid).WithContext(ctx).Exec()
}
