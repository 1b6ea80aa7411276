package store

import (
	"context"
	"log"

	"github.com/gocql/gocql"

	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/models"
)

type AddressStore interface {
	Create(ctx context.Context, a *models.ShippingAddress) error
	Get(ctx context.Context, id string) (*models.ShippingAddress, error)
	ListByUser(ctx context.Context, userID string) ([]models.ShippingAddress, error)
	Update(ctx context.Context, a *models.ShippingAddress) error
	Delete(ctx context.Context, id, userID string) error
}

func NewAddressStore() AddressStore {
	return &addressStore{}
}

type addressStore struct{}

const addressColumns = `address_id, user_id, full_name, phone, address_line1, address_line2, city, state, pin_code, country, is_default, created_at`

func (s *addressStore) Create(ctx context.Context, a *models.ShippingAddress) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO addresses (`+addressColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.FullName, a.Phone, a.AddressLine1, a.AddressLine2,
		a.City, a.State, a.PinCode, a.Country, a.IsDefault, a.CreatedAt).WithContext(ctx).Exec(); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO addresses_by_user (user_id, address_id) VALUES (?, ?)`,
		a.UserID, a.ID).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ addresses_by_user indexing error: %v", err)
	}
	return nil
}

func (s *addressStore) Get(ctx context.Context, id string) (*models.ShippingAddress, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	addressID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var a models.ShippingAddress
	err = session.Query(`SELECT `+addressColumns+` FROM addresses WHERE address_id = ?`, addressID).
		WithContext(ctx).
		Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.AddressLine1, &a.AddressLine2,
			&a.City, &a.State, &a.PinCode, &a.Country, &a.IsDefault, &a.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *addressStore) ListByUser(ctx context.Context, userID string) ([]models.ShippingAddress, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT address_id FROM addresses_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	addresses := make([]models.ShippingAddress, 0, len(ids))
	for _, aid := range ids {
		a, err := s.Get(ctx, aid.String())
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		addresses = append(addresses, *a)
	}
	return addresses, nil
}

func (s *addressStore) Update(ctx context.Context, a *models.ShippingAddress) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE addresses SET full_name = ?, phone = ?, address_line1 = ?, address_line2 = ?,
		city = ?, state = ?, pin_code = ?, country = ?, is_default = ? WHERE address_id = ?`,
		a.FullName, a.Phone, a.AddressLine1, a.AddressLine2, a.City, a.State,
		a.PinCode, a.Country, a.IsDefault, a.ID).WithContext(ctx).Exec()
}

func (s *addressStore) Delete(ctx context.Context, id, userID string) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	addressID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}

	if err := session.Query(`DELETE FROM addresses WHERE address_id = ?`, addressID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}
	if err := session.Query(`DELETE FROM addresses_by_user WHERE user_id = ? AND address_id = ?`,
		userID, addressID).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ addresses_by_user cleanup error: %v", err)
	}
	return nil
}
