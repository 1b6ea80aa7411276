package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProvider(ctx context.Context, id, provider, providerID string) error
}

func NewUserStore() UserStore {
	return &userStore{}
}

type userStore struct{}

func (s *userStore) Create(ctx context.Context, u *models.User) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(u.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := session.Query(`INSERT INTO users (user_id, email, password, name, phone, role, provider, provider_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gocql.UUID(userID), u.Email, u.Password, u.Name, u.Phone, u.Role,
		u.Provider, u.ProviderID, now).WithContext(ctx).Exec(); err != nil {
		return err
	}

	// users_by_email backs the login path.
	return session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`,
		u.Email, gocql.UUID(userID)).WithContext(ctx).Exec()
}

func (s *userStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	u := models.User{ID: id}
	err = session.Query(`SELECT email, password, name, phone, role, provider, provider_id FROM users WHERE user_id = ?`,
		gocql.UUID(userID)).WithContext(ctx).
		Scan(&u.Email, &u.Password, &u.Name, &u.Phone, &u.Role, &u.Provider, &u.ProviderID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var userID gocql.UUID
	err = session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&userID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, userID.String())
}

func (s *userStore) UpdateProvider(ctx context.Context, id, provider, providerID string) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	return session.Query(`UPDATE users SET provider = ?, provider_id = ? WHERE user_id = ?`,
		provider, providerID, gocql.UUID(userID)).WithContext(ctx).Exec()
}
