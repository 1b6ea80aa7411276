package store

import (
	"context"

	"github.com/gocql/gocql"

	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/models"
)

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Insert(ctx context.Context, cat *models.Category) error
	Delete(ctx context.Context, id string) error
}

func NewCategoryStore() CategoryStore {
	return &categoryStore{}
}

type categoryStore struct{}

func (s *categoryStore) List(ctx context.Context) ([]models.Category, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT category_id, name, description, image_url, created_at FROM categories`).
		WithContext(ctx).Iter()

	var categories []models.Category
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.ImageURL, &cat.CreatedAt) {
		categories = append(categories, cat)
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *categoryStore) Get(ctx context.Context, id string) (*models.Category, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	categoryID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var cat models.Category
	err = session.Query(`SELECT category_id, name, description, image_url, created_at
		FROM categories WHERE category_id = ?`, categoryID).WithContext(ctx).
		Scan(&cat.ID, &cat.Name, &cat.Description, &cat.ImageURL, &cat.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *categoryStore) Insert(ctx context.Context, cat *models.Category) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO categories (category_id, name, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Description, cat.ImageURL, cat.CreatedAt).WithContext(ctx).Exec()
}

func (s *categoryStore) Delete(ctx context.Context, id string) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	categoryID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}

	return session.Query(`DELETE FROM categories WHERE category_id = ?`, categoryID).
		WithContext(ctx).Exec()
}
