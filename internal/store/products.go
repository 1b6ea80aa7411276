package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"

	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/models"
)

type ProductStore interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error

	// DecrementStock performs a conditional decrement: it never lets stock go
	// negative, even under concurrent checkouts against the same product.
	DecrementStock(ctx context.Context, id string, qty int, orderID *gocql.UUID, userID string) error
}

func NewProductStore() ProductStore {
	return &productStore{}
}

type productStore struct{}

const productColumns = `product_id, name, description, price, stock, unit, category_id, image_urls, tags, is_active, created_at, updated_at`

func scanProduct(scan func(...interface{}) error) (*models.Product, error) {
	var p models.Product
	err := scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Unit,
		&p.CategoryID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *productStore) Get(ctx context.Context, id string) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	productID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	q := session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID).WithContext(ctx)
	p, err := scanProduct(q.Scan)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *productStore) List(ctx context.Context) ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Unit,
		&p.CategoryID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{} // reset for the next row
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *productStore) ListByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	catUUID, err := gocql.ParseUUID(categoryID)
	if err != nil {
		return nil, ErrNotFound
	}

	// products_by_category is a denormalized lookup table maintained on
	// insert/update; it carries just enough columns for listings.
	iter := session.Query(`SELECT product_id, name, price, stock, unit, image_urls
		FROM products_by_category WHERE category_id = ?`, catUUID).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Unit, &p.ImageURLs) {
		p.CategoryID = catUUID
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *productStore) Insert(ctx context.Context, p *models.Product) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Unit, p.CategoryID,
		p.ImageURLs, p.Tags, p.IsActive, p.CreatedAt, p.UpdatedAt).WithContext(ctx).Exec(); err != nil {
		return err
	}

	// Index into the category lookup table; a failure here degrades category
	// listings but must not block the product creation.
	if err := session.Query(`INSERT INTO products_by_category (category_id, product_id, name, price, stock, unit, image_urls)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.ID, p.Name, p.Price, p.Stock, p.Unit, p.ImageURLs).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ products_by_category indexing error: %v", err)
	}
	return nil
}

func (s *productStore) Update(ctx context.Context, p *models.Product) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	now := time.Now()
	p.UpdatedAt = &now

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, stock = ?, unit = ?,
		category_id = ?, image_urls = ?, tags = ?, is_active = ?, updated_at = ? WHERE product_id = ?`,
		p.Name, p.Description, p.Price, p.Stock, p.Unit, p.CategoryID,
		p.ImageURLs, p.Tags, p.IsActive, p.UpdatedAt, p.ID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO products_by_category (category_id, product_id, name, price, stock, unit, image_urls)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.ID, p.Name, p.Price, p.Stock, p.Unit, p.ImageURLs).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ products_by_category indexing error: %v", err)
	}
	return nil
}

func (s *productStore) Delete(ctx context.Context, id string) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	productID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, productID).WithContext(ctx).Exec(); err != nil {
		return err
	}
	if err := session.Query(`DELETE FROM products_by_category WHERE category_id = ? AND product_id = ?`,
		p.CategoryID, productID).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ products_by_category cleanup error: %v", err)
	}
	return nil
}

// casRetries bounds the compare-and-set loop under contention.
const casRetries = 5

func (s *productStore) DecrementStock(ctx context.Context, id string, qty int, orderID *gocql.UUID, userID string) error {
	if qty <= 0 {
		return fmt.Errorf("invalid quantity %d", qty)
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	productID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		var stock int
		if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, productID).
			WithContext(ctx).Scan(&stock); err != nil {
			if err == gocql.ErrNotFound {
				return ErrNotFound
			}
			return err
		}

		if stock < qty {
			return ErrInsufficientStock
		}

		// Lightweight transaction: the write only lands if stock is still the
		// value we just read, so two concurrent checkouts can never both
		// consume the same units.
		var prev int
		applied, err := session.Query(`UPDATE products SET stock = ? WHERE product_id = ? IF stock = ?`,
			stock-qty, productID, stock).WithContext(ctx).ScanCAS(&prev)
		if err != nil {
			return err
		}
		if applied {
			s.recordMovement(ctx, session, productID, qty, stock, stock-qty, orderID, userID)
			return nil
		}
		// Lost the race; re-read and retry.
	}

	return ErrInsufficientStock
}

// recordMovement appends to the stock movement log, best-effort.
func (s *productStore) recordMovement(ctx context.Context, session *gocql.Session,
	productID gocql.UUID, qty, prev, next int, orderID *gocql.UUID, userID string) {

	movement := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		Type:      "sale",
		Quantity:  qty,
		PrevStock: prev,
		NewStock:  next,
		OrderID:   orderID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := session.Query(`INSERT INTO stock_movements (id, product_id, type, quantity, prev_stock, new_stock, order_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.PrevStock, movement.NewStock, movement.OrderID, movement.UserID,
		movement.CreatedAt).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ stock movement logging error: %v", err)
	}
}
