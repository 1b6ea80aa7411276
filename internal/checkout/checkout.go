package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"

	"freshkart_back_end/internal/invoice"
	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidPayMode  = errors.New("unsupported payment mode")
	ErrProductNotFound = errors.New("product no longer exists")
)

// InsufficientStockError names the product so the storefront can tell the
// customer which line to fix.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q", e.ProductName)
}

// Renderer is the slice of the invoice renderer checkout needs.
type Renderer interface {
	Render(ctx context.Context, in invoice.RenderInput) (string, error)
}

type PlaceOrderInput struct {
	ShippingAddressID string `json:"shipping_address_id"`
	PaymentMode       string `json:"payment_mode"`
}

// PlaceOrderResult is what a successful checkout hands back. Warning is set
// when the order went through but the invoice PDF could not be produced; the
// order itself is never rolled back for a presentation failure.
type PlaceOrderResult struct {
	Order   *models.Order   `json:"order"`
	Invoice *models.Invoice `json:"invoice"`
	Warning string          `json:"warning,omitempty"`
}

type Service struct {
	products  store.ProductStore
	carts     store.CartStore
	orders    store.OrderStore
	invoices  store.InvoiceStore
	users     store.UserStore
	addresses store.AddressStore
	renderer  Renderer
}

func NewService(products store.ProductStore, carts store.CartStore, orders store.OrderStore,
	invoices store.InvoiceStore, users store.UserStore, addresses store.AddressStore,
	renderer Renderer) *Service {

	return &Service{
		products:  products,
		carts:     carts,
		orders:    orders,
		invoices:  invoices,
		users:     users,
		addresses: addresses,
		renderer:  renderer,
	}
}

// PlaceOrder runs the whole checkout: cart load, stock validation and
// decrement, order + invoice creation, PDF render, cart clear.
//
// Validation runs to completion before any stock is touched: every line is
// checked against the live catalog and the shipping address is resolved
// first, so a cart that fails validation leaves all stock values unchanged.
// Stock is then consumed with per-product conditional writes, so concurrent
// checkouts against the same product can never oversell. A CAS loss mid-loop
// is reported as-is; units consumed by earlier lines stay consumed (the
// stock movement log keeps the audit trail).
func (s *Service) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*PlaceOrderResult, error) {
	mode := in.PaymentMode
	if mode == "" {
		mode = "cod"
	}
	if !models.PaymentModes[mode] {
		return nil, ErrInvalidPayMode
	}

	cartItems, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	// Snapshot each line against the live product row. Cart prices are stale
	// by definition: the order records what the catalog says right now.
	type line struct {
		productID string
		name      string
		price     float64
		quantity  int
	}
	lines := make([]line, 0, len(cartItems))
	for _, ci := range cartItems {
		p, err := s.products.Get(ctx, ci.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, ci.ProductID)
			}
			return nil, err
		}
		if p.Stock < ci.Quantity {
			return nil, &InsufficientStockError{ProductName: p.Name}
		}
		lines = append(lines, line{
			productID: ci.ProductID,
			name:      p.Name,
			price:     p.Price,
			quantity:  ci.Quantity,
		})
	}

	var addressID *gocql.UUID
	var address *models.ShippingAddress
	if in.ShippingAddressID != "" {
		a, err := s.addresses.Get(ctx, in.ShippingAddressID)
		if err != nil {
			return nil, err
		}
		if a.UserID != userID {
			return nil, store.ErrNotFound
		}
		address = a
		addressID = &a.ID
	}

	orderID := gocql.TimeUUID()

	// Validation is done; consume stock. Only a lost CAS race can fail from
	// here, and then only the already-decremented lines stay consumed.
	items := make([]models.OrderItem, 0, len(lines))
	total := 0.0
	for _, ln := range lines {
		if err := s.products.DecrementStock(ctx, ln.productID, ln.quantity, &orderID, userID); err != nil {
			if errors.Is(err, store.ErrInsufficientStock) {
				return nil, &InsufficientStockError{ProductName: ln.name}
			}
			return nil, err
		}

		items = append(items, models.OrderItem{
			ProductID: ln.productID,
			Name:      ln.name,
			Price:     ln.price,
			Quantity:  ln.quantity,
		})
		total += ln.price * float64(ln.quantity)
	}

	now := time.Now()
	order := &models.Order{
		ID:            orderID,
		UserID:        userID,
		Items:         items,
		TotalAmount:   total,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.OrderProcessing,
		PaymentMode:   mode,
		AddressID:     addressID,
		CreatedAt:     now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		ID:            gocql.TimeUUID(),
		OrderID:       order.ID,
		UserID:        userID,
		Amount:        total,
		PaymentMethod: mode,
		PaymentStatus: models.InvoiceUnpaid,
		OrderDate:     now,
		CreatedAt:     now,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.orders.AttachInvoice(ctx, order.ID.String(), inv.ID); err != nil {
		log.Printf("⚠️ order %s invoice link error: %v", order.ID, err)
	}
	order.InvoiceID = &inv.ID

	result := &PlaceOrderResult{Order: order, Invoice: inv}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// Without the user row the bill-to block cannot be drawn, but the
		// order is already placed; degrade to a warning like a render failure.
		log.Printf("⚠️ checkout user %s lookup error: %v", userID, err)
		result.Warning = "order placed, invoice PDF generation failed"
	} else if key, err := s.renderer.Render(ctx, invoice.RenderInput{
		Invoice: inv,
		Order:   order,
		User:    user,
		Address: address,
	}); err != nil {
		log.Printf("⚠️ invoice %s render error: %v", inv.ID, err)
		result.Warning = "order placed, invoice PDF generation failed"
	} else {
		inv.ArtifactKey = key
		if err := s.invoices.SetArtifactKey(ctx, inv.ID.String(), key); err != nil {
			log.Printf("⚠️ invoice %s artifact key persist error: %v", inv.ID, err)
		}
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("⚠️ cart clear error for user %s: %v", userID, err)
	}

	return result, nil
}
