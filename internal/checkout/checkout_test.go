package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshkart_back_end/internal/invoice"
	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
)

// --- in-memory fakes ---

type fakeProducts struct {
	byID map[string]*models.Product
}

func (f *fakeProducts) Get(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error)                  { return nil, nil }
func (f *fakeProducts) ListByCategory(context.Context, string) ([]models.Product, error) { return nil, nil }
func (f *fakeProducts) Insert(context.Context, *models.Product) error                   { return nil }
func (f *fakeProducts) Update(context.Context, *models.Product) error                   { return nil }
func (f *fakeProducts) Delete(context.Context, string) error                            { return nil }

func (f *fakeProducts) DecrementStock(_ context.Context, id string, qty int, _ *gocql.UUID, _ string) error {
	p, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Stock < qty {
		return store.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

type fakeCarts struct {
	items   map[string][]models.CartItem
	cleared []string
}

func (f *fakeCarts) Get(_ context.Context, userID string) ([]models.CartItem, error) {
	return f.items[userID], nil
}
func (f *fakeCarts) Save(_ context.Context, userID string, items []models.CartItem) error {
	f.items[userID] = items
	return nil
}
func (f *fakeCarts) Clear(_ context.Context, userID string) error {
	delete(f.items, userID)
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeOrders struct {
	created []*models.Order
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	cp := *o
	f.created = append(f.created, &cp)
	return nil
}
func (f *fakeOrders) Get(_ context.Context, id string) (*models.Order, error) {
	for _, o := range f.created {
		if o.ID.String() == id {
			return o, nil
		}
	}
	return nil, store.ErrNotFound
}
func (f *fakeOrders) ListByUser(context.Context, string) ([]models.Order, error) { return nil, nil }
func (f *fakeOrders) ListAll(context.Context) ([]models.Order, error)            { return nil, nil }
func (f *fakeOrders) AttachInvoice(_ context.Context, orderID string, invoiceID gocql.UUID) error {
	for _, o := range f.created {
		if o.ID.String() == orderID {
			o.InvoiceID = &invoiceID
			return nil
		}
	}
	return store.ErrNotFound
}
func (f *fakeOrders) UpdateStatus(context.Context, string, string, string) error { return nil }

type fakeInvoices struct {
	created      []*models.Invoice
	artifactKeys map[string]string
}

func (f *fakeInvoices) Create(_ context.Context, inv *models.Invoice) error {
	cp := *inv
	f.created = append(f.created, &cp)
	return nil
}
func (f *fakeInvoices) Get(_ context.Context, id string) (*models.Invoice, error) {
	for _, inv := range f.created {
		if inv.ID.String() == id {
			return inv, nil
		}
	}
	return nil, store.ErrNotFound
}
func (f *fakeInvoices) ListByUser(context.Context, string) ([]models.Invoice, error) { return nil, nil }
func (f *fakeInvoices) SetArtifactKey(_ context.Context, id, key string) error {
	if f.artifactKeys == nil {
		f.artifactKeys = make(map[string]string)
	}
	f.artifactKeys[id] = key
	return nil
}
func (f *fakeInvoices) UpdatePaymentStatus(context.Context, string, string) error { return nil }

type fakeUsers struct {
	byID map[string]*models.User
}

func (f *fakeUsers) Create(context.Context, *models.User) error { return nil }
func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}
func (f *fakeUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}
func (f *fakeUsers) UpdateProvider(context.Context, string, string, string) error { return nil }

type fakeAddresses struct {
	byID map[string]*models.ShippingAddress
}

func (f *fakeAddresses) Create(context.Context, *models.ShippingAddress) error { return nil }
func (f *fakeAddresses) Get(_ context.Context, id string) (*models.ShippingAddress, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}
func (f *fakeAddresses) ListByUser(context.Context, string) ([]models.ShippingAddress, error) {
	return nil, nil
}
func (f *fakeAddresses) Update(context.Context, *models.ShippingAddress) error { return nil }
func (f *fakeAddresses) Delete(context.Context, string, string) error          { return nil }

type fakeRenderer struct {
	err    error
	calls  int
	inputs []invoice.RenderInput
}

func (f *fakeRenderer) Render(_ context.Context, in invoice.RenderInput) (string, error) {
	f.calls++
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return "", f.err
	}
	return invoice.ArtifactKey(in.Invoice.ID.String()), nil
}

// --- fixture ---

type fixture struct {
	products *fakeProducts
	carts    *fakeCarts
	orders   *fakeOrders
	invoices *fakeInvoices
	users    *fakeUsers
	renderer *fakeRenderer
	svc      *Service
}

func newFixture() *fixture {
	products := &fakeProducts{byID: map[string]*models.Product{
		"p1": {Name: "Basmati Rice 5kg", Price: 450, Stock: 10},
		"p2": {Name: "Toor Dal 1kg", Price: 120, Stock: 3},
	}}
	carts := &fakeCarts{items: map[string][]models.CartItem{
		"u1": {
			{ProductID: "p1", Name: "Basmati Rice 5kg", Price: 400, Quantity: 2}, // stale cart price
			{ProductID: "p2", Name: "Toor Dal 1kg", Price: 120, Quantity: 1},
		},
	}}
	orders := &fakeOrders{}
	invoices := &fakeInvoices{}
	users := &fakeUsers{byID: map[string]*models.User{
		"u1": {ID: "u1", Name: "Asha Rao", Email: "asha@example.com"},
	}}
	addresses := &fakeAddresses{byID: map[string]*models.ShippingAddress{}}
	renderer := &fakeRenderer{}

	return &fixture{
		products: products,
		carts:    carts,
		orders:   orders,
		invoices: invoices,
		users:    users,
		renderer: renderer,
		svc:      NewService(products, carts, orders, invoices, users, addresses, renderer),
	}
}

// --- tests ---

func TestPlaceOrderHappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.svc.PlaceOrder(ctx, "u1", PlaceOrderInput{})
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	require.NotNil(t, result.Invoice)
	assert.Empty(t, result.Warning)

	// Order snapshot uses the catalog price, not the stale cart price.
	assert.Equal(t, 450.0, result.Order.Items[0].Price)
	assert.Equal(t, 2*450.0+120.0, result.Order.TotalAmount)
	assert.Equal(t, result.Order.TotalAmount, result.Invoice.Amount)

	// Stock consumed.
	assert.Equal(t, 8, f.products.byID["p1"].Stock)
	assert.Equal(t, 2, f.products.byID["p2"].Stock)

	// Order and invoice persisted and linked.
	require.Len(t, f.orders.created, 1)
	require.Len(t, f.invoices.created, 1)
	require.NotNil(t, result.Order.InvoiceID)
	assert.Equal(t, f.invoices.created[0].ID, *result.Order.InvoiceID)

	// Defaults.
	assert.Equal(t, "cod", result.Order.PaymentMode)
	assert.Equal(t, models.PaymentPending, result.Order.PaymentStatus)
	assert.Equal(t, models.OrderProcessing, result.Order.OrderStatus)
	assert.Equal(t, models.InvoiceUnpaid, result.Invoice.PaymentStatus)

	// Artifact key persisted, cart cleared.
	assert.Equal(t, invoice.ArtifactKey(result.Invoice.ID.String()), result.Invoice.ArtifactKey)
	assert.Contains(t, f.carts.cleared, "u1")
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.items = map[string][]models.CartItem{}

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderInput{})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.invoices.created)
}

func TestPlaceOrderInvalidPaymentMode(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderInput{PaymentMode: "barter"})
	assert.ErrorIs(t, err, ErrInvalidPayMode)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture()
	f.carts.items["u1"] = []models.CartItem{
		{ProductID: "p2", Name: "Toor Dal 1kg", Price: 120, Quantity: 5}, // stock is 3
	}

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderInput{})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Toor Dal 1kg", stockErr.ProductName)

	// Validation precedes the decrement: stock is untouched.
	assert.Equal(t, 3, f.products.byID["p2"].Stock)
	assert.Empty(t, f.orders.created)
	assert.Len(t, f.carts.items["u1"], 1, "cart survives a failed checkout")
}

func TestPlaceOrderInsufficientStockMultiLine(t *testing.T) {
	f := newFixture()
	f.carts.items["u1"] = []models.CartItem{
		{ProductID: "p1", Name: "Basmati Rice 5kg", Price: 450, Quantity: 2}, // stock is 10
		{ProductID: "p2", Name: "Toor Dal 1kg", Price: 120, Quantity: 5},     // stock is 3
	}

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderInput{})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Toor Dal 1kg", stockErr.ProductName)

	// A later line failing validation must not leave earlier lines consumed.
	assert.Equal(t, 10, f.products.byID["p1"].Stock)
	assert.Equal(t, 3, f.products.byID["p2"].Stock)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.invoices.created)
}

func TestPlaceOrderProductVanished(t *testing.T) {
	f := newFixture()
	delete(f.products.byID, "p2")

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderInput{})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 10, f.products.byID["p1"].Stock, "surviving line keeps its stock")
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrderRenderFailureIsWarning(t *testing.T) {
	f := newFixture()
	f.renderer.err = errors.New("layout exploded")

	result, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderInput{})
	require.NoError(t, err, "a render failure must not fail the order")
	assert.NotEmpty(t, result.Warning)
	assert.Empty(t, result.Invoice.ArtifactKey)

	// Order and invoice still persisted, cart still cleared.
	assert.Len(t, f.orders.created, 1)
	assert.Len(t, f.invoices.created, 1)
	assert.Contains(t, f.carts.cleared, "u1")
}

func TestPlaceOrderWithAddress(t *testing.T) {
	f := newFixture()
	addrID := gocql.TimeUUID()
	addresses := &fakeAddresses{byID: map[string]*models.ShippingAddress{
		addrID.String(): {ID: addrID, UserID: "u1", FullName: "Asha Rao", PinCode: "560001"},
	}}
	f.svc = NewService(f.products, f.carts, f.orders, f.invoices, f.users, addresses, f.renderer)

	result, err := f.svc.PlaceOrder(context.Background(), "u1",
		PlaceOrderInput{ShippingAddressID: addrID.String(), PaymentMode: "upi"})
	require.NoError(t, err)

	require.NotNil(t, result.Order.AddressID)
	assert.Equal(t, addrID, *result.Order.AddressID)
	assert.Equal(t, "upi", result.Order.PaymentMode)

	// The renderer saw the address.
	require.Len(t, f.renderer.inputs, 1)
	require.NotNil(t, f.renderer.inputs[0].Address)
	assert.Equal(t, "560001", f.renderer.inputs[0].Address.PinCode)
}

func TestPlaceOrderForeignAddressRejected(t *testing.T) {
	f := newFixture()
	addrID := gocql.TimeUUID()
	addresses := &fakeAddresses{byID: map[string]*models.ShippingAddress{
		addrID.String(): {ID: addrID, UserID: "someone-else"},
	}}
	f.svc = NewService(f.products, f.carts, f.orders, f.invoices, f.users, addresses, f.renderer)

	_, err := f.svc.PlaceOrder(context.Background(), "u1",
		PlaceOrderInput{ShippingAddressID: addrID.String()})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.orders.created)

	// Address resolution is part of validation; no stock was consumed.
	assert.Equal(t, 10, f.products.byID["p1"].Stock)
	assert.Equal(t, 3, f.products.byID["p2"].Stock)
}
