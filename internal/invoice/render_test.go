package invoice

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshkart_back_end/internal/models"
)

// memArtifacts is an in-memory ArtifactStore. blockPut makes Put hang until
// the context dies, to exercise the render timeout.
type memArtifacts struct {
	mu       sync.Mutex
	objects  map[string][]byte
	blockPut bool
	putErr   error
}

func newMemArtifacts() *memArtifacts {
	return &memArtifacts{objects: make(map[string][]byte)}
}

func (m *memArtifacts) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	if m.blockPut {
		<-ctx.Done()
		// Linger past the deadline so the caller sees the timeout, not a
		// write error racing it.
		time.Sleep(100 * time.Millisecond)
		return ctx.Err()
	}
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memArtifacts) Stat(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return 0, ErrArtifactNotFound
	}
	return int64(len(data)), nil
}

func (m *memArtifacts) Open(_ context.Context, key string) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, 0, ErrArtifactNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (m *memArtifacts) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memArtifacts) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

func testRenderer(artifacts ArtifactStore) *Renderer {
	return &Renderer{
		Artifacts: artifacts,
		Timeout:   GenerationTimeout,
		LogoPath:  "testdata/no-such-logo.png",
		Company: CompanyInfo{
			Name:    "FreshKart Groceries",
			Address: "12 MG Road, Bengaluru 560001",
			Email:   "support@freshkart.in",
			Phone:   "9876543210",
			UPIVPA:  "freshkart@upi",
		},
	}
}

func testInput() RenderInput {
	orderID := gocql.TimeUUID()
	invoiceID := gocql.TimeUUID()
	return RenderInput{
		Invoice: &models.Invoice{
			ID:            invoiceID,
			OrderID:       orderID,
			UserID:        "u1",
			Amount:        1020,
			PaymentMethod: "cod",
			PaymentStatus: models.InvoiceUnpaid,
			OrderDate:     time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		},
		Order: &models.Order{
			ID:     orderID,
			UserID: "u1",
			Items: []models.OrderItem{
				{ProductID: "p1", Name: "Basmati Rice 5kg", Price: 450, Quantity: 2},
				{ProductID: "p2", Name: "Toor Dal 1kg", Price: 120, Quantity: 1},
			},
			TotalAmount: 1020,
		},
		User: &models.User{ID: "u1", Name: "Asha Rao", Email: "asha@example.com"},
		Address: &models.ShippingAddress{
			FullName:     "Asha Rao",
			Phone:        "9876543210",
			AddressLine1: "Flat 4B, Lakeview Apartments",
			City:         "Bengaluru",
			State:        "Karnataka",
			PinCode:      "560001",
			Country:      "India",
		},
	}
}

func TestRenderProducesNonEmptyArtifact(t *testing.T) {
	artifacts := newMemArtifacts()
	r := testRenderer(artifacts)

	in := testInput()
	key, err := r.Render(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, ArtifactKey(in.Invoice.ID.String()), key)

	data, ok := artifacts.get(key)
	require.True(t, ok)
	assert.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderInvalidInput(t *testing.T) {
	r := testRenderer(newMemArtifacts())

	in := testInput()
	in.Invoice = nil
	_, err := r.Render(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInvoiceInput)

	in = testInput()
	in.User = nil
	_, err = r.Render(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInvoiceInput)

	in = testInput()
	in.Order.Items = nil
	_, err = r.Render(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInvoiceInput)
}

func TestRenderAllItemsInvalid(t *testing.T) {
	artifacts := newMemArtifacts()
	r := testRenderer(artifacts)

	in := testInput()
	in.Order.Items = []models.OrderItem{
		{ProductID: "p1", Name: "", Price: 100, Quantity: 1},
		{ProductID: "p2", Name: "Ghee 500ml", Price: 300, Quantity: 0},
		{ProductID: "p3", Name: "Atta 10kg", Price: -5, Quantity: 2},
	}

	_, err := r.Render(context.Background(), in)
	assert.ErrorIs(t, err, ErrNoValidLineItems)

	_, ok := artifacts.get(ArtifactKey(in.Invoice.ID.String()))
	assert.False(t, ok, "no artifact may exist after a failed render")
}

func TestRenderSkipsInvalidItems(t *testing.T) {
	artifacts := newMemArtifacts()
	r := testRenderer(artifacts)

	in := testInput()
	in.Order.Items = append(in.Order.Items,
		models.OrderItem{ProductID: "p3", Name: "", Price: 10, Quantity: 1})

	key, err := r.Render(context.Background(), in)
	require.NoError(t, err)

	_, ok := artifacts.get(key)
	assert.True(t, ok)
}

func TestRenderTimeout(t *testing.T) {
	artifacts := newMemArtifacts()
	artifacts.blockPut = true

	r := testRenderer(artifacts)
	r.Timeout = 50 * time.Millisecond

	in := testInput()
	_, err := r.Render(context.Background(), in)
	assert.ErrorIs(t, err, ErrGenerationTimeout)

	_, ok := artifacts.get(ArtifactKey(in.Invoice.ID.String()))
	assert.False(t, ok, "partial artifact must be discarded on timeout")
}

func TestRenderUploadFailureDiscards(t *testing.T) {
	artifacts := newMemArtifacts()
	artifacts.putErr = io.ErrClosedPipe

	r := testRenderer(artifacts)

	in := testInput()
	_, err := r.Render(context.Background(), in)
	assert.ErrorIs(t, err, ErrStreamWrite)
}

func TestRenderIgnoresCallerCancellation(t *testing.T) {
	artifacts := newMemArtifacts()
	r := testRenderer(artifacts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already dead; the render must still complete

	in := testInput()
	key, err := r.Render(ctx, in)
	require.NoError(t, err)

	_, ok := artifacts.get(key)
	assert.True(t, ok)
}

func TestRenderIdempotentContent(t *testing.T) {
	artifacts := newMemArtifacts()
	r := testRenderer(artifacts)

	in := testInput()
	key, err := r.Render(context.Background(), in)
	require.NoError(t, err)
	first, _ := artifacts.get(key)

	key2, err := r.Render(context.Background(), in)
	require.NoError(t, err)
	second, _ := artifacts.get(key2)

	assert.Equal(t, key, key2)
	// gofpdf stamps a creation date; everything else must match, so sizes do.
	assert.Equal(t, len(first), len(second))
}
