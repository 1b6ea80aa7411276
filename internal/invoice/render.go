package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"freshkart_back_end/internal/models"
)

var (
	// ErrInvalidInvoiceInput means a precondition failed before any output
	// stream was opened: nil invoice/order/user or an order with no items.
	ErrInvalidInvoiceInput = errors.New("invalid invoice input")

	// ErrNoValidLineItems means every line item failed the per-item validity
	// check, so there is nothing to lay out.
	ErrNoValidLineItems = errors.New("no valid line items")

	// ErrGenerationTimeout means the bounded render timer fired first.
	ErrGenerationTimeout = errors.New("invoice generation timed out")

	// ErrStreamWrite covers output-stream failures: upload errors, or a
	// stored artifact that fails the existence/non-zero-size check.
	ErrStreamWrite = errors.New("artifact stream write failed")
)

// GenerationTimeout bounds one render, layout and upload included.
const GenerationTimeout = 30 * time.Second

// ArtifactKey is the storage key of an invoice PDF.
func ArtifactKey(invoiceID string) string {
	return "invoice-" + invoiceID + ".pdf"
}

// RenderInput carries everything the layout needs; the order must have its
// line items resolved (name and price populated).
type RenderInput struct {
	Invoice *models.Invoice
	Order   *models.Order
	User    *models.User
	Address *models.ShippingAddress // optional bill-to address
}

// CompanyInfo is the identity block printed in the PDF header and footer.
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
	Phone   string
	UPIVPA  string
}

type Renderer struct {
	Artifacts ArtifactStore
	Timeout   time.Duration
	LogoPath  string
	Company   CompanyInfo
}

// NewRenderer builds a renderer with the company identity taken from the
// environment.
func NewRenderer(artifacts ArtifactStore) *Renderer {
	company := CompanyInfo{
		Name:    os.Getenv("COMPANY_NAME"),
		Address: os.Getenv("COMPANY_ADDRESS"),
		Email:   os.Getenv("COMPANY_EMAIL"),
		Phone:   os.Getenv("COMPANY_PHONE"),
		UPIVPA:  os.Getenv("COMPANY_UPI_VPA"),
	}
	if company.Name == "" {
		company.Name = "FreshKart Groceries"
	}
	if company.Email == "" {
		company.Email = "support@freshkart.in"
	}

	logoPath := os.Getenv("COMPANY_LOGO_PATH")
	if logoPath == "" {
		logoPath = "assets/logo.png"
	}

	return &Renderer{
		Artifacts: artifacts,
		Timeout:   GenerationTimeout,
		LogoPath:  logoPath,
		Company:   company,
	}
}

// itemValid is the per-row validity check: a resolved product name, a
// non-negative price and a positive quantity.
func itemValid(item models.OrderItem) bool {
	return item.Name != "" && item.Price >= 0 && item.Quantity > 0
}

func validInput(in RenderInput) error {
	if in.Invoice == nil || in.Order == nil || in.User == nil {
		return ErrInvalidInvoiceInput
	}
	if len(in.Order.Items) == 0 {
		return ErrInvalidInvoiceInput
	}
	return nil
}

// Render lays out the invoice PDF and stores it under ArtifactKey, returning
// the key. Exactly one of two outcomes is possible: a verified non-empty
// artifact, or an error with any partial artifact discarded.
//
// The render deliberately detaches from the caller's context: once started it
// finishes, times out, or errors on its own 30s budget (an HTTP client
// disconnecting must not abort a checkout's invoice).
func (r *Renderer) Render(_ context.Context, in RenderInput) (string, error) {
	if err := validInput(in); err != nil {
		return "", err
	}

	valid := make([]models.OrderItem, 0, len(in.Order.Items))
	for _, item := range in.Order.Items {
		if itemValid(item) {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return "", ErrNoValidLineItems
	}

	key := ArtifactKey(in.Invoice.ID.String())

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = GenerationTimeout
	}
	genCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		if err := r.layout(&buf, in, valid); err != nil {
			done <- err
			return
		}
		if buf.Len() == 0 {
			done <- ErrStreamWrite
			return
		}
		if err := r.Artifacts.Put(genCtx, key, &buf, int64(buf.Len())); err != nil {
			done <- fmt.Errorf("%w: %v", ErrStreamWrite, err)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			r.discard(key)
			return "", err
		}
	case <-genCtx.Done():
		r.discard(key)
		return "", ErrGenerationTimeout
	}

	// The one designated success check: the artifact must exist and be
	// non-empty before anyone is told the render succeeded.
	size, err := r.Artifacts.Stat(context.Background(), key)
	if err != nil || size == 0 {
		r.discard(key)
		return "", ErrStreamWrite
	}
	return key, nil
}

// discard removes whatever may have landed under the key; best-effort, on a
// fresh context because the generation context may already be dead.
func (r *Renderer) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = r.Artifacts.Remove(ctx, key)
}

// --- layout ---

const (
	pageLeft   = 15.0
	pageRight  = 195.0
	tableWidth = pageRight - pageLeft
	rowHeight  = 8.0
)

func money(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}

func (r *Renderer) layout(buf *bytes.Buffer, in RenderInput, items []models.OrderItem) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	r.drawHeader(pdf)
	r.drawMetaBlocks(pdf, in)
	y := r.drawItemTable(pdf, items)
	r.drawSummary(pdf, in, items, y)
	r.drawFooter(pdf)

	return pdf.Output(buf)
}

func (r *Renderer) drawHeader(pdf *gofpdf.Fpdf) {
	// Logo, or a branded placeholder block when the asset is missing or
	// unreadable; a broken logo never fails the whole render.
	if f, err := os.Open(r.LogoPath); err == nil {
		f.Close()
		pdf.ImageOptions(r.LogoPath, pageLeft, 12, 26, 26, false,
			gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	} else {
		pdf.SetFillColor(76, 175, 80)
		pdf.Rect(pageLeft, 12, 26, 26, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(pageLeft, 21)
		pdf.CellFormat(26, 8, "FK", "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(33, 33, 33)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(46, 14)
	pdf.CellFormat(100, 8, r.Company.Name, "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	if r.Company.Address != "" {
		pdf.SetX(46)
		pdf.CellFormat(100, 5, r.Company.Address, "", 2, "L", false, 0, "")
	}
	contact := r.Company.Email
	if r.Company.Phone != "" {
		contact += "  |  " + r.Company.Phone
	}
	pdf.SetX(46)
	pdf.CellFormat(100, 5, contact, "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(76, 175, 80)
	pdf.SetXY(150, 14)
	pdf.CellFormat(45, 10, "INVOICE", "", 0, "R", false, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pageLeft, 42, pageRight, 42)
}

// drawMetaBlocks prints the bill-to block on the left and the invoice
// metadata on the right, both anchored at the same vertical offset.
func (r *Renderer) drawMetaBlocks(pdf *gofpdf.Fpdf, in RenderInput) {
	const top = 48.0

	// Bill-to (left): each line only when present.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(33, 33, 33)
	pdf.SetXY(pageLeft, top)
	pdf.CellFormat(90, 6, "BILL TO", "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(66, 66, 66)
	billLine := func(s string) {
		if s == "" {
			return
		}
		pdf.SetX(pageLeft)
		pdf.CellFormat(90, 5, s, "", 2, "L", false, 0, "")
	}
	name := in.User.Name
	if in.Address != nil && in.Address.FullName != "" {
		name = in.Address.FullName
	}
	billLine(name)
	billLine(in.User.Email)
	if in.Address != nil {
		billLine(in.Address.AddressLine1)
		billLine(in.Address.AddressLine2)
		cityState := joinNonEmpty(in.Address.City, in.Address.State)
		if in.Address.PinCode != "" {
			cityState = joinNonEmpty(cityState, in.Address.PinCode)
		}
		billLine(cityState)
		billLine(in.Address.Country)
		billLine(in.Address.Phone)
	}

	// Invoice metadata (right).
	meta := [][2]string{
		{"Invoice #", in.Invoice.ID.String()},
		{"Order #", in.Order.ID.String()},
		{"Date", in.Invoice.OrderDate.Format("02 Jan 2006")},
		{"Payment method", in.Invoice.PaymentMethod},
		{"Payment status", in.Invoice.PaymentStatus},
	}
	y := top
	for _, kv := range meta {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.SetXY(108, y)
		pdf.CellFormat(30, 5, kv[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(33, 33, 33)
		pdf.CellFormat(57, 5, kv[1], "", 0, "R", false, 0, "")
		y += 6
	}
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

// drawItemTable renders the line items and returns the y position after the
// last row. Items were validated by the caller; rows alternate a light fill.
func (r *Renderer) drawItemTable(pdf *gofpdf.Fpdf, items []models.OrderItem) float64 {
	const (
		colNo     = 10.0
		colItem   = 85.0
		colQty    = 20.0
		colPrice  = 32.0
		colAmount = 33.0
	)

	y := 92.0
	header := func() {
		pdf.SetFillColor(76, 175, 80)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetXY(pageLeft, y)
		pdf.CellFormat(colNo, rowHeight, "#", "", 0, "C", true, 0, "")
		pdf.CellFormat(colItem, rowHeight, "Item", "", 0, "L", true, 0, "")
		pdf.CellFormat(colQty, rowHeight, "Qty", "", 0, "C", true, 0, "")
		pdf.CellFormat(colPrice, rowHeight, "Unit Price", "", 0, "R", true, 0, "")
		pdf.CellFormat(colAmount, rowHeight, "Amount", "", 0, "R", true, 0, "")
		y += rowHeight
	}
	header()

	pdf.SetFont("Helvetica", "", 10)
	for i, item := range items {
		if y > 260 {
			pdf.AddPage()
			y = 20
			header()
			pdf.SetFont("Helvetica", "", 10)
		}

		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(244, 248, 244)
		}
		pdf.SetTextColor(33, 33, 33)
		pdf.SetXY(pageLeft, y)
		pdf.CellFormat(colNo, rowHeight, fmt.Sprintf("%d", i+1), "", 0, "C", fill, 0, "")
		pdf.CellFormat(colItem, rowHeight, truncate(pdf, item.Name, colItem-3), "", 0, "L", fill, 0, "")
		pdf.CellFormat(colQty, rowHeight, fmt.Sprintf("%d", item.Quantity), "", 0, "C", fill, 0, "")
		pdf.CellFormat(colPrice, rowHeight, money(item.Price), "", 0, "R", fill, 0, "")
		pdf.CellFormat(colAmount, rowHeight, money(item.Price*float64(item.Quantity)), "", 0, "R", fill, 0, "")
		y += rowHeight
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pageLeft, y, pageRight, y)
	return y
}

// truncate shortens s with an ellipsis so it fits in width mm.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func (r *Renderer) drawSummary(pdf *gofpdf.Fpdf, in RenderInput, items []models.OrderItem, y float64) {
	subtotal := Subtotal(items)
	tax := Tax(subtotal)
	shipping := ShippingFee(subtotal)
	// The grand total adds tax only; shipping is displayed but billed
	// separately on delivery.
	total := subtotal + tax

	if y > 230 {
		pdf.AddPage()
		y = 20
	}
	y += 6

	line := func(label, value string, bold bool) {
		font := ""
		if bold {
			font = "B"
		}
		pdf.SetFont("Helvetica", font, 10)
		pdf.SetTextColor(33, 33, 33)
		pdf.SetXY(120, y)
		pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, value, "", 0, "R", false, 0, "")
		y += 6
	}
	line("Subtotal", money(subtotal), false)
	line(fmt.Sprintf("Tax (%.0f%%)", TaxRate*100), money(tax), false)
	if shipping == 0 {
		line("Shipping", "FREE", false)
	} else {
		line("Shipping", money(shipping), false)
	}
	pdf.SetDrawColor(76, 175, 80)
	pdf.Line(120, y+1, pageRight, y+1)
	y += 3
	line("TOTAL", money(total), true)

	// UPI payment QR for unpaid UPI invoices.
	if in.Invoice.PaymentMethod == "upi" && in.Invoice.PaymentStatus == models.InvoiceUnpaid && r.Company.UPIVPA != "" {
		r.drawUPIQR(pdf, in, total, y-27)
	}
}

// drawUPIQR embeds a upi:// deep-link QR; QR problems are as non-fatal as a
// missing logo.
func (r *Renderer) drawUPIQR(pdf *gofpdf.Fpdf, in RenderInput, amount, y float64) {
	q := url.Values{}
	q.Set("pa", r.Company.UPIVPA)
	q.Set("pn", r.Company.Name)
	q.Set("am", fmt.Sprintf("%.2f", amount))
	q.Set("tn", "Order "+in.Order.ID.String())
	q.Set("cu", "INR")

	png, err := qrcode.Encode("upi://pay?"+q.Encode(), qrcode.Medium, 256)
	if err != nil {
		return
	}

	name := "upi-qr-" + in.Invoice.ID.String()
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(name, pageLeft, y, 27, 27, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.SetXY(pageLeft, y+28)
	pdf.CellFormat(27, 4, "Scan to pay (UPI)", "", 0, "C", false, 0, "")
}

func (r *Renderer) drawFooter(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.SetXY(pageLeft, 278)
	pdf.CellFormat(tableWidth, 5, "Thank you for shopping with "+r.Company.Name+"!", "", 2, "C", false, 0, "")
	pdf.SetX(pageLeft)
	pdf.CellFormat(tableWidth, 5, "Questions about this invoice? Write to "+r.Company.Email, "", 0, "C", false, 0, "")
}
