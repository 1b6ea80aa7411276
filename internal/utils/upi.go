package utils

import (
	"fmt"
	"net/url"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// UPILink builds a upi://pay deep link for the configured merchant VPA.
func UPILink(amount float64, note string) (string, error) {
	vpa := os.Getenv("COMPANY_UPI_VPA")
	if vpa == "" {
		return "", fmt.Errorf("COMPANY_UPI_VPA not configured")
	}
	name := os.Getenv("COMPANY_NAME")
	if name == "" {
		name = "FreshKart Groceries"
	}

	q := url.Values{}
	q.Set("pa", vpa)
	q.Set("pn", name)
	q.Set("am", fmt.Sprintf("%.2f", amount))
	q.Set("tn", note)
	q.Set("cu", "INR")
	return "upi://pay?" + q.Encode(), nil
}

// UPIQRPNG renders the deep link as a PNG QR code.
func UPIQRPNG(amount float64, note string) ([]byte, error) {
	link, err := UPILink(amount, note)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(link, qrcode.Medium, 256)
}
