package utils

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUPILink(t *testing.T) {
	t.Setenv("COMPANY_UPI_VPA", "freshkart@upi")
	t.Setenv("COMPANY_NAME", "FreshKart Groceries")

	link, err := UPILink(1249.5, "Order ORD-42")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "upi://pay?"))

	q, err := url.ParseQuery(strings.TrimPrefix(link, "upi://pay?"))
	require.NoError(t, err)
	assert.Equal(t, "freshkart@upi", q.Get("pa"))
	assert.Equal(t, "FreshKart Groceries", q.Get("pn"))
	assert.Equal(t, "1249.50", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "Order ORD-42", q.Get("tn"))
}

func TestUPILinkRequiresVPA(t *testing.T) {
	t.Setenv("COMPANY_UPI_VPA", "")

	_, err := UPILink(100, "x")
	assert.Error(t, err)
}

func TestUPIQRPNG(t *testing.T) {
	t.Setenv("COMPANY_UPI_VPA", "freshkart@upi")

	png, err := UPIQRPNG(250, "Order ORD-7")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))
}
