package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_VerifyEmail(t *testing.T) {
	subject, html, err := Render(VerifyEmail, map[string]any{
		"firstName": "Jane",
		"verifyUrl": "https://shop.example.com/verify-email/tok123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Verify your email address", subject)
	assert.Contains(t, html, "Hi Jane")
	assert.Contains(t, html, "https://shop.example.com/verify-email/tok123")
}

func TestRender_OrderConfirmation(t *testing.T) {
	subject, html, err := Render(OrderConfirmation, map[string]any{
		"firstName": "Jane",
		"orderId":   "o-42",
		"items": []map[string]any{
			{"name": "Wireless Earbuds", "quantity": 1, "price": 59.99},
		},
		"subtotal": 59.99,
		"tax":      4.80,
		"shipping": 0.0,
		"total":    64.79,
	})
	require.NoError(t, err)
	assert.Equal(t, "Your order confirmation", subject)
	assert.Contains(t, html, "o-42")
	assert.Contains(t, html, "Wireless Earbuds")
	assert.Contains(t, html, "$64.79")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, err := Render("marketing_blast", nil)
	assert.Error(t, err)
}
