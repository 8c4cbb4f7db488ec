package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_UpdateItemRejectsZeroQuantity(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	err := NewCartService(client).UpdateItem(context.Background(), "v1", 0)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Quantity")
	assert.Zero(t, requests)
}

func TestCartService_ApplyDiscountRequiresCode(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	err := NewCartService(client).ApplyDiscount(context.Background(), "")
	require.Error(t, err)
	assert.Zero(t, requests)
}

func TestCartService_AddItemValidatesInput(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	err := NewCartService(client).AddItem(context.Background(), AddCartItemInput{Quantity: 0})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "VariationID")
	assert.Zero(t, requests)
}

func TestCartService_GetDecodesCart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"items": [{"variationId":"v1","name":"Desk","quantity":2,"price":"199.99"}],
			"subtotal": "399.98",
			"total": "399.98"
		}`))
	})

	cart, err := NewCartService(client).Get(context.Background())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "399.98", cart.Total.StringFixed(2))
}
