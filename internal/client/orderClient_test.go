package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studymart-checkout/internal/config"
	"studymart-checkout/internal/model"
)

func newOrderTestClient(t *testing.T, handler http.HandlerFunc) OrderClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOrderClient(&config.Checkout{
		OrderAPIURL:     srv.URL + "/",
		OrderAPIToken:   "token-abc",
		OrderAPITimeout: 5 * time.Second,
	})
}

func testDraft() *model.OrderDraft {
	paidAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &model.OrderDraft{
		OrderItems: []model.OrderItem{{
			ProductID: "a",
			Price:     decimal.RequireFromString("12.50"),
			Quantity:  1,
		}},
		TotalPrice:    decimal.RequireFromString("12.50"),
		PaymentMethod: model.PaymentMethodCard,
		IsPaid:        true,
		PaidAt:        &paidAt,
	}
}

func TestOrderClient_CreateOrder(t *testing.T) {
	var got model.OrderDraft
	c := newOrderTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":"ord-1","user":"u1","totalPrice":"12.5","isPaid":true}}`))
	})

	order, err := c.CreateOrder(context.Background(), testDraft())

	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.True(t, order.IsPaid)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, model.PaymentMethodCard, got.PaymentMethod)
}

func TestOrderClient_CreateOrderRejected(t *testing.T) {
	c := newOrderTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Order items are required"}`))
	})

	_, err := c.CreateOrder(context.Background(), testDraft())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Order items are required", apiErr.UserMessage())
}

func TestOrderClient_CreateOrderUnsuccessfulEnvelope(t *testing.T) {
	c := newOrderTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	})

	_, err := c.CreateOrder(context.Background(), testDraft())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, msgOrderRejected, apiErr.UserMessage())
}

func TestOrderClient_CreateOrderUndecodableBody(t *testing.T) {
	c := newOrderTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.CreateOrder(context.Background(), testDraft())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestOrderClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewOrderClient(&config.Checkout{OrderAPIURL: url, OrderAPITimeout: time.Second})
	_, err := c.CreateOrder(context.Background(), testDraft())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.NotEmpty(t, te.UserMessage())
}

func TestOrderClient_ListOrders(t *testing.T) {
	c := newOrderTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"success":true,"data":[{"id":"ord-2"},{"id":"ord-1"}]}`))
	})

	orders, err := c.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ord-2", orders[0].ID)
}
