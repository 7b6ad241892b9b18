package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studymart-checkout/internal/middleware"
	"studymart-checkout/internal/model"
	"studymart-checkout/internal/service"
)

type fakeOrderService struct {
	createErr error
	userID    string
	draft     *model.OrderDraft
	orders    map[string]*model.Order
}

func (f *fakeOrderService) CreateOrder(_ context.Context, userID string, draft *model.OrderDraft) (*model.Order, error) {
	f.userID, f.draft = userID, draft
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Order{ID: "ord-1", UserID: userID, TotalPrice: draft.TotalPrice, IsPaid: draft.IsPaid}, nil
}

func (f *fakeOrderService) GetOrder(_ context.Context, userID, orderID string) (*model.Order, error) {
	if o, ok := f.orders[orderID]; ok && o.UserID == userID {
		return o, nil
	}
	return nil, fmt.Errorf("find order %s: %w", orderID, service.ErrOrderNotFound)
}

func (f *fakeOrderService) ListOrders(_ context.Context, userID string) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserIDKey, "u1")
	return c, rec
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	svc := &fakeOrderService{}
	h := NewOrderHandler(svc)
	c, rec := newContext(http.MethodPost, "/api/orders",
		`{"orderItems":[{"id":"a","price":"12.50","quantity":1}],"totalPrice":"12.50","paymentMethod":"Card","isPaid":true}`)

	require.NoError(t, h.CreateOrder(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"id":"ord-1"`)
	assert.Equal(t, "u1", svc.userID)
	require.Len(t, svc.draft.OrderItems, 1)
	assert.Equal(t, "a", svc.draft.OrderItems[0].ProductID)
}

func TestOrderHandler_CreateOrderErrors(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		h := NewOrderHandler(&fakeOrderService{createErr: fmt.Errorf("%w: order items are required", service.ErrInvalidOrder)})
		c, _ := newContext(http.MethodPost, "/api/orders", `{}`)

		var he *echo.HTTPError
		require.ErrorAs(t, h.CreateOrder(c), &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		assert.Equal(t, "invalid order: order items are required", he.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewOrderHandler(&fakeOrderService{})
		c, _ := newContext(http.MethodPost, "/api/orders", `{"orderItems":`)

		var he *echo.HTTPError
		require.ErrorAs(t, h.CreateOrder(c), &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("storage", func(t *testing.T) {
		h := NewOrderHandler(&fakeOrderService{createErr: assert.AnError})
		c, _ := newContext(http.MethodPost, "/api/orders", `{}`)

		assert.ErrorIs(t, h.CreateOrder(c), assert.AnError)
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	h := NewOrderHandler(&fakeOrderService{orders: map[string]*model.Order{
		"ord-1": {ID: "ord-1", UserID: "u1"},
		"ord-2": {ID: "ord-2", UserID: "u2"},
	}})

	c, rec := newContext(http.MethodGet, "/api/orders/ord-1", "")
	c.SetParamNames("id")
	c.SetParamValues("ord-1")
	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"ord-1"`)

	c, _ = newContext(http.MethodGet, "/api/orders/ord-2", "")
	c.SetParamNames("id")
	c.SetParamValues("ord-2")
	var he *echo.HTTPError
	require.ErrorAs(t, h.GetOrder(c), &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestOrderHandler_ListOrders(t *testing.T) {
	h := NewOrderHandler(&fakeOrderService{orders: map[string]*model.Order{
		"ord-1": {ID: "ord-1", UserID: "u1"},
		"ord-2": {ID: "ord-2", UserID: "u2"},
	}})
	c, rec := newContext(http.MethodGet, "/api/orders", "")

	require.NoError(t, h.ListOrders(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ord-1"`)
	assert.NotContains(t, rec.Body.String(), `"ord-2"`)
}
