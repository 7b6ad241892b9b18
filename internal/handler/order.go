package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"studymart-checkout/internal/dto"
	"studymart-checkout/internal/middleware"
	"studymart-checkout/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order body")
	}

	order, err := h.orderService.CreateOrder(ctx, middleware.UserID(c), &req)
	if err != nil {
		return orderError(err)
	}

	return c.JSON(http.StatusCreated, dto.OrderResponse{
		Success: true,
		Data:    order,
	})
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListOrders(ctx, middleware.UserID(c))
	if err != nil {
		return orderError(err)
	}

	return c.JSON(http.StatusOK, dto.OrderListResponse{
		Success: true,
		Data:    orders,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrder(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		return orderError(err)
	}

	return c.JSON(http.StatusOK, dto.OrderResponse{
		Success: true,
		Data:    order,
	})
}

func orderError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidOrder):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, service.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "order not found").SetInternal(err)
	}
	return err
}
