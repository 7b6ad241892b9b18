package dto

import "studymart-checkout/internal/model"

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest = model.OrderDraft

type OrderResponse struct {
	Success bool         `json:"success"`
	Data    *model.Order `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}

type OrderListResponse struct {
	Success bool           `json:"success"`
	Data    []*model.Order `json:"data"`
	Message string         `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
