package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"studymart-checkout/internal/config"
	"studymart-checkout/internal/dto"
	"studymart-checkout/internal/model"
)

const msgOrderRejected = "The order service could not save your order. Your payment went through; please contact support."

type OrderClient interface {
	CreateOrder(ctx context.Context, draft *model.OrderDraft) (*model.Order, error)
	ListOrders(ctx context.Context) ([]*model.Order, error)
}

type orderClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	token      string
}

func NewOrderClient(cfg *config.Checkout) OrderClient {
	return &orderClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.OrderAPITimeout,
		},
		baseApiURL: strings.TrimRight(cfg.OrderAPIURL, "/"),
		token:      cfg.OrderAPIToken,
	}
}

func (c *orderClientImpl) CreateOrder(ctx context.Context, draft *model.OrderDraft) (*model.Order, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("json marshal order draft: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/orders", body)
	if err != nil {
		return nil, err
	}

	var res dto.OrderResponse
	status, err := c.do(req, &res)
	if err != nil {
		return nil, err
	}

	if !res.Success || status >= http.StatusMultipleChoices || res.Data == nil {
		return nil, &APIError{StatusCode: status, Message: messageOr(res.Message, status)}
	}

	return res.Data, nil
}

func (c *orderClientImpl) ListOrders(ctx context.Context) ([]*model.Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/orders", nil)
	if err != nil {
		return nil, err
	}

	var res dto.OrderListResponse
	status, err := c.do(req, &res)
	if err != nil {
		return nil, err
	}

	if !res.Success || status >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: status, Message: messageOr(res.Message, status)}
	}

	return res.Data, nil
}

func (c *orderClientImpl) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

// do sends req and decodes the envelope into out. A missing response is a
// TransportError; an undecodable one is an APIError.
func (c *orderClientImpl) do(req *http.Request, out any) (int, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransportError{Err: fmt.Errorf("%s %s after %s: %w", req.Method, req.URL.Path, time.Since(start).Round(time.Millisecond), err)}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: msgOrderRejected}
	}

	return resp.StatusCode, nil
}

func messageOr(message string, status int) string {
	if message != "" {
		return message
	}
	if text := http.StatusText(status); text != "" && status >= http.StatusBadRequest {
		return text
	}
	return msgOrderRejected
}
