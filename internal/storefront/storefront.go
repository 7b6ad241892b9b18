// Package storefront wires the checkout orchestrator to its collaborators for
// the headless storefront binary.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"studymart-checkout/internal/cart"
	"studymart-checkout/internal/client"
	"studymart-checkout/internal/config"
	"studymart-checkout/internal/model"
	"studymart-checkout/internal/presenter"
	"studymart-checkout/internal/repository"
)

const storeTimeout = 5 * time.Second

// PaymentProcessor issues intents and completes them.
type PaymentProcessor interface {
	RequestIntent(ctx context.Context, amount decimal.Decimal) (*model.PaymentIntent, error)
	Init(ctx context.Context, clientSecret, merchantName string) error
	Present(ctx context.Context) error
	PaymentResult() (model.PaymentResult, bool)
}

func NewProcessor(cfg *config.Config) (PaymentProcessor, error) {
	switch cfg.Checkout.Processor {
	case config.ProcessorStripe:
		return client.NewStripeClient(&cfg.Stripe), nil
	case config.ProcessorBraintree:
		return client.NewBraintreeClient(&cfg.BrainTree), nil
	}
	return nil, fmt.Errorf("unknown checkout processor %q", cfg.Checkout.Processor)
}

// LoadCartFile reads a JSON array of cart items. A missing file is an empty cart.
func LoadCartFile(path string) ([]model.CartItem, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart file %s: %w", path, err)
	}
	return items, nil
}

// FillCart adds items in order and reports the ones already present.
func FillCart(store *cart.Store, items []model.CartItem, p *presenter.OutcomePresenter) int {
	added := 0
	for _, item := range items {
		if !store.Add(item) {
			p.PresentAlreadyInCart(item.DisplayName)
			continue
		}
		added++
	}
	return added
}

// RestoreCart loads the session's saved cart into store and keeps the saved
// copy in sync with every later mutation. The returned func stops syncing.
func RestoreCart(ctx context.Context, store *cart.Store, repo repository.CartRepository, sessionID string, log *zap.Logger) (func(), error) {
	items, err := repo.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return nil, fmt.Errorf("restore cart: %w", err)
	}
	for _, item := range items {
		store.Add(item)
	}
	if len(items) > 0 {
		log.Info("restored saved cart", zap.String("session_id", sessionID), zap.Int("items", len(items)))
	}

	return store.Subscribe(func(snapshot model.CartSnapshot) {
		saveCtx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := repo.Save(saveCtx, sessionID, snapshot); err != nil {
			log.Warn("save cart", zap.String("session_id", sessionID), zap.Error(err))
		}
	}), nil
}

// Preflight checks that orders can be saved before any money moves. It presents
// the reason and returns an error when they cannot.
func Preflight(ctx context.Context, orders client.OrderClient, p *presenter.OutcomePresenter) error {
	_, err := orders.ListOrders(ctx)
	if err == nil {
		return nil
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		p.PresentLoginRequired("Please log in to check out.")
		return fmt.Errorf("order api preflight: %w", err)
	}

	message := "The order service is not accepting orders right now. You have not been charged."
	var te *client.TransportError
	if errors.As(err, &te) {
		message = "We couldn't reach the order service. You have not been charged."
	}
	p.Present(presenter.KindError, "Checkout unavailable", message)
	return fmt.Errorf("order api preflight: %w", err)
}

type historyNavigator struct {
	next   presenter.Navigator
	orders client.OrderClient
	w      io.Writer
	log    *zap.Logger
}

// NewHistoryNavigator prints the user's recent orders when navigating to the
// order history and delegates every route to next.
func NewHistoryNavigator(next presenter.Navigator, orders client.OrderClient, w io.Writer, log *zap.Logger) presenter.Navigator {
	return &historyNavigator{next: next, orders: orders, w: w, log: log}
}

func (n *historyNavigator) Navigate(route presenter.Route) {
	n.next.Navigate(route)
	if route != presenter.RouteOrderHistory {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	orders, err := n.orders.ListOrders(ctx)
	if err != nil {
		n.log.Warn("load order history", zap.Error(err))
		return
	}

	for i, o := range orders {
		if i == 5 {
			break
		}
		paid := "unpaid"
		if o.IsPaid {
			paid = "paid"
		}
		fmt.Fprintf(n.w, "    %s  %s  %d item(s)  %s  %s\n",
			o.CreatedAt.Format("2006-01-02 15:04"), o.ID, len(o.OrderItems), o.TotalPrice.StringFixed(2), paid)
	}
}
