package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	stripeclient "github.com/stripe/stripe-go/v80/client"

	"studymart-checkout/internal/checkout"
	"studymart-checkout/internal/config"
	"studymart-checkout/internal/model"
)

const processorStripe = "stripe"

// StripeClient issues PaymentIntents and completes them headlessly by
// confirming with a configured payment method.
type StripeClient interface {
	RequestIntent(ctx context.Context, amount decimal.Decimal) (*model.PaymentIntent, error)
	Init(ctx context.Context, clientSecret, merchantName string) error
	Present(ctx context.Context) error
	PaymentResult() (model.PaymentResult, bool)
}

type stripeClientImpl struct {
	api           *stripeclient.API
	currency      string
	paymentMethod string

	mu       sync.Mutex
	intentID string
	merchant string
	result   *model.PaymentResult
}

func NewStripeClient(cfg *config.Stripe) StripeClient {
	var backends *stripe.Backends
	if cfg.APIURL != "" {
		backends = &stripe.Backends{
			API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
				URL:               stripe.String(cfg.APIURL),
				MaxNetworkRetries: stripe.Int64(0),
			}),
		}
	}

	api := &stripeclient.API{}
	api.Init(cfg.SecretKey, backends)

	return &stripeClientImpl{
		api:           api,
		currency:      strings.ToLower(cfg.Currency),
		paymentMethod: cfg.PaymentMethod,
	}
}

func (c *stripeClientImpl) RequestIntent(ctx context.Context, amount decimal.Decimal) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(toCents(amount)),
		Currency:           stripe.String(c.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	if pi.ClientSecret == "" {
		return nil, nil
	}

	return &model.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Processor:    processorStripe,
	}, nil
}

func (c *stripeClientImpl) Init(ctx context.Context, clientSecret, merchantName string) error {
	if merchantName == "" {
		return &ProcessorError{Processor: processorStripe, Message: "Merchant name is not configured."}
	}

	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return &ProcessorError{Processor: processorStripe, Message: "The payment could not be started.", Err: err}
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return stripeError(err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusRequiresConfirmation:
	default:
		return &ProcessorError{
			Processor: processorStripe,
			Message:   "This payment can no longer be completed.",
			Err:       fmt.Errorf("payment intent %s is %s", pi.ID, pi.Status),
		}
	}

	c.mu.Lock()
	c.intentID = pi.ID
	c.merchant = merchantName
	c.result = nil
	c.mu.Unlock()
	return nil
}

func (c *stripeClientImpl) Present(ctx context.Context) error {
	c.mu.Lock()
	intentID := c.intentID
	c.intentID = ""
	c.mu.Unlock()

	if intentID == "" {
		return &ProcessorError{Processor: processorStripe, Message: "The payment could not be started.", Err: ErrNotInitialized}
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(c.paymentMethod),
	}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		return stripeError(err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		c.mu.Lock()
		c.result = &model.PaymentResult{ID: pi.ID, Status: string(pi.Status), Processor: processorStripe}
		c.mu.Unlock()
		return nil
	case stripe.PaymentIntentStatusCanceled:
		return checkout.ErrProcessorCanceled
	case stripe.PaymentIntentStatusProcessing:
		return &ProcessorError{
			Processor: processorStripe,
			Message:   "Your payment is still processing. Check your order history before paying again.",
			Err:       fmt.Errorf("payment intent %s: %w", pi.ID, checkout.ErrPaymentPending),
		}
	case stripe.PaymentIntentStatusRequiresAction:
		return &ProcessorError{Processor: processorStripe, Message: "Your card requires additional authentication."}
	}

	return &ProcessorError{
		Processor: processorStripe,
		Message:   "The payment was not completed.",
		Err:       fmt.Errorf("payment intent %s is %s", pi.ID, pi.Status),
	}
}

// PaymentResult returns the confirmation of the last successful Present.
func (c *stripeClientImpl) PaymentResult() (model.PaymentResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil {
		return model.PaymentResult{}, false
	}
	return *c.result, true
}

// intentIDFromSecret extracts "pi_123" from a client secret of the form "pi_123_secret_abc".
func intentIDFromSecret(clientSecret string) (string, error) {
	i := strings.Index(clientSecret, "_secret_")
	if i <= 0 {
		return "", fmt.Errorf("malformed client secret")
	}
	return clientSecret[:i], nil
}

func stripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &ProcessorError{Processor: processorStripe, Message: se.Msg, Err: err}
	}
	return &ProcessorError{Processor: processorStripe, Message: "The payment processor is unavailable.", Err: err}
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
