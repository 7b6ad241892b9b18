package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"

	"studymart-checkout/internal/config"
	"studymart-checkout/internal/model"
)

const processorBraintree = "braintree"

// --- INTERFACE ---

type BraintreeClient interface {
	// RequestIntent generates a client token and remembers the amount it was issued for
	RequestIntent(ctx context.Context, amount decimal.Decimal) (*model.PaymentIntent, error)

	// Init binds the next sale to a previously issued client token
	Init(ctx context.Context, clientToken, merchantName string) error

	// Present charges the configured nonce and submits the sale for settlement
	Present(ctx context.Context) error

	PaymentResult() (model.PaymentResult, bool)
}

// --- IMPLEMENTATION ---

type braintreeClientImpl struct {
	gateway *braintree.Braintree
	nonce   string

	mu      sync.Mutex
	issued  map[string]decimal.Decimal
	pending string
	result  *model.PaymentResult
}

// NewBraintreeClient initializes the Braintree SDK gateway
func NewBraintreeClient(cfg *config.Braintree) BraintreeClient {
	env := braintree.Sandbox
	switch {
	case cfg.APIURL != "":
		env = braintree.NewEnvironment(cfg.APIURL)
	case cfg.Environment == "production":
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway: gateway,
		nonce:   cfg.Nonce,
		issued:  make(map[string]decimal.Decimal),
	}
}

// --- METHODS ---

func (c *braintreeClientImpl) RequestIntent(ctx context.Context, amount decimal.Decimal) (*model.PaymentIntent, error) {
	token, err := c.gateway.ClientToken().Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate client token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	c.mu.Lock()
	c.issued[token] = amount
	c.mu.Unlock()

	return &model.PaymentIntent{
		ID:           token,
		ClientSecret: token,
		Amount:       amount,
		Processor:    processorBraintree,
	}, nil
}

func (c *braintreeClientImpl) Init(_ context.Context, clientToken, merchantName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if merchantName == "" {
		delete(c.issued, clientToken)
		return &ProcessorError{Processor: processorBraintree, Message: "Merchant name is not configured."}
	}

	if _, ok := c.issued[clientToken]; !ok {
		return &ProcessorError{
			Processor: processorBraintree,
			Message:   "The payment could not be started.",
			Err:       fmt.Errorf("unknown client token"),
		}
	}
	c.pending = clientToken
	c.result = nil
	return nil
}

func (c *braintreeClientImpl) Present(ctx context.Context) error {
	c.mu.Lock()
	token := c.pending
	amount, ok := c.issued[token]
	delete(c.issued, token)
	c.pending = ""
	c.mu.Unlock()

	if !ok {
		return &ProcessorError{Processor: processorBraintree, Message: "The payment could not be started.", Err: ErrNotInitialized}
	}

	// Braintree expects NewDecimal(unscaled, scale): "50.00" -> NewDecimal(5000, 2)
	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(toCents(amount), 2),
		PaymentMethodNonce: c.nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		// declines come back as validation errors carrying the transaction
		var bte *braintree.BraintreeError
		if !errors.As(err, &bte) || bte.Transaction == nil {
			return &ProcessorError{Processor: processorBraintree, Message: "The payment was not completed.", Err: fmt.Errorf("transaction creation failed: %w", err)}
		}
		tx = bte.Transaction
	}

	switch tx.Status {
	case braintree.TransactionStatusProcessorDeclined, braintree.TransactionStatusGatewayRejected, braintree.TransactionStatusFailed:
		msg := tx.ProcessorResponseText
		if msg == "" {
			msg = "Your card was declined."
		}
		return &ProcessorError{Processor: processorBraintree, Message: msg, Err: fmt.Errorf("transaction %s is %s", tx.Id, tx.Status)}
	}
	if err != nil {
		return &ProcessorError{Processor: processorBraintree, Message: "The payment was not completed.", Err: fmt.Errorf("transaction creation failed: %w", err)}
	}

	c.mu.Lock()
	c.result = &model.PaymentResult{ID: tx.Id, Status: string(tx.Status), Processor: processorBraintree}
	c.mu.Unlock()
	return nil
}

func (c *braintreeClientImpl) PaymentResult() (model.PaymentResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil {
		return model.PaymentResult{}, false
	}
	return *c.result, true
}
