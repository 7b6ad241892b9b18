package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"studymart-checkout/internal/model"
	"studymart-checkout/internal/presenter"
)

// Cart is the part of the cart store the orchestrator may touch.
type Cart interface {
	Snapshot() model.CartSnapshot
	Clear()
}

// IntentProvider returns a fresh payment intent for amount, or nil when none could be issued.
type IntentProvider interface {
	RequestIntent(ctx context.Context, amount decimal.Decimal) (*model.PaymentIntent, error)
}

// Processor is the payment processor capability. Present blocks until the card
// holder completes or cancels the payment.
type Processor interface {
	Init(ctx context.Context, clientSecret, merchantName string) error
	Present(ctx context.Context) error
}

// ResultReporter is implemented by processors that learn the final payment
// record only after Present returns.
type ResultReporter interface {
	PaymentResult() (model.PaymentResult, bool)
}

type OrderGateway interface {
	CreateOrder(ctx context.Context, draft *model.OrderDraft) (*model.Order, error)
}

type Presenter interface {
	Present(kind presenter.Kind, title, message string, actions ...presenter.Action)
}
