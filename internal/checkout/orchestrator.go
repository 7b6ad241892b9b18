package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"studymart-checkout/internal/metrics"
	"studymart-checkout/internal/model"
	"studymart-checkout/internal/presenter"
)

const DefaultMerchantName = "StudyMart"

type Option func(*Orchestrator)

func WithMerchantName(name string) Option {
	return func(o *Orchestrator) { o.merchantName = name }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithNavigator(n presenter.Navigator) Option {
	return func(o *Orchestrator) { o.navigator = n }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator runs checkout attempts: intent, processor init, processor
// presentation, order persistence. Only one attempt runs at a time.
type transitionListener struct {
	id int
	fn func(Transition)
}

type Orchestrator struct {
	cart      Cart
	intents   IntentProvider
	processor Processor
	orders    OrderGateway
	presenter Presenter
	navigator presenter.Navigator

	merchantName string
	logger       *zap.Logger
	metrics      *metrics.CheckoutMetrics
	now          func() time.Time

	inFlight atomic.Bool

	mu        sync.RWMutex
	state     State
	enteredAt time.Time
	listeners []transitionListener
	nextID    int
}

func NewOrchestrator(
	cart Cart,
	intents IntentProvider,
	processor Processor,
	orders OrderGateway,
	p Presenter,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		cart:         cart,
		intents:      intents,
		processor:    processor,
		orders:       orders,
		presenter:    p,
		merchantName: DefaultMerchantName,
		logger:       zap.NewNop(),
		now:          time.Now,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// InProgress reports whether an attempt is currently running.
func (o *Orchestrator) InProgress() bool {
	return o.inFlight.Load()
}

// Subscribe registers fn for state transitions and returns a func that removes it.
// fn runs on the goroutine driving the checkout and must not block.
func (o *Orchestrator) Subscribe(fn func(Transition)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners = append(o.listeners, transitionListener{id: id, fn: fn})
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		o.listeners = slices.DeleteFunc(o.listeners, func(l transitionListener) bool { return l.id == id })
		o.mu.Unlock()
	}
}

// Checkout runs one attempt to a terminal state. It returns
// ErrCheckoutInProgress without side effects when another attempt is running.
// On success the cart is cleared, then the order history hint is emitted, then
// the outcome is presented.
func (o *Orchestrator) Checkout(ctx context.Context) (Outcome, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		o.metrics.ObserveRejected()
		o.logger.Info("checkout ignored, attempt already in flight")
		return Outcome{}, ErrCheckoutInProgress
	}
	defer func() {
		o.settle()
		o.inFlight.Store(false)
	}()

	outcome := o.run(ctx)

	if outcome.Succeeded() {
		o.metrics.ObserveOutcome("succeeded", "")
		o.cart.Clear()
		if o.navigator != nil {
			o.navigator.Navigate(presenter.RouteOrderHistory)
		}
	} else {
		o.metrics.ObserveOutcome("failed", string(outcome.Kind()))
	}

	kind, title, message, actions := outcome.Notification()
	o.presenter.Present(kind, title, message, actions...)

	return outcome, nil
}

// settle returns the machine to Idle on every exit path. An attempt abandoned
// mid-step by a panicking collaborator is marked Failed first.
func (o *Orchestrator) settle() {
	state := o.State()
	if state == StateIdle {
		return
	}
	if !state.IsTerminal() {
		o.logger.Error("checkout attempt aborted", zap.String("state", state.String()))
		o.metrics.ObserveOutcome("failed", "aborted")
		o.transition(StateFailed, nil)
	}
	o.transition(StateIdle, nil)
}

func (o *Orchestrator) run(ctx context.Context) Outcome {
	o.transition(StateValidatingCart, nil)
	snapshot := o.cart.Snapshot()
	if snapshot.IsEmpty() {
		return o.fail(KindEmptyCart, msgEmptyCart, nil)
	}

	o.transition(StateRequestingIntent, nil)
	amount := snapshot.OrderTotal()
	intent, err := o.intents.RequestIntent(ctx, amount)
	if err != nil || intent == nil || intent.ClientSecret == "" {
		if err == nil {
			err = errors.New("no client secret returned")
		}
		return o.fail(KindIntentUnavailable, msgIntentUnavailable, fmt.Errorf("request payment intent: %w", err))
	}

	o.transition(StateInitializingProcessor, nil)
	if err := o.processor.Init(ctx, intent.ClientSecret, o.merchantName); err != nil {
		return o.fail(KindProcessorInitError, humanMessage(err, msgProcessorFallback), fmt.Errorf("init processor: %w", err))
	}

	o.transition(StatePresentingProcessor, nil)
	if err := o.processor.Present(ctx); err != nil {
		switch {
		case errors.Is(err, ErrProcessorCanceled):
			o.logger.Info("payment canceled by card holder", zap.String("payment_intent_id", intent.ID))
		case errors.Is(err, ErrPaymentPending):
			o.logger.Warn("payment pending at processor, charge may still settle",
				zap.String("payment_intent_id", intent.ID),
				zap.String("processor", intent.Processor),
				zap.String("amount", amount.StringFixed(2)),
			)
		}
		return o.fail(KindProcessorPresentError, humanMessage(err, msgProcessorFallback), fmt.Errorf("present processor: %w", err))
	}

	// The processor has captured the payment. From here on a failure leaves
	// a charge without an order; nothing is refunded automatically.
	o.transition(StatePersistingOrder, nil)
	draft := model.NewPaidDraft(snapshot, intent, o.now())
	if r, ok := o.processor.(ResultReporter); ok {
		if res, ok := r.PaymentResult(); ok {
			res.ClientSecret = intent.ClientSecret
			draft.PaymentResult = res
		}
	}
	order, err := o.orders.CreateOrder(ctx, draft)
	if err != nil {
		o.metrics.ObserveCapturedWithoutOrder()
		o.logger.Error("payment captured without order",
			zap.Bool("captured_without_order", true),
			zap.String("payment_intent_id", intent.ID),
			zap.String("processor", intent.Processor),
			zap.String("amount", amount.StringFixed(2)),
			zap.Int("items", snapshot.Len()),
			zap.Error(err),
		)
		return o.fail(KindOrderPersistError, humanMessage(err, msgOrderFallback), fmt.Errorf("create order: %w", err))
	}

	o.transition(StateSucceeded, nil)
	o.logger.Info("checkout succeeded",
		zap.String("order_id", order.ID),
		zap.String("payment_intent_id", intent.ID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return Outcome{State: StateSucceeded, Order: order}
}

func (o *Orchestrator) fail(kind Kind, message string, err error) Outcome {
	f := &Failure{Kind: kind, Message: message, Err: err}
	o.logger.Warn("checkout failed",
		zap.String("kind", string(kind)),
		zap.String("state", o.State().String()),
		zap.Error(err),
	)
	o.transition(StateFailed, f)
	return Outcome{State: StateFailed, Failure: f}
}

func (o *Orchestrator) transition(to State, failure *Failure) {
	now := o.now()

	o.mu.Lock()
	from := o.state
	if !from.CanTransitionTo(to) {
		o.mu.Unlock()
		// unreachable unless run skips a step
		panic(fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to))
	}
	spent := now.Sub(o.enteredAt)
	o.state = to
	o.enteredAt = now
	listeners := slices.Clone(o.listeners)
	o.mu.Unlock()

	if from != StateIdle {
		o.metrics.ObserveStep(from.String(), spent)
	}
	o.logger.Debug("checkout transition", zap.String("from", from.String()), zap.String("to", to.String()))

	t := Transition{From: from, To: to, Failure: failure, At: now}
	for _, l := range listeners {
		l.fn(t)
	}
}
