package checkout

import (
	"time"

	"studymart-checkout/internal/model"
	"studymart-checkout/internal/presenter"
)

// Outcome is the terminal result of one checkout attempt.
type Outcome struct {
	State   State
	Failure *Failure
	Order   *model.Order
}

func (o Outcome) Succeeded() bool {
	return o.State == StateSucceeded
}

// Kind returns the failure kind, or "" on success.
func (o Outcome) Kind() Kind {
	if o.Failure == nil {
		return ""
	}
	return o.Failure.Kind
}

// Notification maps the outcome to what the presentation layer shows.
func (o Outcome) Notification() (presenter.Kind, string, string, []presenter.Action) {
	if o.Succeeded() {
		return presenter.KindSuccess, "Payment successful",
			"Your order is confirmed. You can find it in your order history.",
			[]presenter.Action{presenter.ActionNavigateOrderHistory}
	}

	ack := []presenter.Action{presenter.ActionAcknowledge}
	switch o.Kind() {
	case KindEmptyCart:
		return presenter.KindInfo, "Your cart is empty", o.Failure.Message, ack
	case KindOrderPersistError:
		return presenter.KindError, "Order not saved", o.Failure.Message, ack
	}
	return presenter.KindError, "Payment failed", o.Failure.Message, ack
}

// Transition is published to subscribers on every state change.
type Transition struct {
	From    State
	To      State
	Failure *Failure
	At      time.Time
}
