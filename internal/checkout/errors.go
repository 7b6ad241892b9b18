package checkout

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindEmptyCart             Kind = "EmptyCart"
	KindIntentUnavailable     Kind = "IntentUnavailable"
	KindProcessorInitError    Kind = "ProcessorInitError"
	KindProcessorPresentError Kind = "ProcessorPresentError"
	KindOrderPersistError     Kind = "OrderPersistError"
)

var (
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrProcessorCanceled may be returned by a processor when the card holder
	// dismisses the payment UI. It fails the attempt like any other processor error.
	ErrProcessorCanceled = errors.New("payment canceled")
	// ErrPaymentPending is returned when the processor accepted the payment
	// but has not settled it; the charge may still go through.
	ErrPaymentPending = errors.New("payment still processing")

	ErrIllegalTransition = errors.New("illegal transition of checkout state")
)

const (
	msgEmptyCart         = "Your cart is empty. Add some study materials before checking out."
	msgIntentUnavailable = "We couldn't start the payment. Please try again."
	msgProcessorFallback = "The payment could not be completed. Please try again."
	msgOrderFallback     = "Your payment went through but we couldn't save your order. Please contact support."
)

// Failure is the terminal error of a checkout attempt.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// userMessager is implemented by collaborator errors that carry text meant for the card holder.
type userMessager interface {
	UserMessage() string
}

func humanMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
