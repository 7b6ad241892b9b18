package client

import (
	"errors"
	"fmt"
)

var ErrNotInitialized = errors.New("processor not initialized")

// ProcessorError is a failure reported by a payment processor. Message is safe
// to show to the card holder.
type ProcessorError struct {
	Processor string
	Message   string
	Err       error
}

func (e *ProcessorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Processor, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Processor, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}

func (e *ProcessorError) UserMessage() string {
	return e.Message
}

// TransportError means the order API could not be reached or did not answer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("order api transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) UserMessage() string {
	return "We couldn't reach the order service. Your payment went through; please contact support before paying again."
}

// APIError means the order API answered but did not create the order.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("order api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) UserMessage() string {
	return e.Message
}
