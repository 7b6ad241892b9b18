package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const PaymentMethodCard = "Card"

// PaymentIntent is a processor-issued secret bound to one amount. It lives for one checkout attempt.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       decimal.Decimal
	Processor    string
}

type PaymentResult struct {
	ID           string `gorm:"size:128" json:"id"`
	Status       string `gorm:"size:32" json:"status"`
	ClientSecret string `gorm:"size:255" json:"clientSecret"`
	Processor    string `gorm:"size:32" json:"processor"`
}

// OrderDraft is an order assembled locally and not yet persisted.
type OrderDraft struct {
	OrderItems    []OrderItem     `json:"orderItems"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentMethod string          `json:"paymentMethod"`
	IsPaid        bool            `json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	PaymentResult PaymentResult   `json:"paymentResult"`
}

// NewPaidDraft builds the draft submitted after the processor confirmed the payment.
func NewPaidDraft(snapshot CartSnapshot, intent *PaymentIntent, paidAt time.Time) *OrderDraft {
	items := make([]OrderItem, len(snapshot.Items))
	for i, item := range snapshot.Items {
		items[i] = NewOrderItem(item)
	}

	return &OrderDraft{
		OrderItems:    items,
		TotalPrice:    snapshot.OrderTotal(),
		PaymentMethod: PaymentMethodCard,
		IsPaid:        true,
		PaidAt:        &paidAt,
		PaymentResult: PaymentResult{
			ID:           intent.ID,
			Status:       "succeeded",
			ClientSecret: intent.ClientSecret,
			Processor:    intent.Processor,
		},
	}
}

func NewOrderItem(item CartItem) OrderItem {
	return OrderItem{
		ProductID:    item.ID,
		DisplayName:  item.DisplayName,
		SubjectLabel: item.SubjectLabel,
		SubjectCode:  item.SubjectCode,
		Price:        item.Price,
		ImageRef:     item.ImageRef,
		Quantity:     1,
	}
}
