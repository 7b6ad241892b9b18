package model

import "github.com/shopspring/decimal"

// CartItem is one purchasable line. Quantity is always one.
type CartItem struct {
	ID           string          `json:"id"`
	DisplayName  string          `json:"displayName"`
	SubjectLabel string          `json:"subjectLabel"`
	SubjectCode  string          `json:"subjectCode"`
	Price        decimal.Decimal `json:"price"`
	ImageRef     string          `json:"imageRef"`
}

// CartSnapshot is a read-only copy of the cart contents in insertion order.
type CartSnapshot struct {
	Items []CartItem `json:"items"`
}

func (s CartSnapshot) Len() int {
	return len(s.Items)
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// Total is the exact sum of the item prices, computed on every call.
func (s CartSnapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Price)
	}
	return total
}

// OrderTotal is Total rounded to cents, the amount charged and submitted with an order.
func (s CartSnapshot) OrderTotal() decimal.Decimal {
	return RoundTotal(s.Total())
}

func RoundTotal(total decimal.Decimal) decimal.Decimal {
	return total.Round(2)
}
