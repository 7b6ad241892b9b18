package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            string          `gorm:"primaryKey;size:64;not null" json:"id"`
	UserID        string          `gorm:"size:64;index;not null" json:"user"`
	OrderItems    []OrderItem     `gorm:"foreignKey:OrderID;references:ID" json:"orderItems"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	PaymentMethod string          `gorm:"size:32;not null" json:"paymentMethod"`
	IsPaid        bool            `gorm:"not null" json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	PaymentResult PaymentResult   `gorm:"embedded;embeddedPrefix:payment_result_" json:"paymentResult"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ID uint `gorm:"primaryKey" json:"-"`
	// FK → order.id
	OrderID      string          `gorm:"size:64;index;not null" json:"-"`
	ProductID    string          `gorm:"size:64;not null" json:"id"`
	DisplayName  string          `gorm:"size:255" json:"displayName"`
	SubjectLabel string          `gorm:"size:128" json:"subjectLabel"`
	SubjectCode  string          `gorm:"size:32" json:"subjectCode"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageRef     string          `gorm:"size:512" json:"imageRef"`
	Quantity     int32           `gorm:"not null" json:"quantity"`
}
