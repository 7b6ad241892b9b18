package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"studymart-checkout/internal/model"
	"studymart-checkout/internal/repository"
)

var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrOrderNotFound = repository.ErrOrderNotFound
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, draft *model.OrderDraft) (*model.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*model.Order, error)
}

type orderServiceImpl struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		db:        db,
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID string, draft *model.OrderDraft) (*model.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidOrder)
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	items := make([]model.OrderItem, len(draft.OrderItems))
	for i, item := range draft.OrderItems {
		item.ID = 0
		item.OrderID = orderID
		item.Quantity = 1
		items[i] = item
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:            orderID,
		UserID:        userID,
		TotalPrice:    draft.TotalPrice,
		PaymentMethod: draft.PaymentMethod,
		IsPaid:        draft.IsPaid,
		PaidAt:        draft.PaidAt,
		PaymentResult: draft.PaymentResult,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.OrderItems = items
	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func validateDraft(draft *model.OrderDraft) error {
	if draft == nil || len(draft.OrderItems) == 0 {
		return fmt.Errorf("%w: order items are required", ErrInvalidOrder)
	}

	sum := decimal.Zero
	for _, item := range draft.OrderItems {
		if item.ProductID == "" {
			return fmt.Errorf("%w: every item needs an id", ErrInvalidOrder)
		}
		if !item.Price.IsPositive() {
			return fmt.Errorf("%w: item %s has a non-positive price", ErrInvalidOrder, item.ProductID)
		}
		sum = sum.Add(item.Price)
	}

	if !draft.TotalPrice.Equal(model.RoundTotal(sum)) {
		return fmt.Errorf("%w: total price %s does not match items (%s)", ErrInvalidOrder, draft.TotalPrice.StringFixed(2), model.RoundTotal(sum).StringFixed(2))
	}
	if draft.PaymentMethod != model.PaymentMethodCard {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidOrder, draft.PaymentMethod)
	}
	if draft.IsPaid && (draft.PaidAt == nil || draft.PaymentResult.ID == "") {
		return fmt.Errorf("%w: paid orders need paidAt and a payment result", ErrInvalidOrder)
	}

	return nil
}
