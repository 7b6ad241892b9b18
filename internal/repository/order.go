package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"studymart-checkout/internal/model"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []model.OrderItem) error
	FindByID(ctx context.Context, userID, orderID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

// Create inserts the order row only; items are written with CreateOrderItems.
func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return r.conn(tx).WithContext(ctx).Omit("OrderItems").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, userID, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
