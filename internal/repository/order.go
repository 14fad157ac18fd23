package repository

import (
	"context"
	"errors"
	"razorpay-storefront/internal/model"
	"time"

	"gorm.io/gorm"
)

// ProviderFields are the Razorpay identifiers recorded on an order when a
// client confirmation is verified. The webhook path passes nil: the payment id
// is already on the order by then and must not be overwritten.
type ProviderFields struct {
	PaymentID      string
	PaymentOrderID string
	Signature      string
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]*model.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error)
	MarkPaidIfPending(ctx context.Context, tx *gorm.DB, orderID string, provider *ProviderFields) (*model.Order, bool, error)
	MarkFailedIfPending(ctx context.Context, tx *gorm.DB, orderID string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindByPaymentID resolves an order from the provider's payment id. The
// webhook path only knows that id, not our order id.
func (r *orderRepoImpl) FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUserID(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// MarkPaidIfPending is the serialization point for concurrent transitions on
// the same order: the status guard in the WHERE clause means exactly one of
// two racing requests flips the row, and the loser sees won == false. When the
// update wins, the refreshed order is returned so the caller can run the
// paid-transition side effects.
func (r *orderRepoImpl) MarkPaidIfPending(ctx context.Context, tx *gorm.DB, orderID string, provider *ProviderFields) (*model.Order, bool, error) {
	updates := map[string]interface{}{
		"status":     model.OrderStatusPaid,
		"updated_at": time.Now(),
	}
	if provider != nil {
		updates["payment_id"] = provider.PaymentID
		updates["payment_order_id"] = provider.PaymentOrderID
		updates["payment_signature"] = provider.Signature
	}

	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(updates)

	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}

	var order model.Order
	if err := tx.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, false, err
	}

	return &order, true, nil
}

func (r *orderRepoImpl) MarkFailedIfPending(ctx context.Context, tx *gorm.DB, orderID string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusFailed,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
