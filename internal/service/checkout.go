package service

import (
	"context"
	"errors"
	"fmt"
	"razorpay-storefront/internal/dto"
	"razorpay-storefront/internal/model"
	"razorpay-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID string) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, userID string) ([]*dto.OrderResponse, error)
	GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponse, error)
}

type checkoutServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCheckoutService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// PlaceOrder snapshots the user's cart into a pending order with immutable
// line items, all in one transaction. The cart itself stays untouched here: it
// is cleared by the pending → paid transition once payment is verified.
func (s *checkoutServiceImpl) PlaceOrder(ctx context.Context, userID string) (*dto.OrderResponse, error) {
	cartItems, err := s.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	productIDs := make([]string, len(cartItems))
	for i, item := range cartItems {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	if len(products) != len(cartItems) {
		return nil, fmt.Errorf("some cart products no longer exist")
	}

	priceByProduct := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		priceByProduct[p.ID] = p.Price
	}

	orderID := uuid.NewString()
	total := decimal.Zero
	orderItems := make([]*model.OrderItem, len(cartItems))
	for i, item := range cartItems {
		unitPrice := priceByProduct[item.ProductID]
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(item.Quantity)))

		orderItems[i] = &model.OrderItem{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		}
	}

	order := &model.Order{
		ID:     orderID,
		UserID: userID,
		Total:  total,
		Status: model.OrderStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toOrderResponse(order, orderItems), nil
}

func (s *checkoutServiceImpl) ListOrders(ctx context.Context, userID string) ([]*dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]*dto.OrderResponse, len(orders))
	for i, order := range orders {
		items, err := s.orderRepo.GetOrderItems(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("get order items: %w", err)
		}
		out[i] = toOrderResponse(order, items)
	}

	return out, nil
}

func (s *checkoutServiceImpl) GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.UserID != userID {
		// someone else's order reads as nonexistent
		return nil, ErrOrderNotFound
	}

	items, err := s.orderRepo.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	return toOrderResponse(order, items), nil
}

func toOrderResponse(order *model.Order, items []*model.OrderItem) *dto.OrderResponse {
	outItems := make([]dto.OrderItemResponse, len(items))
	for i, item := range items {
		outItems[i] = dto.OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &dto.OrderResponse{
		ID:        order.ID,
		Status:    string(order.Status),
		Total:     order.Total,
		PaymentID: order.PaymentID,
		CreatedAt: order.CreatedAt,
		Items:     outItems,
	}
}
