package service

import (
	"context"
	"errors"
	"fmt"
	"razorpay-storefront/internal/dto"
	"razorpay-storefront/internal/model"
	"razorpay-storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*dto.CartResponse, error)
	AddItem(ctx context.Context, userID string, req *dto.CartAddRequest) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int64) error
	RemoveItem(ctx context.Context, userID, productID string) error
}

var ErrProductNotFound = errors.New("product not found")

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	items, err := s.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	out := &dto.CartResponse{
		Items: make([]dto.CartItemResponse, 0, len(items)),
		Total: decimal.Zero,
	}
	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			// product removed from catalog after it was added to the cart
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(item.Quantity))
		out.Items = append(out.Items, dto.CartItemResponse{
			ProductID:   product.ID,
			Name:        product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
			ImageURL:    product.ImageURL,
			Description: product.Description,
		})
		out.Total = out.Total.Add(lineTotal)
	}

	return out, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *dto.CartAddRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("item quantity must be positive")
	}

	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("get product: %w", err)
	}

	return s.cartRepo.Upsert(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID, productID string, quantity int64) error {
	return s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.cartRepo.Delete(ctx, userID, productID)
}
