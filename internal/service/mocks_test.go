package service

import (
	"context"
	"fmt"
	"razorpay-storefront/internal/client"
	"razorpay-storefront/internal/model"
	"razorpay-storefront/internal/repository"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an in-memory sqlite handle used only as a transaction
// carrier for services whose repositories are mocked.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *OrderRepoMock) FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	args := m.Called(ctx, paymentID)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string) ([]*model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]*model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]*model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderRepoMock) MarkPaidIfPending(ctx context.Context, tx *gorm.DB, orderID string, provider *repository.ProviderFields) (*model.Order, bool, error) {
	args := m.Called(ctx, tx, orderID, provider)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) MarkFailedIfPending(ctx context.Context, tx *gorm.DB, orderID string) (bool, error) {
	args := m.Called(ctx, tx, orderID)
	return args.Bool(0), args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListByUserID(ctx context.Context, userID string) ([]*model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]*model.CartItem)
	return items, args.Error(1)
}

func (m *CartRepoMock) Upsert(ctx context.Context, item *model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartRepoMock) UpdateQuantity(ctx context.Context, userID, productID string, quantity int64) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *CartRepoMock) Delete(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartRepoMock) ClearByUserID(ctx context.Context, tx *gorm.DB, userID string) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

type WebhookEventRepoMock struct{ mock.Mock }

func (m *WebhookEventRepoMock) Exists(eventID string) (bool, error) {
	args := m.Called(eventID)
	return args.Bool(0), args.Error(1)
}

func (m *WebhookEventRepoMock) MarkProcessed(eventID, eventType string) error {
	args := m.Called(eventID, eventType)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) Seed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ProductRepoMock) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	args := m.Called(ctx, productID)
	product, _ := args.Get(0).(*model.Product)
	return product, args.Error(1)
}

func (m *ProductRepoMock) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	args := m.Called(ctx, productIDs)
	products, _ := args.Get(0).([]*model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) List(ctx context.Context) ([]*model.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]*model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type RazorpayClientMock struct{ mock.Mock }

func (m *RazorpayClientMock) CreateOrder(ctx context.Context, req *client.CreateOrderRequest) (*client.ProviderOrder, error) {
	args := m.Called(ctx, req)
	order, _ := args.Get(0).(*client.ProviderOrder)
	return order, args.Error(1)
}

func (m *RazorpayClientMock) FetchPayment(ctx context.Context, paymentID string) (*client.Payment, error) {
	args := m.Called(ctx, paymentID)
	payment, _ := args.Get(0).(*client.Payment)
	return payment, args.Error(1)
}
