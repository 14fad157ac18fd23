package repository

import (
	"context"
	"fmt"
	"razorpay-storefront/internal/model"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.CartItem{},
		&model.WebhookEvent{},
	))

	return db
}

func createPendingOrder(t *testing.T, db *gorm.DB, repo OrderRepository, userID string) *model.Order {
	t.Helper()

	order := &model.Order{
		ID:     "order-" + userID,
		UserID: userID,
		Total:  decimal.NewFromInt(500),
		Status: model.OrderStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), db, order))
	return order
}

func TestMarkPaidIfPendingWinsOnce(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewOrderRepository(db)

	order := createPendingOrder(t, db, repo, "user-1")

	fields := &ProviderFields{
		PaymentID:      "pay_rzp1",
		PaymentOrderID: "order_rzp1",
		Signature:      "deadbeef",
	}

	updated, won, err := repo.MarkPaidIfPending(ctx, db, order.ID, fields)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, model.OrderStatusPaid, updated.Status)
	assert.Equal(t, "pay_rzp1", updated.PaymentID)
	assert.Equal(t, "order_rzp1", updated.PaymentOrderID)
	assert.Equal(t, "deadbeef", updated.PaymentSignature)

	// second attempt loses the status guard
	_, won, err = repo.MarkPaidIfPending(ctx, db, order.ID, fields)
	require.NoError(t, err)
	assert.False(t, won)

	// and so does a failed transition on the now-terminal order
	won2, err := repo.MarkFailedIfPending(ctx, db, order.ID)
	require.NoError(t, err)
	assert.False(t, won2)

	final, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, final.Status)
}

func TestMarkPaidIfPendingWithoutProviderFields(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewOrderRepository(db)

	order := createPendingOrder(t, db, repo, "user-1")
	order.PaymentID = "pay_rzp1"
	require.NoError(t, db.Save(order).Error)

	// webhook path passes nil: existing payment id must survive
	updated, won, err := repo.MarkPaidIfPending(ctx, db, order.ID, nil)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, "pay_rzp1", updated.PaymentID)
}

func TestMarkFailedIfPending(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewOrderRepository(db)

	order := createPendingOrder(t, db, repo, "user-1")

	won, err := repo.MarkFailedIfPending(ctx, db, order.ID)
	require.NoError(t, err)
	assert.True(t, won)

	// pending is unreachable from failed
	_, won2, err := repo.MarkPaidIfPending(ctx, db, order.ID, nil)
	require.NoError(t, err)
	assert.False(t, won2)

	final, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusFailed, final.Status)
}

func TestFindByPaymentID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewOrderRepository(db)

	order := createPendingOrder(t, db, repo, "user-1")
	_, _, err := repo.MarkPaidIfPending(ctx, db, order.ID, &ProviderFields{PaymentID: "pay_rzp1"})
	require.NoError(t, err)

	found, err := repo.FindByPaymentID(ctx, "pay_rzp1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByPaymentID(ctx, "pay_unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderItemsBatch(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewOrderRepository(db)

	order := createPendingOrder(t, db, repo, "user-1")

	items := []*model.OrderItem{
		{OrderID: order.ID, ProductID: "ghee_500ml", Quantity: 2, UnitPrice: decimal.NewFromInt(850)},
		{OrderID: order.ID, ProductID: "milk_1l", Quantity: 3, UnitPrice: decimal.NewFromInt(90)},
	}
	require.NoError(t, repo.CreateOrderItems(ctx, db, items))

	got, err := repo.GetOrderItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCartUpsertAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewCartRepository(db)

	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "user-1", ProductID: "milk_1l", Quantity: 1}))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "user-1", ProductID: "milk_1l", Quantity: 2}))

	items, err := repo.ListByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].Quantity)
}

func TestCartClearByUserID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewCartRepository(db)

	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "user-1", ProductID: "milk_1l", Quantity: 1}))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "user-1", ProductID: "ghee_1l", Quantity: 1}))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "user-2", ProductID: "milk_1l", Quantity: 5}))

	require.NoError(t, repo.ClearByUserID(ctx, db, "user-1"))

	mine, err := repo.ListByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	// other users' carts stay put
	theirs, err := repo.ListByUserID(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	// clearing an empty cart is a no-op, not an error
	require.NoError(t, repo.ClearByUserID(ctx, db, "user-1"))
}

func TestWebhookEventDedup(t *testing.T) {
	db := openTestDB(t)
	repo := NewWebhookEventRepository(db)

	seen, err := repo.Exists("evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, repo.MarkProcessed("evt_1", "payment.authorized"))

	seen, err = repo.Exists("evt_1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestProductRepoCRUD(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewProductRepository(db)

	require.NoError(t, repo.Seed(ctx))
	// seeding twice is harmless
	require.NoError(t, repo.Seed(ctx))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	ghee, err := repo.FindByID(ctx, "ghee_500ml")
	require.NoError(t, err)
	assert.True(t, ghee.Price.Equal(decimal.NewFromInt(850)))

	ghee.Price = decimal.NewFromInt(900)
	require.NoError(t, repo.Update(ctx, ghee))

	updated, err := repo.FindByID(ctx, "ghee_500ml")
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(900)))

	require.NoError(t, repo.Delete(ctx, "ghee_500ml"))
	_, err = repo.FindByID(ctx, "ghee_500ml")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "ghee_500ml"), ErrNotFound)
}
