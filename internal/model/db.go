package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `gorm:"primaryKey;size:36;not null"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImageURL    string          `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Order struct {
	ID     string          `gorm:"primaryKey;size:36;not null"`
	UserID string          `gorm:"size:64;index;not null"`
	Total  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status OrderStatus     `gorm:"size:16;index;not null"` // pending, paid, failed

	// Razorpay fields, recorded when the payment is verified.
	// Kept for audit, never cleared.
	PaymentID        string `gorm:"size:64;index"`
	PaymentOrderID   string `gorm:"size:64"`
	PaymentSignature string `gorm:"size:128"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → orders.id
	OrderID string `gorm:"size:36;index;not null"`
	// FK → products.id
	ProductID string `gorm:"size:36;index;not null"`
	Quantity  int64  `gorm:"not null"`
	// price snapshot at checkout time, independent of later catalog changes
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
}

type CartItem struct {
	UserID    string `gorm:"primaryKey;size:64;not null"`
	ProductID string `gorm:"primaryKey;size:36;not null"`
	Quantity  int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
