package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"razorpay-storefront/internal/client"
	"razorpay-storefront/internal/dto"
	"razorpay-storefront/internal/model"
	"razorpay-storefront/internal/repository"
	"razorpay-storefront/internal/signature"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	CreateProviderOrder(ctx context.Context, req *dto.CreateOrderRequest) (*client.ProviderOrder, error)
	VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) error
	FetchPayment(ctx context.Context, paymentID string) (*client.Payment, error)
	HandleWebhook(ctx context.Context, sig, eventID string, body []byte) error
}

type paymentServiceImpl struct {
	db               *gorm.DB
	razorpayClient   client.RazorpayClient
	orderRepo        repository.OrderRepository
	cartRepo         repository.CartRepository
	webhookEventRepo repository.WebhookEventRepository
	keySecret        []byte
	webhookSecret    []byte
}

func NewPaymentService(
	db *gorm.DB,
	razorpayClient client.RazorpayClient,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	webhookEventRepo repository.WebhookEventRepository,
	keySecret string,
	webhookSecret string,
) PaymentService {
	return &paymentServiceImpl{
		db:               db,
		razorpayClient:   razorpayClient,
		orderRepo:        orderRepo,
		cartRepo:         cartRepo,
		webhookEventRepo: webhookEventRepo,
		keySecret:        []byte(keySecret),
		webhookSecret:    []byte(webhookSecret),
	}
}

// ToMinorUnits converts a major-unit amount to the provider's minor units
// (rupees to paise).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func (s *paymentServiceImpl) CreateProviderOrder(ctx context.Context, req *dto.CreateOrderRequest) (*client.ProviderOrder, error) {
	if req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	order, err := s.razorpayClient.CreateOrder(ctx, &client.CreateOrderRequest{
		Amount:   ToMinorUnits(req.Amount),
		Currency: currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %v", ErrProviderUnavailable, err)
	}

	return order, nil
}

func (s *paymentServiceImpl) FetchPayment(ctx context.Context, paymentID string) (*client.Payment, error) {
	payment, err := s.razorpayClient.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch payment: %v", ErrProviderUnavailable, err)
	}

	return payment, nil
}

// VerifyPayment authenticates a client-posted confirmation and, when it names
// one of our orders, drives the pending → paid transition. Signature
// verification happens before any store read or write. A store failure after a
// valid signature surfaces as an error distinct from ErrInvalidSignature: the
// provider has already captured the payment, so the caller must retry the
// update, not re-collect payment.
func (s *paymentServiceImpl) VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) error {
	msg := signature.ConfirmationMessage(req.RazorpayOrderID, req.RazorpayPaymentID)
	if !signature.Verify(msg, s.keySecret, req.RazorpaySignature) {
		return ErrInvalidSignature
	}

	if req.OrderID == "" {
		// nothing to reconcile locally; the payment itself is genuine
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, won, err := s.orderRepo.MarkPaidIfPending(ctx, tx, req.OrderID, &repository.ProviderFields{
			PaymentID:      req.RazorpayPaymentID,
			PaymentOrderID: req.RazorpayOrderID,
			Signature:      req.RazorpaySignature,
		})
		if err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		if !won {
			// already terminal, or an order id we don't know. The signature
			// checked out either way, so this is an already-applied no-op.
			log.Printf("payment %s: order %s not pending, nothing to apply", req.RazorpayPaymentID, req.OrderID)
			return nil
		}

		if err := s.cartRepo.ClearByUserID(ctx, tx, order.UserID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
}

// HandleWebhook authenticates a Razorpay webhook delivery over the raw body
// and maps the event onto the order state machine. Business outcomes (unknown
// order, already-applied transition, unhandled event) are never errors: the
// provider would retry indefinitely.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, sig, eventID string, body []byte) error {
	if !signature.Verify(body, s.webhookSecret, sig) {
		return ErrInvalidSignature
	}

	var event model.WebhookEnvelope
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if eventID != "" {
		seen, err := s.webhookEventRepo.Exists(eventID)
		if err != nil {
			return fmt.Errorf("check webhook event: %w", err)
		}
		if seen {
			log.Printf("webhook event %s already processed", eventID)
			return nil
		}
	}

	paymentID := event.Payload.Payment.Entity.ID

	switch event.Event {
	case "payment.authorized":
		if err := s.applyPaymentOutcome(ctx, paymentID, model.OrderStatusPaid); err != nil {
			return err
		}
	case "payment.failed":
		if err := s.applyPaymentOutcome(ctx, paymentID, model.OrderStatusFailed); err != nil {
			return err
		}
	default:
		// acknowledged but not acted on
		log.Printf("unhandled razorpay event %q", event.Event)
	}

	if eventID != "" {
		if err := s.webhookEventRepo.MarkProcessed(eventID, event.Event); err != nil {
			return fmt.Errorf("mark webhook event processed: %w", err)
		}
	}

	return nil
}

// applyPaymentOutcome resolves the local order from the provider payment id
// and attempts the corresponding transition. Unknown payments and orders
// already in a terminal state are logged no-ops.
func (s *paymentServiceImpl) applyPaymentOutcome(ctx context.Context, paymentID string, target model.OrderStatus) error {
	if paymentID == "" {
		log.Printf("webhook payment entity missing id, ignoring")
		return nil
	}

	order, err := s.orderRepo.FindByPaymentID(ctx, paymentID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("webhook for unknown payment %s, ignoring", paymentID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find order by payment id: %w", err)
	}

	if order.Status.Terminal() {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch target {
		case model.OrderStatusPaid:
			updated, won, err := s.orderRepo.MarkPaidIfPending(ctx, tx, order.ID, nil)
			if err != nil {
				return fmt.Errorf("mark order paid: %w", err)
			}
			if !won {
				return nil
			}
			if err := s.cartRepo.ClearByUserID(ctx, tx, updated.UserID); err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
		case model.OrderStatusFailed:
			if _, err := s.orderRepo.MarkFailedIfPending(ctx, tx, order.ID); err != nil {
				return fmt.Errorf("mark order failed: %w", err)
			}
		}
		return nil
	})
}
