package handler

import (
	"errors"
	"io"
	"net/http"
	"razorpay-storefront/internal/dto"
	"razorpay-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if req.Amount.Sign() <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Amount is required"})
	}

	order, err := h.paymentService.CreateProviderOrder(ctx, &req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "order": order})
}

// VerifyPayment distinguishes a forged confirmation (400, reject) from a
// store failure after a genuine one (500, retryable): the payment is already
// captured provider-side, so the latter must never read as a payment failure.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}

	err := h.paymentService.VerifyPayment(ctx, &req)
	if errors.Is(err, service.ErrInvalidSignature) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid signature"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update order status"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Payment verified successfully"})
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID := c.Param("paymentId")

	payment, err := h.paymentService.FetchPayment(ctx, paymentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "payment": payment})
}

// Webhook acknowledges every authenticated delivery with 200 {received:true},
// whatever the business outcome, so Razorpay stops retrying. Only a bad
// signature or an unparseable body gets a 400.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	sig := c.Request().Header.Get("x-razorpay-signature")
	eventID := c.Request().Header.Get("x-razorpay-event-id")

	err = h.paymentService.HandleWebhook(ctx, sig, eventID, body)
	if errors.Is(err, service.ErrInvalidSignature) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid webhook signature"})
	}
	if errors.Is(err, service.ErrMalformedEvent) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed event payload"})
	}
	if err != nil {
		// transient store failure: a non-2xx makes the provider redeliver
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
