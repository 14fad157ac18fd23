package model

// Razorpay webhook envelope. Only the fields the webhook path reads are
// mapped; the raw body is what gets signature-checked, never a re-serialization
// of this struct.

type WebhookPaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Method           string `json:"method"`
	Email            string `json:"email"`
	Contact          string `json:"contact"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

type WebhookPayment struct {
	Entity WebhookPaymentEntity `json:"entity"`
}

type WebhookPayload struct {
	Payment WebhookPayment `json:"payment"`
}

type WebhookEnvelope struct {
	Entity    string         `json:"entity"`
	AccountID string         `json:"account_id"`
	Event     string         `json:"event"`
	Contains  []string       `json:"contains"`
	Payload   WebhookPayload `json:"payload"`
	CreatedAt int64          `json:"created_at"`
}
