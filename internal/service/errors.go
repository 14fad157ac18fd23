package service

import "errors"

var (
	// ErrInvalidSignature means the request failed HMAC verification. It is
	// checked before any store access, so an attacker without the secret can
	// neither probe nor mutate order state.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMalformedEvent means a webhook body passed signature verification but
	// did not parse. The provider should retry with a corrected payload, not
	// be acknowledged.
	ErrMalformedEvent = errors.New("malformed webhook payload")

	// ErrProviderUnavailable wraps failures talking to Razorpay. The triggering
	// client action is safe to retry; no local order state was touched.
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	ErrCartEmpty     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)
