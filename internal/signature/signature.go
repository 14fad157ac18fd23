// Package signature implements HMAC-SHA256 verification for Razorpay payment
// confirmations and webhook deliveries.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Sign computes the lowercase hex HMAC-SHA256 digest of message under secret.
// This is exactly how Razorpay computes the signatures it sends us.
func Sign(message, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks provided against the expected digest of message in constant
// time. The constant-time compare is a correctness requirement, not an
// optimization: this guards forged payment confirmations. Any malformed input
// yields false, same as a mismatch.
func Verify(message, secret []byte, provided string) bool {
	if len(secret) == 0 || provided == "" {
		return false
	}
	expected := Sign(message, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

// ConfirmationMessage builds the message Razorpay signs for a client-side
// checkout confirmation: "{order_id}|{payment_id}". The byte layout must match
// the provider exactly.
func ConfirmationMessage(providerOrderID, providerPaymentID string) []byte {
	return []byte(providerOrderID + "|" + providerPaymentID)
}
