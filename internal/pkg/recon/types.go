package recon

import (
	"errors"
	"fmt"
)

// GatewaySepay identifies the bank payment gateway posting transfer
// notifications.
const GatewaySepay = "sepay"

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "x-sepay-signature"

// Notification is one inbound bank-transfer event. It lives only for the
// duration of a single reconciliation attempt.
type Notification struct {
	ID              int64   `json:"id"`
	Gateway         string  `json:"gateway"`
	TransactionDate string  `json:"transactionDate"`
	Content         string  `json:"content"`
	Description     string  `json:"description"`
	TransferAmount  float64 `json:"transferAmount"`
	ReferenceCode   string  `json:"referenceCode"`
}

// Outcome classifies a handled reconciliation attempt. All outcomes are
// success-shaped at the HTTP boundary so the gateway's retry policy does not
// hammer benign no-ops.
type Outcome string

const (
	OutcomeSuccess               Outcome = "success"
	OutcomeNoReferenceFound      Outcome = "no_reference_found"
	OutcomeNoPendingSubscription Outcome = "no_pending_subscription"
	OutcomeAmountMismatch        Outcome = "amount_mismatch"
)

// Result describes what a reconciliation attempt did.
type Result struct {
	Outcome        Outcome
	Reference      string
	SubscriptionID uint
	UserID         uint
	Message        string
}

// ErrInvalidSignature rejects a notification whose signature is absent or
// does not match while a shared secret is configured. No state is touched.
var ErrInvalidSignature = errors.New("invalid or missing webhook signature")

// ErrInvalidPayload rejects a body that does not decode as a notification.
var ErrInvalidPayload = errors.New("invalid notification payload")

// LookupError wraps a read-side store failure. The store may be unreachable;
// the sender should retry (503-equivalent).
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("subscription lookup failed: %v", e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// PersistError wraps a write-side store failure during the activation commit.
// The sender should retry; the compare-and-set makes re-attempts safe
// (500-equivalent).
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("activation commit failed: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
