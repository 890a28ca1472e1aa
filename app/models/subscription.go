package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/nhatminh-io/memberhub/internal/pkg/tier"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// PaymentRefPrefix distinguishes this system's payment codes from unrelated
// bank transfers. It must match the prefix the reconciliation service scans
// for in transfer memo lines.
const PaymentRefPrefix = "AI"

// paymentRefCharset excludes nothing: bank memo lines are normalized to
// uppercase alphanumerics, so the ref must survive that round trip as-is.
const paymentRefCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const paymentRefLength = 10

// TierPrices maps paid tiers to their monthly price in VND.
var TierPrices = map[tier.Tier]float64{
	tier.Basic:   99000,
	tier.Premium: 199000,
}

// Subscription is a membership order. It is created pending at checkout and
// flipped to active exclusively by the reconciliation service.
type Subscription struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Tier       string     `gorm:"type:varchar(20);not null" json:"tier"`
	Price      float64    `gorm:"not null" json:"price"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentRef string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"payment_ref"`
	StartsAt   *time.Time `gorm:"type:timestamp;default:null" json:"starts_at,omitempty"`
	ExpiresAt  *time.Time `gorm:"type:timestamp;default:null;index" json:"expires_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewPendingSubscription builds a pending subscription for a paid tier with a
// freshly generated payment reference.
func NewPendingSubscription(userID uint, t tier.Tier) (*Subscription, error) {
	price, ok := TierPrices[t]
	if !ok {
		return nil, fmt.Errorf("tier %q is not purchasable", t)
	}

	ref, err := GeneratePaymentRef()
	if err != nil {
		return nil, err
	}

	return &Subscription{
		UserID:     userID,
		Tier:       string(t),
		Price:      price,
		Status:     SubscriptionStatusPending,
		PaymentRef: ref,
	}, nil
}

// GeneratePaymentRef returns a fresh payment reference: the fixed prefix
// followed by random uppercase alphanumerics. Uniqueness is enforced by the
// unique index on subscriptions.payment_ref.
func GeneratePaymentRef() (string, error) {
	b := make([]byte, paymentRefLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = paymentRefCharset[int(b[i])%len(paymentRefCharset)]
	}
	return PaymentRefPrefix + string(b), nil
}

// IsPending reports whether the subscription still awaits payment.
func (s *Subscription) IsPending() bool {
	return s.Status == SubscriptionStatusPending
}
