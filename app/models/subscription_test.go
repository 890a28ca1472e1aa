package models

import (
	"strings"
	"testing"

	"github.com/nhatminh-io/memberhub/internal/pkg/tier"
)

func TestGeneratePaymentRef(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref, err := GeneratePaymentRef()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(ref, PaymentRefPrefix) {
			t.Fatalf("ref %q missing prefix %q", ref, PaymentRefPrefix)
		}
		if len(ref) != len(PaymentRefPrefix)+paymentRefLength {
			t.Fatalf("ref %q has unexpected length %d", ref, len(ref))
		}
		if ref != strings.ToUpper(ref) {
			t.Fatalf("ref %q is not uppercase", ref)
		}
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate ref generated: %q", ref)
		}
		seen[ref] = struct{}{}
	}
}

func TestNewPendingSubscription(t *testing.T) {
	sub, err := NewPendingSubscription(42, tier.Premium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != SubscriptionStatusPending {
		t.Fatalf("expected pending status, got %q", sub.Status)
	}
	if sub.Price != TierPrices[tier.Premium] {
		t.Fatalf("expected premium price %v, got %v", TierPrices[tier.Premium], sub.Price)
	}
	if sub.StartsAt != nil || sub.ExpiresAt != nil {
		t.Fatalf("pending subscription must not carry period timestamps")
	}

	if _, err := NewPendingSubscription(42, tier.Free); err == nil {
		t.Fatalf("expected error for non-purchasable tier")
	}
}
