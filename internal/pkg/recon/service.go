package recon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/nhatminh-io/memberhub/app/models"
)

// DefaultAmountTolerance accepts transfers down to 1% below the subscription
// price, covering bank-fee deductions on the sender side.
const DefaultAmountTolerance = 0.01

// Config is injected into the service so tests can supply or omit the shared
// secret deterministically. The core never reads ambient process state.
type Config struct {
	// SharedSecret authenticates webhook signatures. Empty disables
	// verification entirely; that dev-mode escape hatch is logged loudly on
	// every call.
	SharedSecret string

	// RefPrefix is the fixed token prefix for payment references. Defaults to
	// models.PaymentRefPrefix.
	RefPrefix string

	// AmountTolerance is the accepted downward deviation from the price.
	// Defaults to DefaultAmountTolerance.
	AmountTolerance float64
}

// Service matches inbound transfer notifications to pending subscriptions and
// performs the PENDING -> ACTIVE transition exactly once per subscription.
type Service struct {
	repo  Repository
	cfg   Config
	refRe *regexp.Regexp
	now   func() time.Time
}

// NewService creates a reconciliation service from an injected repository and
// configuration.
func NewService(repo Repository, cfg Config) *Service {
	if cfg.RefPrefix == "" {
		cfg.RefPrefix = models.PaymentRefPrefix
	}
	if cfg.AmountTolerance <= 0 {
		cfg.AmountTolerance = DefaultAmountTolerance
	}
	return &Service{
		repo:  repo,
		cfg:   cfg,
		refRe: refPattern(cfg.RefPrefix),
		now:   time.Now,
	}
}

// NewServiceFromDB creates a reconciliation service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, cfg Config) *Service {
	return NewService(NewRepository(db), cfg)
}

// Reconcile authenticates one raw notification body, matches it to a pending
// subscription and commits the activation. Benign mismatches come back as
// Result outcomes with a nil error; only authentication and store failures
// are errors.
func (s *Service) Reconcile(ctx context.Context, rawBody []byte, signatureHeader string) (*Result, error) {
	if s.cfg.SharedSecret == "" {
		// Known weakness, kept deliberately for local development: without a
		// shared secret any sender can post notifications.
		log.Warn("[Recon] WEBHOOK_SHARED_SECRET not configured, accepting unauthenticated notification")
	} else if !VerifySignature(rawBody, signatureHeader, s.cfg.SharedSecret) {
		log.Warnf("[Recon] rejected notification with bad signature (len=%d bytes)", len(rawBody))
		return nil, ErrInvalidSignature
	}

	var notif Notification
	if err := json.Unmarshal(rawBody, &notif); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	ref := extractReference(s.refRe, notif.Content, notif.Description, notif.ReferenceCode)
	if ref == "" {
		log.Debugf("[Recon] no payment reference in notification %d, ignoring", notif.ID)
		return &Result{
			Outcome: OutcomeNoReferenceFound,
			Message: "no payment reference found, no action taken",
		}, nil
	}

	sub, err := s.repo.FindPendingByPaymentRef(ctx, ref)
	if err != nil {
		if isNotFound(err) {
			return &Result{
				Outcome:   OutcomeNoPendingSubscription,
				Reference: ref,
				Message:   "no pending subscription for reference, no action taken",
			}, nil
		}
		return nil, &LookupError{Err: err}
	}

	minAccepted := sub.Price * (1 - s.cfg.AmountTolerance)
	if notif.TransferAmount < minAccepted {
		log.Warnf("[Recon] amount mismatch for %s: received %.0f, price %.0f", ref, notif.TransferAmount, sub.Price)
		return &Result{
			Outcome:        OutcomeAmountMismatch,
			Reference:      ref,
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			Message:        fmt.Sprintf("transfer amount %.0f below accepted minimum %.0f", notif.TransferAmount, minAccepted),
		}, nil
	}

	now := s.now()
	expiresAt := now.AddDate(0, 1, 0) // exactly one calendar month

	activated, err := s.repo.Activate(ctx, Activation{
		SubscriptionID:       sub.ID,
		UserID:               sub.UserID,
		Tier:                 sub.Tier,
		Amount:               notif.TransferAmount,
		GatewayTransactionID: strconv.FormatInt(notif.ID, 10),
		StartsAt:             now,
		ExpiresAt:            expiresAt,
	})
	if err != nil {
		return nil, &PersistError{Err: err}
	}
	if !activated {
		// A concurrent delivery of the same reference won the compare-and-set.
		return &Result{
			Outcome:        OutcomeNoPendingSubscription,
			Reference:      ref,
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			Message:        "subscription already processed, no action taken",
		}, nil
	}

	// Best-effort side step: a badge failure never unwinds the activation.
	if err := s.repo.AwardBadge(ctx, sub.UserID, models.BadgeSlugPremiumMember); err != nil {
		log.Errorf("[Recon] badge award failed for user %d: %v", sub.UserID, err)
	}

	log.Infof("[Recon] activated subscription %d (user %d, tier %s, ref %s)", sub.ID, sub.UserID, sub.Tier, ref)
	return &Result{
		Outcome:        OutcomeSuccess,
		Reference:      ref,
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		Message:        "subscription activated",
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
