package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/nhatminh-io/memberhub/app/models"
	"github.com/nhatminh-io/memberhub/internal/pkg/database"
)

// processEntitlementAuditJob detects profiles that drifted from their active
// subscription (tier or expiry out of sync) and optionally repairs them. The
// activation path writes subscription and profile in one transaction, so
// drift here means manual DB edits or a bug worth surfacing.
func (q *Queue) processEntitlementAuditJob(ctx context.Context, job *Job) error {
	payload, err := EntitlementAuditJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid audit payload: %w", err)
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	db = db.WithContext(ctx)

	now := time.Now()
	var subs []models.Subscription
	err = db.Where("status = ? AND (expires_at IS NULL OR expires_at >= ?)", models.SubscriptionStatusActive, now).
		Find(&subs).Error
	if err != nil {
		return fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	mismatches := 0
	repaired := 0
	for _, sub := range subs {
		var user models.User
		if err := db.First(&user, sub.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				log.Warnf("[JobQueue] Audit: subscription %d references missing user %d", sub.ID, sub.UserID)
				continue
			}
			return fmt.Errorf("failed to load user %d: %w", sub.UserID, err)
		}

		if user.SubscriptionTier == sub.Tier && timesEqual(user.SubscriptionExpiresAt, sub.ExpiresAt) {
			continue
		}

		mismatches++
		log.Warnf("[JobQueue] Audit: user %d profile (tier=%s, expires=%v) drifted from subscription %d (tier=%s, expires=%v)",
			user.ID, user.SubscriptionTier, user.SubscriptionExpiresAt, sub.ID, sub.Tier, sub.ExpiresAt)

		if !payload.Repair {
			continue
		}

		res := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"subscription_tier":       sub.Tier,
			"subscription_expires_at": sub.ExpiresAt,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to repair user %d: %w", user.ID, res.Error)
		}
		repaired++
	}

	if mismatches > 0 {
		log.Infof("[JobQueue] Entitlement audit: %d mismatches, %d repaired", mismatches, repaired)
	}
	return nil
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
