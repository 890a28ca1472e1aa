package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/nhatminh-io/memberhub/app/models"
	"github.com/nhatminh-io/memberhub/internal/pkg/database"
	"github.com/nhatminh-io/memberhub/internal/pkg/tier"
)

const defaultExpiryBatchSize = 500

// processSubscriptionExpiryJob marks lapsed subscriptions as expired and
// downgrades the matching profiles to free. Both statements are cutoff-based,
// so a rerun after a partial failure converges on the same end state.
func (q *Queue) processSubscriptionExpiryJob(ctx context.Context, job *Job) error {
	payload, err := SubscriptionExpiryJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid expiry payload: %w", err)
	}

	batchSize := payload.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExpiryBatchSize
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	db = db.WithContext(ctx)

	now := time.Now()
	totalExpired := int64(0)

	// Expire in batches so a huge backlog cannot hold row locks for long.
	for {
		res := db.Exec(
			"UPDATE subscriptions SET status = ?, updated_at = ? WHERE status = ? AND expires_at IS NOT NULL AND expires_at < ? LIMIT ?",
			models.SubscriptionStatusExpired, now, models.SubscriptionStatusActive, now, batchSize,
		)
		if res.Error != nil {
			return fmt.Errorf("failed to expire subscriptions: %w", res.Error)
		}
		totalExpired += res.RowsAffected
		if res.RowsAffected < int64(batchSize) {
			break
		}
	}

	// Downgrade profiles whose paid window has passed.
	res := db.Model(&models.User{}).
		Where("subscription_tier <> ? AND subscription_expires_at IS NOT NULL AND subscription_expires_at < ?", string(tier.Free), now).
		Updates(map[string]interface{}{
			"subscription_tier":       string(tier.Free),
			"subscription_expires_at": nil,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to downgrade expired profiles: %w", res.Error)
	}

	if totalExpired > 0 || res.RowsAffected > 0 {
		log.Infof("[JobQueue] Expiry sweep: %d subscriptions expired, %d profiles downgraded", totalExpired, res.RowsAffected)
	}
	return nil
}
