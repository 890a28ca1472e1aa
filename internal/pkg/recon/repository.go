package recon

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nhatminh-io/memberhub/app/models"
)

// Activation carries the writes of a successful reconciliation commit.
type Activation struct {
	SubscriptionID       uint
	UserID               uint
	Tier                 string
	Amount               float64
	GatewayTransactionID string
	StartsAt             time.Time
	ExpiresAt            time.Time
}

// Repository exposes exactly the store operations the reconciliation core
// needs: point read by unique key, compare-and-set activation, idempotent
// badge insert. The core never sees the store's native client type.
type Repository interface {
	// FindPendingByPaymentRef returns the pending subscription holding the
	// given payment reference, or gorm.ErrRecordNotFound.
	FindPendingByPaymentRef(ctx context.Context, paymentRef string) (*models.Subscription, error)

	// Activate commits the PENDING -> ACTIVE transition guarded by a
	// compare-and-set on the subscription status. It returns false with a nil
	// error when the subscription was no longer pending, which is how a
	// concurrent or redelivered notification loses the race.
	Activate(ctx context.Context, a Activation) (bool, error)

	// AwardBadge grants the named badge to the user at most once. A missing
	// badge definition is a no-op.
	AwardBadge(ctx context.Context, userID uint, badgeSlug string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a reconciliation repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindPendingByPaymentRef(ctx context.Context, paymentRef string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("payment_ref = ? AND status = ?", paymentRef, models.SubscriptionStatusPending).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// errNotPending signals inside the transaction that the compare-and-set
// matched zero rows.
var errNotPending = errors.New("subscription no longer pending")

func (r *gormRepository) Activate(ctx context.Context, a Activation) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND status = ?", a.SubscriptionID, models.SubscriptionStatusPending).
			Updates(map[string]interface{}{
				"status":     models.SubscriptionStatusActive,
				"starts_at":  a.StartsAt,
				"expires_at": a.ExpiresAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotPending
		}

		payment := models.Payment{
			SubscriptionID:       a.SubscriptionID,
			UserID:               a.UserID,
			Amount:               a.Amount,
			Status:               models.PaymentStatusCompleted,
			GatewayTransactionID: a.GatewayTransactionID,
			PaidAt:               a.StartsAt,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", a.UserID).
			Updates(map[string]interface{}{
				"subscription_tier":       a.Tier,
				"subscription_expires_at": a.ExpiresAt,
			}).Error
	})
	if errors.Is(err, errNotPending) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *gormRepository) AwardBadge(ctx context.Context, userID uint, badgeSlug string) error {
	var badge models.Badge
	err := r.db.WithContext(ctx).Where("slug = ?", badgeSlug).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Badge catalog entry was never seeded; the award is optional.
		return nil
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "badge_id"},
		},
		DoNothing: true,
	}).Create(&models.UserBadge{UserID: userID, BadgeID: badge.ID}).Error
}
