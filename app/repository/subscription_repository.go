package repository

import (
	"gorm.io/gorm"

	"github.com/nhatminh-io/memberhub/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create inserts a new subscription. The unique index on payment_ref rejects
// duplicate references.
func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// GetByID retrieves a subscription by its ID
func (r *subscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByPaymentRef retrieves a subscription by its unique payment reference
func (r *subscriptionRepository) GetByPaymentRef(ref string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("payment_ref = ?", ref).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetPendingByUser returns the user's open pending subscription, if any
func (r *subscriptionRepository) GetPendingByUser(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusPending).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByUser returns all subscriptions of a user, newest first
func (r *subscriptionRepository) ListByUser(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// ListPayments returns the payments recorded against a subscription
func (r *subscriptionRepository) ListPayments(subscriptionID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("subscription_id = ?", subscriptionID).Order("created_at").Find(&payments).Error
	return payments, err
}
