package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment records a matched bank transfer. Rows are written once by the
// reconciliation service and are immutable afterwards outside of refund
// workflows.
type Payment struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	SubscriptionID       uint      `gorm:"not null;index" json:"subscription_id"`
	UserID               uint      `gorm:"not null;index" json:"user_id"`
	Amount               float64   `gorm:"not null" json:"amount"`
	Status               string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	GatewayTransactionID string    `gorm:"type:varchar(191);not null;index" json:"gateway_transaction_id"`
	PaidAt               time.Time `gorm:"type:timestamp;not null" json:"paid_at"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}
