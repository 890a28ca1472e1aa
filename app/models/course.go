package models

import "time"

// Course is tier-gated learning content. Access checks use the same tier gate
// as group joins.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	RequiredTier string    `gorm:"type:varchar(20);not null;default:'free'" json:"required_tier"`
	Published    bool      `gorm:"default:false;index" json:"published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
