package models

import "time"

// BadgeSlugPremiumMember is awarded on a member's first successful payment
// reconciliation.
const BadgeSlugPremiumMember = "premium-member"

type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Name        string    `gorm:"type:varchar(150);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge links a user to an earned badge, at most once per badge.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index:ux_user_badges_user_badge,unique,priority:1" json:"user_id"`
	BadgeID  uint      `gorm:"not null;index:ux_user_badges_user_badge,unique,priority:2" json:"badge_id"`
	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`
}
