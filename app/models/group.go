package models

import "time"

// Group is a member community space. Joining is gated on RequiredTier.
type Group struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(150);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	RequiredTier string    `gorm:"type:varchar(20);not null;default:'free'" json:"required_tier"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type GroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uint      `gorm:"not null;index:ux_group_members_group_user,unique,priority:1" json:"group_id"`
	UserID   uint      `gorm:"not null;index:ux_group_members_group_user,unique,priority:2" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
