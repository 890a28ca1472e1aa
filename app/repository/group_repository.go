package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nhatminh-io/memberhub/app/models"
)

// groupRepository implements the GroupRepository interface
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository instance
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// GetByID retrieves a group by its ID
func (r *groupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns groups with pagination
func (r *groupRepository) List(offset, limit int) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&groups).Error
	return groups, err
}

// AddMember inserts a membership row; joining twice is a no-op.
func (r *groupRepository) AddMember(groupID, userID uint) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "group_id"},
			{Name: "user_id"},
		},
		DoNothing: true,
	}).Create(&models.GroupMember{GroupID: groupID, UserID: userID}).Error
}

// IsMember reports whether the user already belongs to the group
func (r *groupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountMembers returns the number of members in a group
func (r *groupRepository) CountMembers(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}
