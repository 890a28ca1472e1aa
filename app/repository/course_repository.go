package repository

import (
	"gorm.io/gorm"

	"github.com/nhatminh-io/memberhub/app/models"
)

// courseRepository implements the CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository instance
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListPublished returns published courses with pagination
func (r *courseRepository) ListPublished(offset, limit int) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Where("published = ?", true).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}
