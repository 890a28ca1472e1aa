package repository

import (
	"gorm.io/gorm"

	"github.com/nhatminh-io/memberhub/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	ListBadges(userID uint) ([]models.Badge, error)
}

// SubscriptionRepository defines the interface for subscription-related
// database operations used outside the reconciliation core.
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(id uint) (*models.Subscription, error)
	GetByPaymentRef(ref string) (*models.Subscription, error)
	GetPendingByUser(userID uint) (*models.Subscription, error)
	ListByUser(userID uint) ([]models.Subscription, error)
	ListPayments(subscriptionID uint) ([]models.Payment, error)
}

// GroupRepository defines the interface for group-related database operations
type GroupRepository interface {
	GetByID(id uint) (*models.Group, error)
	List(offset, limit int) ([]models.Group, error)
	AddMember(groupID, userID uint) error
	IsMember(groupID, userID uint) (bool, error)
	CountMembers(groupID uint) (int64, error)
}

// CourseRepository defines the interface for course-related database operations
type CourseRepository interface {
	GetByID(id uint) (*models.Course, error)
	ListPublished(offset, limit int) ([]models.Course, error)
}

// Repositories bundles all repository implementations
type Repositories struct {
	User         UserRepository
	Subscription SubscriptionRepository
	Group        GroupRepository
	Course       CourseRepository
}

// NewRepositories creates all repositories backed by the given DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Group:        NewGroupRepository(db),
		Course:       NewCourseRepository(db),
	}
}
