package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/nhatminh-io/memberhub/app/repository"
	"github.com/nhatminh-io/memberhub/internal/pkg/usercontext"
)

// HandleGetProfile returns the caller's membership profile: tier, expiry,
// accumulated points, earned badges and subscription history.
func HandleGetProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		log.Errorf("[Profile] user lookup failed for %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load profile"})
	}

	badges, err := repos.User.ListBadges(user.ID)
	if err != nil {
		log.Warnf("[Profile] badge lookup failed for %d: %v", user.ID, err)
	}

	subs, err := repos.Subscription.ListByUser(user.ID)
	if err != nil {
		log.Warnf("[Profile] subscription lookup failed for %d: %v", user.ID, err)
	}

	badgeItems := make([]fiber.Map, 0, len(badges))
	for _, b := range badges {
		badgeItems = append(badgeItems, fiber.Map{
			"slug": b.Slug,
			"name": b.Name,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":                      user.ID,
		"name":                    user.Name,
		"email":                   user.Email,
		"subscription_tier":       user.SubscriptionTier,
		"subscription_expires_at": formatTimePtr(user.SubscriptionExpiresAt),
		"points":                  user.Points,
		"badges":                  badgeItems,
		"subscriptions":           subs,
	})
}
