package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/nhatminh-io/memberhub/app/repository"
	"github.com/nhatminh-io/memberhub/internal/pkg/points"
	"github.com/nhatminh-io/memberhub/internal/pkg/tier"
	"github.com/nhatminh-io/memberhub/internal/pkg/usercontext"
)

// HandleListGroups returns community groups with their member counts.
func HandleListGroups(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 25)
	if limit < 1 || limit > 100 {
		limit = 25
	}

	repos := repository.GetGlobalRepositories()
	groups, err := repos.Group.List(offset, limit)
	if err != nil {
		log.Errorf("[Groups] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load groups"})
	}

	items := make([]fiber.Map, 0, len(groups))
	for _, g := range groups {
		count, err := repos.Group.CountMembers(g.ID)
		if err != nil {
			count = 0
		}
		items = append(items, fiber.Map{
			"id":            g.ID,
			"name":          g.Name,
			"description":   g.Description,
			"required_tier": g.RequiredTier,
			"member_count":  count,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"groups": items})
}

// HandleJoinGroup adds the caller to a group if their tier grants access.
// Re-joining is a no-op.
func HandleJoinGroup(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	groupID, err := c.ParamsInt("id")
	if err != nil || groupID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid group id"})
	}

	repos := repository.GetGlobalRepositories()
	group, err := repos.Group.GetByID(uint(groupID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Group not found"})
		}
		log.Errorf("[Groups] lookup failed for group %d: %v", groupID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load group"})
	}

	if !tier.HasAccess(tier.Normalize(userCtx.Tier), tier.Normalize(group.RequiredTier)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":         "forbidden",
			"message":       "Your membership tier does not grant access to this group",
			"required_tier": group.RequiredTier,
		})
	}

	alreadyMember, err := repos.Group.IsMember(group.ID, userCtx.UserID)
	if err != nil {
		log.Errorf("[Groups] membership check failed for group %d user %d: %v", group.ID, userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not join group"})
	}
	if alreadyMember {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Already a member"})
	}

	if err := repos.Group.AddMember(group.ID, userCtx.UserID); err != nil {
		log.Errorf("[Groups] join failed for group %d user %d: %v", group.ID, userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not join group"})
	}

	if err := points.Add(userCtx.UserID, points.PointsGroupJoin); err != nil {
		log.Warnf("[Groups] failed to credit join points for user %d: %v", userCtx.UserID, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Joined group"})
}
