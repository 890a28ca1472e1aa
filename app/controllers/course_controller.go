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

// HandleListCourses returns published courses. The listing itself is open to
// every authenticated member; only the content behind a course is tier-gated.
func HandleListCourses(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 25)
	if limit < 1 || limit > 100 {
		limit = 25
	}

	courses, err := repository.GetGlobalRepositories().Course.ListPublished(offset, limit)
	if err != nil {
		log.Errorf("[Courses] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load courses"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"courses": courses})
}

// HandleGetCourse returns course content if the caller's tier grants access.
func HandleGetCourse(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid course id"})
	}

	course, err := repository.GetGlobalRepositories().Course.GetByID(uint(courseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Course not found"})
		}
		log.Errorf("[Courses] lookup failed for course %d: %v", courseID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load course"})
	}

	// Unpublished courses are invisible rather than forbidden.
	if !course.Published {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Course not found"})
	}

	if !tier.HasAccess(tier.Normalize(userCtx.Tier), tier.Normalize(course.RequiredTier)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":         "forbidden",
			"message":       "Your membership tier does not grant access to this course",
			"required_tier": course.RequiredTier,
		})
	}

	if err := points.Add(userCtx.UserID, points.PointsCourseAccess); err != nil {
		log.Warnf("[Courses] failed to credit access points for user %d: %v", userCtx.UserID, err)
	}

	return c.Status(fiber.StatusOK).JSON(course)
}
