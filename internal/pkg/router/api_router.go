package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/nhatminh-io/memberhub/app/controllers"
	"github.com/nhatminh-io/memberhub/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// Gateway-facing webhook routes. Authenticated by HMAC signature on the
	// body, not by API key, so they stay outside the v1 group.
	api.Get("/webhooks/sepay", controllers.HandleWebhookHealth)
	api.Post("/webhooks/sepay", controllers.HandleSepayWebhook)

	// Member-facing API v1 routes
	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())
	v1.Get("/user/profile", controllers.HandleGetProfile)

	v1.Post("/subscriptions/checkout", controllers.HandleCheckout)
	v1.Get("/subscriptions", controllers.HandleListSubscriptions)

	v1.Get("/groups", controllers.HandleListGroups)
	v1.Post("/groups/:id/join", controllers.HandleJoinGroup)

	v1.Get("/courses", controllers.HandleListCourses)
	v1.Get("/courses/:id", controllers.HandleGetCourse)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
