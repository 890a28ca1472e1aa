package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/nhatminh-io/memberhub/app/models"
	"github.com/nhatminh-io/memberhub/app/repository"
	"github.com/nhatminh-io/memberhub/internal/pkg/tier"
	"github.com/nhatminh-io/memberhub/internal/pkg/usercontext"
)

type checkoutRequest struct {
	Tier string `json:"tier"`
}

// HandleCheckout creates a pending subscription and returns the payment
// reference the member must put in the bank-transfer memo. An existing pending
// subscription is returned again instead of minting a second reference.
func HandleCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	t := tier.Normalize(req.Tier)
	if _, ok := models.TierPrices[t]; !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Tier is not purchasable"})
	}

	repos := repository.GetGlobalRepositories()

	if pending, err := repos.Subscription.GetPendingByUser(userCtx.UserID); err == nil {
		return c.Status(fiber.StatusOK).JSON(checkoutResponse(pending))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorf("[Checkout] pending lookup failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Checkout failed"})
	}

	sub, err := models.NewPendingSubscription(userCtx.UserID, t)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := repos.Subscription.Create(sub); err != nil {
		log.Errorf("[Checkout] failed to create subscription for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Checkout failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(checkoutResponse(sub))
}

func checkoutResponse(sub *models.Subscription) fiber.Map {
	return fiber.Map{
		"subscription_id": sub.ID,
		"tier":            sub.Tier,
		"amount":          sub.Price,
		"payment_ref":     sub.PaymentRef,
		"status":          sub.Status,
		"instructions":    "Transfer the exact amount and include the payment reference in the transfer memo.",
	}
}

// HandleListSubscriptions returns the caller's subscription history.
func HandleListSubscriptions(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	subs, err := repository.GetGlobalRepositories().Subscription.ListByUser(userCtx.UserID)
	if err != nil {
		log.Errorf("[Subscriptions] list failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load subscriptions"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"subscriptions": subs})
}
