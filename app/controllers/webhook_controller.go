package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm/clause"

	"github.com/nhatminh-io/memberhub/app/models"
	"github.com/nhatminh-io/memberhub/internal/pkg/database"
	"github.com/nhatminh-io/memberhub/internal/pkg/env"
	"github.com/nhatminh-io/memberhub/internal/pkg/recon"
)

// HandleSepayWebhook receives bank-transfer notifications from the payment
// gateway and runs one reconciliation attempt. Benign no-ops answer 200 so
// the gateway does not retry-storm; only store failures answer 5xx.
func HandleSepayWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get(recon.SignatureHeader))

	cfg := recon.Config{
		SharedSecret: env.GetEnv("WEBHOOK_SHARED_SECRET", ""),
		RefPrefix:    env.GetEnv("PAYMENT_REF_PREFIX", models.PaymentRefPrefix),
	}
	svc := recon.NewServiceFromDB(database.GetDB(), cfg)

	ctx, cancel := context.WithTimeout(c.UserContext(), 15*time.Second)
	defer cancel()

	result, err := svc.Reconcile(ctx, rawBody, signature)
	// Anything that got past the signature gate verified (or verification
	// was disabled); the HMAC is computed once, inside Reconcile.
	signatureValid := !errors.Is(err, recon.ErrInvalidSignature)
	recordWebhookEvent(rawBody, signatureValid, result, err)

	if err != nil {
		switch {
		case errors.Is(err, recon.ErrInvalidSignature):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "invalid signature"})
		case errors.Is(err, recon.ErrInvalidPayload):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid payload"})
		default:
			var lookupErr *recon.LookupError
			if errors.As(err, &lookupErr) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "store unavailable, retry later"})
			}
			log.Errorf("[Webhook] reconciliation failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "reconciliation failed, retry later"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": result.Message})
}

// HandleWebhookHealth answers the gateway's endpoint probe.
func HandleWebhookHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// recordWebhookEvent persists the raw notification for audit, best-effort.
// The unique (gateway, event id) index collapses redeliveries into one row;
// reconciliation idempotency itself comes from the status compare-and-set,
// never from this table.
func recordWebhookEvent(rawBody []byte, signatureValid bool, result *recon.Result, reconErr error) {
	db := database.GetDB()
	if db == nil {
		return
	}

	var probe struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(rawBody, &probe)

	now := time.Now()
	event := models.WebhookEvent{
		Gateway:        recon.GatewaySepay,
		GatewayEventID: strconv.FormatInt(probe.ID, 10),
		PayloadJSON:    string(rawBody),
		SignatureValid: signatureValid,
		ProcessedAt:    &now,
	}
	if result != nil {
		event.Outcome = string(result.Outcome)
	}
	if reconErr != nil {
		event.ProcessingError = reconErr.Error()
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "gateway"},
			{Name: "gateway_event_id"},
		},
		DoNothing: true,
	}).Create(&event).Error
	if err != nil {
		log.Errorf("[Webhook] failed to record webhook event: %v", err)
	}
}
