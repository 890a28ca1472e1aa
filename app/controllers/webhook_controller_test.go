package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatminh-io/memberhub/internal/pkg/recon"
)

func newWebhookTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/api/webhooks/sepay", HandleWebhookHealth)
	app.Post("/api/webhooks/sepay", HandleSepayWebhook)
	return app
}

func signWebhookBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHandleWebhookHealth(t *testing.T) {
	app := newWebhookTestApp()

	req := httptest.NewRequest(fiber.MethodGet, "/api/webhooks/sepay", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleSepayWebhook_BadSignatureIsUnauthorized(t *testing.T) {
	t.Setenv("WEBHOOK_SHARED_SECRET", "test-secret")
	app := newWebhookTestApp()

	payload := []byte(`{"id":101,"gateway":"sepay","content":"CHUYEN TIEN AI7F3K9Q2M","transferAmount":199000}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/sepay", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(recon.SignatureHeader, "deadbeef")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
}

func TestHandleSepayWebhook_MissingSignatureIsUnauthorized(t *testing.T) {
	t.Setenv("WEBHOOK_SHARED_SECRET", "test-secret")
	app := newWebhookTestApp()

	payload := []byte(`{"id":102,"gateway":"sepay","content":"CHUYEN TIEN AI7F3K9Q2M","transferAmount":199000}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/sepay", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleSepayWebhook_NoReferenceIsSuccessShaped(t *testing.T) {
	t.Setenv("WEBHOOK_SHARED_SECRET", "test-secret")
	app := newWebhookTestApp()

	// A transfer with no payment reference is a benign no-op: the gateway
	// must see 200 so it does not retry.
	payload := []byte(`{"id":103,"gateway":"sepay","content":"CHUYEN TIEN thang 3","transferAmount":99000}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/sepay", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(recon.SignatureHeader, signWebhookBody(payload, "test-secret"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
}

func TestHandleSepayWebhook_InvalidPayloadIsBadRequest(t *testing.T) {
	t.Setenv("WEBHOOK_SHARED_SECRET", "test-secret")
	app := newWebhookTestApp()

	payload := []byte(`this is not json`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/sepay", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(recon.SignatureHeader, signWebhookBody(payload, "test-secret"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
}

func TestHandleSepayWebhook_NoSecretAcceptsUnsigned(t *testing.T) {
	t.Setenv("WEBHOOK_SHARED_SECRET", "")
	app := newWebhookTestApp()

	payload := []byte(`{"id":104,"gateway":"sepay","content":"CHUYEN TIEN thang 3","transferAmount":99000}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/sepay", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
