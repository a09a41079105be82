package controller

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workmate-bot/internal/dto"
	"workmate-bot/internal/pkg/logger"
)

type fakePublisher struct {
	published []*dto.InboundMessage
}

func (f *fakePublisher) PublishInbound(msg *dto.InboundMessage) error {
	f.published = append(f.published, msg)
	return nil
}

func newWebhookApp(pub *fakePublisher) *fiber.App {
	app := fiber.New()
	NewWebhookController(pub, "secret-token", logger.NewNopLogger()).RegisterRoutes(app.Group("/api"))
	return app
}

func postEvent(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/webhook/v1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.ReadAll(resp.Body)
	return resp.StatusCode
}

func TestWebhook_Verify(t *testing.T) {
	app := newWebhookApp(&fakePublisher{})

	t.Run("correct token echoes the challenge", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/webhook/v1?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "12345", string(body))
	})

	t.Run("wrong token is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/webhook/v1?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestWebhook_Receive_PublishesTextMessages(t *testing.T) {
	pub := &fakePublisher{}
	app := newWebhookApp(pub)

	status := postEvent(t, app, `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "e1",
			"changes": [{
				"field": "messages",
				"value": {
					"contacts": [{"wa_id": "358401234567", "profile": {"name": "Anu", "locale": "fi"}}],
					"messages": [{"from": "358401234567", "id": "m1", "type": "text", "text": {"body": "hei"}}]
				}
			}]
		}]
	}`)

	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "358401234567", pub.published[0].UserID)
	assert.Equal(t, dto.KindText, pub.published[0].Kind)
	assert.Equal(t, "hei", pub.published[0].Text)
	assert.Equal(t, "fi", pub.published[0].PlatformLang)
}

func TestWebhook_Receive_SkipsUnmodeledTypes(t *testing.T) {
	pub := &fakePublisher{}
	app := newWebhookApp(pub)

	// A sticker and a reaction ride along with a text message. The batch
	// must be accepted whole and only the text forwarded.
	status := postEvent(t, app, `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "e1",
			"changes": [{
				"field": "messages",
				"value": {
					"messages": [
						{"from": "u1", "id": "m1", "type": "sticker"},
						{"from": "u1", "id": "m2", "type": "reaction"},
						{"from": "u1", "id": "m3", "type": "text", "text": {"body": "hello"}}
					]
				}
			}]
		}]
	}`)

	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "m3", pub.published[0].EventID)
}

func TestWebhook_Receive_StatusOnlyEventIsAccepted(t *testing.T) {
	pub := &fakePublisher{}
	app := newWebhookApp(pub)

	// Delivery receipts carry no messages array at all.
	status := postEvent(t, app, `{
		"object": "whatsapp_business_account",
		"entry": [{"id": "e1", "changes": [{"field": "messages", "value": {}}]}]
	}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, pub.published)
}
