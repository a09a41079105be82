package controller

import (
	"github.com/gofiber/fiber/v2"

	"workmate-bot/internal/dto"
	"workmate-bot/internal/pkg/logger"
	"workmate-bot/internal/pkg/serverutils"
	"workmate-bot/internal/service"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Verify(ctx *fiber.Ctx) error
	Receive(ctx *fiber.Ctx) error
}

type webhookController struct {
	publisher   service.IPublisherService
	verifyToken string
	log         logger.ILogger
}

func NewWebhookController(publisher service.IPublisherService, verifyToken string, log logger.ILogger) IWebhookController {
	return &webhookController{
		publisher:   publisher,
		verifyToken: verifyToken,
		log:         log,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Get("", c.Verify)
	h.Post("", c.Receive)
}

// Verify answers the platform's subscription handshake.
func (c *webhookController) Verify(ctx *fiber.Ctx) error {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	if mode == "subscribe" && token == c.verifyToken && challenge != "" {
		return ctx.SendString(challenge)
	}
	return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse("verification failed"))
}

// Receive parses inbound events and hands each message to the event bus.
// The platform expects a fast 200; processing happens asynchronously.
func (c *webhookController) Receive(ctx *fiber.Ctx) error {
	var event dto.WebhookEvent
	if err := ctx.BodyParser(&event); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed payload")
	}

	if err := serverutils.ValidateRequest(event); err != nil {
		return err
	}

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			locale := ""
			if len(change.Value.Contacts) > 0 {
				locale = change.Value.Contacts[0].Profile.Locale
			}

			for _, m := range change.Value.Messages {
				inbound := dto.InboundMessage{
					EventID:      m.ID,
					UserID:       m.From,
					Kind:         m.Type,
					PlatformLang: locale,
				}
				switch {
				case m.Type == dto.KindText && m.Text != nil:
					inbound.Text = m.Text.Body
				case m.Type == dto.KindImage && m.Image != nil:
					inbound.MediaID = m.Image.ID
				case m.Type == dto.KindDocument && m.Document != nil:
					inbound.MediaID = m.Document.ID
				default:
					// Unmodeled message types are acknowledged and skipped so
					// the platform never retries the batch.
					continue
				}

				if err := c.publisher.PublishInbound(&inbound); err != nil {
					c.log.Error("webhook", "failed to publish inbound message", map[string]interface{}{
						"user": inbound.UserID, "error": err.Error(),
					})
				}
			}
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("received", nil))
}
