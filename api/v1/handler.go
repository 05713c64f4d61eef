package v1

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"github.com/roobiinpandey/qahwatapp/internal/events"
)

const msgEventProcessed = "Event processed"

// TrackEventParams is the public tracking request body.
type TrackEventParams struct {
	UserID    uint             `json:"userId"`
	SessionID string           `json:"sessionId"`
	EventType events.EventType `json:"eventType"`
	Data      events.EventData `json:"data"`
}

// TrackEventPublicAPIHandler ingests one tracking event. Failures are logged
// but never surfaced to the client: trackers must not break the storefront,
// so the endpoint acknowledges every request it can parse or not.
func TrackEventPublicAPIHandler(ctx *cartridge.Context) error {
	ctx.Logger.Debug("Received tracking request",
		slog.String("method", ctx.Method()), slog.String("path", ctx.Path()))

	userAgentHeader := ctx.Get("User-Agent")
	if forwardedUA := ctx.Get("X-Forwarded-User-Agent"); forwardedUA != "" {
		userAgentHeader = forwardedUA
	}

	var params TrackEventParams
	if err := ctx.BodyParser(&params); err != nil {
		ctx.Logger.Error("Failed to parse tracking request", slog.Any("error", err))
		return acknowledge(ctx.Ctx)
	}

	input := &events.TrackEventInput{
		UserID:    params.UserID,
		SessionID: params.SessionID,
		EventType: params.EventType,
		IPAddress: getClientIP(ctx.Ctx),
		UserAgent: userAgentHeader,
		Data:      params.Data,
	}

	if err := events.TrackEvent(ctx.DBManager, ctx.Logger, nil, input); err != nil {
		ctx.Logger.Error("Failed to track event",
			slog.String("eventType", string(params.EventType)),
			slog.Any("error", err))
		return acknowledge(ctx.Ctx)
	}

	ctx.Logger.Debug("Tracked event", slog.String("eventType", string(params.EventType)))
	return acknowledge(ctx.Ctx)
}

func acknowledge(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": msgEventProcessed,
	})
}
