package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"github.com/roobiinpandey/qahwatapp/internal/config"
)

// respondSuccess wraps data in the standard success envelope.
func respondSuccess(ctx *cartridge.Context, data any) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// respondError writes a failure envelope. The underlying error detail is
// included outside production to help local debugging.
func respondError(ctx *cartridge.Context, status int, message string, err error) error {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if err != nil && !config.GetConfig().IsProduction() {
		body["error"] = err.Error()
	}
	return ctx.Status(status).JSON(body)
}

func respondInternalError(ctx *cartridge.Context, message string, err error) error {
	return respondError(ctx, nethttp.StatusInternalServerError, message, err)
}

func respondBadRequest(ctx *cartridge.Context, message string) error {
	return respondError(ctx, nethttp.StatusBadRequest, message, nil)
}
