package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// emitEvent publishes after the response is decided, a failure never fails
// the request.
func emitEvent(c *fiber.Ctx, actor uint, eventType, resource string, data any) {
	if err := services.AddEvent(c.UserContext(), actor, eventType, resource, data); err != nil {
		log.Warn().Err(err).Str("type", eventType).Str("resource", resource).Msg("An error occurred when publishing event...")
	}
}
