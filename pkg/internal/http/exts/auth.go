package exts

import (
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "user"

// ContextMiddleware resolves the bearer token into the acting account id.
// Requests without a valid token pass through unauthenticated.
func ContextMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && len(token) > 0 {
		if id, err := services.ParseAccessToken(strings.TrimSpace(token)); err == nil {
			c.Locals(userLocalKey, id)
		}
	}
	return c.Next()
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals(userLocalKey).(uint); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, services.ErrInvalidToken.Error())
	}
	return nil
}

// GetUserID must be called after EnsureAuthenticated.
func GetUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(userLocalKey).(uint)
	return id
}
