package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getFeed(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	feed, err := services.GetFeed(database.C.WithContext(c.UserContext()), user)
	if err != nil {
		return err
	}

	return c.JSON(feed)
}
