package api

import (
	"strconv"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func createComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)
	id, err := postIdParam(c)
	if err != nil {
		return err
	}

	var data struct {
		Content string `json:"content" validate:"required,max=1024"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.AddComment(database.C.WithContext(c.UserContext()), user, id, data.Content)
	if err != nil {
		return err
	}

	emitEvent(c, user, "posts.comment", strconv.Itoa(int(item.ID)), nil)

	return c.Status(fiber.StatusCreated).JSON(item)
}
