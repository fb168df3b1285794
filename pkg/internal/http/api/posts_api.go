package api

import (
	"strconv"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func postIdParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("postId", 0)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}
	return uint(id), nil
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	var data struct {
		Content string `json:"content" validate:"required,max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewPost(database.C.WithContext(c.UserContext()), user, data.Content)
	if err != nil {
		return err
	}

	emitEvent(c, user, "posts.new", strconv.Itoa(int(item.ID)), nil)

	return c.Status(fiber.StatusCreated).JSON(item)
}

func listPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	items, err := services.ListAccountPost(database.C.WithContext(c.UserContext()), user)
	if err != nil {
		return err
	}

	return c.JSON(items)
}

func getPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := postIdParam(c)
	if err != nil {
		return err
	}

	item, err := services.GetPost(database.C.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}

	return c.JSON(item)
}

func editPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)
	id, err := postIdParam(c)
	if err != nil {
		return err
	}

	var data struct {
		Content string `json:"content" validate:"required,max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.EditPost(database.C.WithContext(c.UserContext()), user, id, data.Content)
	if err != nil {
		return err
	}

	emitEvent(c, user, "posts.edit", strconv.Itoa(int(item.ID)), nil)

	return c.JSON(item)
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)
	id, err := postIdParam(c)
	if err != nil {
		return err
	}

	if err := services.DeletePost(database.C.WithContext(c.UserContext()), user, id); err != nil {
		return err
	}

	emitEvent(c, user, "posts.delete", strconv.Itoa(int(id)), nil)

	return c.JSON(fiber.Map{
		"message": "post deleted successfully",
	})
}
