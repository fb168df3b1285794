package api

import (
	"strconv"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listAccounts(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	items, err := services.ListAccountsWithStatus(database.C.WithContext(c.UserContext()), user)
	if err != nil {
		return err
	}

	return c.JSON(items)
}

func listFriends(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	friends, err := services.ListFriends(database.C.WithContext(c.UserContext()), user)
	if err != nil {
		return err
	}

	return c.JSON(friends)
}

func sendFriendRequest(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	var data struct {
		ReceiverID uint `json:"receiver_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.SendFriendRequest(database.C.WithContext(c.UserContext()), user, data.ReceiverID); err != nil {
		return err
	}

	emitEvent(c, user, "friends.request", strconv.Itoa(int(data.ReceiverID)), nil)

	return c.JSON(fiber.Map{
		"message": "friend request sent successfully",
	})
}

func acceptFriendRequest(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	var data struct {
		RequesterID uint `json:"requester_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.AcceptFriendRequest(database.C.WithContext(c.UserContext()), user, data.RequesterID); err != nil {
		return err
	}

	emitEvent(c, user, "friends.accept", strconv.Itoa(int(data.RequesterID)), nil)

	return c.JSON(fiber.Map{
		"message": "friend request accepted",
	})
}

func rejectFriendRequest(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	var data struct {
		RequesterID uint `json:"requester_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.RejectFriendRequest(database.C.WithContext(c.UserContext()), user, data.RequesterID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "friend request rejected",
	})
}
