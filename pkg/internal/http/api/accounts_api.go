package api

import (
	"strconv"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func signup(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name" validate:"required,alphanum,min=3,max=32"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6,max=72"`
		Nick     string `json:"nick" validate:"required,max=256"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.NewAccount(database.C.WithContext(c.UserContext()), data.Name, data.Email, data.Nick, data.Password)
	if err != nil {
		return err
	}
	token, err := services.NewAccessToken(account.ID)
	if err != nil {
		return err
	}

	emitEvent(c, account.ID, "accounts.new", strconv.Itoa(int(account.ID)), nil)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  account,
		"token": token,
	})
}

func login(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.AuthenticateAccount(database.C.WithContext(c.UserContext()), data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := services.NewAccessToken(account.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":  account,
		"token": token,
	})
}

func getProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)
	tx := database.C.WithContext(c.UserContext())

	account, err := services.GetAccount(tx, user)
	if err != nil {
		return err
	}
	friends, err := services.ListFriends(tx, user)
	if err != nil {
		return err
	}
	pending, err := services.ListPendingRequests(tx, user)
	if err != nil {
		return err
	}

	return c.JSON(struct {
		models.Account
		Friends         []models.Account       `json:"friends"`
		PendingRequests []models.FriendRequest `json:"pending_requests"`
	}{account, friends, pending})
}

func updateProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	var data services.ProfileUpdate
	if err := exts.BindStrictAndValidate(c, &data, "invalid updates"); err != nil {
		return err
	}

	account, err := services.UpdateProfile(database.C.WithContext(c.UserContext()), user, data)
	if err != nil {
		return err
	}

	return c.JSON(account)
}

func changePassword(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUserID(c)

	var data struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangePassword(database.C.WithContext(c.UserContext()), user, data.OldPassword, data.NewPassword); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}
