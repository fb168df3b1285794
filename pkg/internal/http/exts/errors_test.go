package exts

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrInvalidTarget, fiber.StatusBadRequest},
		{services.ErrEmptyContent, fiber.StatusBadRequest},
		{services.ErrDuplicateRequest, fiber.StatusConflict},
		{services.ErrAlreadyFriends, fiber.StatusConflict},
		{services.ErrAccountTaken, fiber.StatusConflict},
		{services.ErrRequestNotFound, fiber.StatusNotFound},
		{services.ErrAccountNotFound, fiber.StatusNotFound},
		{services.ErrPostNotFound, fiber.StatusNotFound},
		{services.ErrPostNotFoundOrForbidden, fiber.StatusNotFound},
		{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{services.ErrInvalidToken, fiber.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", services.ErrPostNotFound), fiber.StatusNotFound},
		{fiber.NewError(fiber.StatusTeapot, "teapot"), fiber.StatusTeapot},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, item := range cases {
		assert.Equal(t, item.status, StatusOf(item.err), item.err.Error())
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/known", func(c *fiber.Ctx) error {
		return services.ErrDuplicateRequest
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("pq: relation \"friendships\" does not exist")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/known", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"a friend request between you two is already pending"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/internal", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"internal server error"}`, string(body))
}
