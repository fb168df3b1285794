package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	viper.Set("security.jwt_secret", "circle-test-secret")
	viper.Set("security.bcrypt_cost", bcrypt.MinCost)
	os.Exit(m.Run())
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		ErrorHandler: exts.ErrorHandler,
	})
	app.Use(exts.ContextMiddleware)
	MapAPIs(app, "/api")
	return app
}

// useDatabase points the handlers at db for the duration of the test.
func useDatabase(t *testing.T, db *gorm.DB) {
	previous := database.C
	database.C = db
	t.Cleanup(func() { database.C = previous })
}

func useTestDatabase(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, database.RunMigration(db))
	useDatabase(t, db)
}

type response struct {
	Status int
	Body   []byte
}

func (v response) decode(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, jsoniter.Unmarshal(v.Body, out), string(v.Body))
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) response {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := jsoniter.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if len(token) > 0 {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return response{Status: resp.StatusCode, Body: raw}
}

type session struct {
	ID    uint
	Token string
}

func signupAs(t *testing.T, app *fiber.App, name string) session {
	t.Helper()

	resp := call(t, app, http.MethodPost, "/api/users/signup", "", map[string]any{
		"name":     name,
		"email":    fmt.Sprintf("%s@example.com", name),
		"nick":     name,
		"password": "password",
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))

	var data struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	resp.decode(t, &data)
	return session{ID: data.User.ID, Token: data.Token}
}

func befriend(t *testing.T, app *fiber.App, a, b session) {
	t.Helper()

	resp := call(t, app, http.MethodPost, "/api/users/friend-request", a.Token, map[string]any{"receiver_id": b.ID})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	resp = call(t, app, http.MethodPost, "/api/users/accept-friend-request", b.Token, map[string]any{"requester_id": a.ID})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
}
