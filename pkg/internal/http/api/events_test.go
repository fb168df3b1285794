package api

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/gap"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitEventLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	previousLogger := log.Logger
	log.Logger = zerolog.New(&buf)
	gap.Kf = &kafka.Writer{Addr: kafka.TCP("127.0.0.1:1"), Topic: "circle.events", Async: true}
	t.Cleanup(func() {
		_ = gap.Kf.Close()
		gap.Kf = nil
		log.Logger = previousLogger
	})

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		// Channels can not be encoded, the event is dropped.
		emitEvent(c, 1, "posts.new", "1", make(chan int))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"type":"posts.new"`)
}
