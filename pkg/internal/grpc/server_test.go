package grpc

import (
	"context"
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func checkStatus(t *testing.T, app *App, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	resp, err := app.health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestCheckDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	previous := database.C
	database.C = db
	t.Cleanup(func() { database.C = previous })

	app := NewGrpc()

	app.CheckDatabase()
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, checkStatus(t, app, ""))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, checkStatus(t, app, ServiceName))

	conn, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	app.CheckDatabase()
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, checkStatus(t, app, ServiceName))
}

func TestCheckDatabaseWithoutConnection(t *testing.T) {
	previous := database.C
	database.C = nil
	t.Cleanup(func() { database.C = previous })

	app := NewGrpc()
	app.CheckDatabase()
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, checkStatus(t, app, ""))
}
