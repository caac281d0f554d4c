// Package dbtest runs repository tests against a disposable MySQL server.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/khanghh/unionhub/internal/config"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/model"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"gorm.io/gorm"
)

const (
	mysqlImage = "mysql:8.0.36"
	dbName     = "unionhub"
	dbUser     = "union"
	dbPassword = "union"
)

// Open starts a MySQL container, migrates every model table and returns a pool
// connected to it. The container is terminated when the test finishes. The test is
// skipped in short mode or when no container runtime is reachable.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)

	container, err := tcmysql.Run(ctx, mysqlImage,
		tcmysql.WithDatabase(dbName),
		tcmysql.WithUsername(dbUser),
		tcmysql.WithPassword(dbPassword),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	db, err := database.Open(config.MySQLConfig{
		Host:         host,
		Port:         port.Int(),
		User:         dbUser,
		Password:     dbPassword,
		Database:     dbName,
		PoolLimit:    4,
		MaxIdleConns: 4,
	}, false)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, db.AutoMigrate(model.Models...))
	return db
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
