package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/fuzumoe/sitescope-api/internal/crawler"
	"github.com/fuzumoe/sitescope-api/internal/repository"
	"github.com/fuzumoe/sitescope-api/internal/service"
)

func TestHealthService(t *testing.T) {
	t.Run("Nil store", func(t *testing.T) {
		hs := service.NewHealthService(nil, nil, "TestService")
		status := hs.Check(context.Background())

		assert.Equal(t, "TestService", status.Service)
		assert.Equal(t, "disconnected", status.Storage)
		assert.False(t, status.Healthy)
		assert.WithinDuration(t, time.Now(), status.Checked, time.Minute)
	})

	t.Run("Memory store", func(t *testing.T) {
		reg := crawler.NewRegistry(0)
		_, err := reg.Reserve("s1")
		require.NoError(t, err)

		hs := service.NewHealthService(repository.NewMemoryStore(), reg, "TestService")
		status := hs.Check(context.Background())

		assert.Equal(t, "healthy", status.Storage)
		assert.True(t, status.Healthy)
		assert.Equal(t, 1, status.ActiveCrawls)
	})

	newGormStore := func(t *testing.T, pingErr error) repository.Store {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })

		mock.ExpectPing()
		mock.ExpectPing().WillReturnError(pingErr)

		gdb, err := gorm.Open(mysql.New(mysql.Config{
			Conn:                      sqlDB,
			SkipInitializeWithVersion: true,
		}), &gorm.Config{})
		require.NoError(t, err)
		return repository.NewGormStore(gdb)
	}

	t.Run("Mock healthy DB", func(t *testing.T) {
		status := service.NewHealthService(newGormStore(t, nil), nil, "TestService").Check(context.Background())
		assert.Equal(t, "healthy", status.Storage)
		assert.True(t, status.Healthy)
	})

	t.Run("Mock unhealthy DB", func(t *testing.T) {
		status := service.NewHealthService(newGormStore(t, errors.New("ping failed")), nil, "TestService").Check(context.Background())
		assert.Equal(t, "unhealthy", status.Storage)
		assert.False(t, status.Healthy)
	})
}
