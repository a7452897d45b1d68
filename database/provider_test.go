package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/config"
	"github.com/tasknest/tasknest/models"
)

func testConfig(driver, dsn string, migrate bool) config.Config {
	return config.Config{
		Database: config.DatabaseConfig{
			Driver:      driver,
			DSN:         dsn,
			AutoMigrate: migrate,
		},
	}
}

func TestProvideDatabase(t *testing.T) {
	t.Run("sqlite in-memory", func(t *testing.T) {
		db, err := ProvideDatabase(testConfig("sqlite", ":memory:", false), nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, db)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		db, err := ProvideDatabase(testConfig("oracle", "dsn", false), nil, nil)
		assert.Nil(t, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("auto-migrates configured models", func(t *testing.T) {
		cfg := testConfig("sqlite", ":memory:", true)
		db, err := ProvideDatabase(cfg, WithModels(&models.User{}, &models.Todo{}, &models.EmailVerificationToken{}), nil)
		require.NoError(t, err)

		for _, table := range []string{"users", "todos", "email_verification_tokens"} {
			assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
		}
	})

	t.Run("foreign keys enabled on sqlite", func(t *testing.T) {
		db, err := ProvideDatabase(testConfig("sqlite", ":memory:", false), nil, nil)
		require.NoError(t, err)

		var enabled int
		require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
		assert.Equal(t, 1, enabled)
	})
}
