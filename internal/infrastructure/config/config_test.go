package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"SHOP_APP_NAME":                os.Getenv("SHOP_APP_NAME"),
		"SHOP_APP_ENV":                 os.Getenv("SHOP_APP_ENV"),
		"SHOP_APP_PORT":                os.Getenv("SHOP_APP_PORT"),
		"SHOP_DATABASE_HOST":           os.Getenv("SHOP_DATABASE_HOST"),
		"SHOP_DATABASE_PORT":           os.Getenv("SHOP_DATABASE_PORT"),
		"SHOP_DATABASE_USER":           os.Getenv("SHOP_DATABASE_USER"),
		"SHOP_DATABASE_PASSWORD":       os.Getenv("SHOP_DATABASE_PASSWORD"),
		"SHOP_DATABASE_DBNAME":         os.Getenv("SHOP_DATABASE_DBNAME"),
		"SHOP_DATABASE_MAX_OPEN_CONNS": os.Getenv("SHOP_DATABASE_MAX_OPEN_CONNS"),
		"SHOP_DATABASE_MAX_IDLE_CONNS": os.Getenv("SHOP_DATABASE_MAX_IDLE_CONNS"),
		"SHOP_JWT_SECRET":              os.Getenv("SHOP_JWT_SECRET"),
		"SHOP_JWT_REFRESH_SECRET":      os.Getenv("SHOP_JWT_REFRESH_SECRET"),
		"SHOP_CHECKOUT_TAX_RATE":       os.Getenv("SHOP_CHECKOUT_TAX_RATE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shop-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8000", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "shop", cfg.Database.DBName)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, 0.20, cfg.Checkout.TaxRate)
		assert.Equal(t, 10, cfg.Startup.MaxAttempts)
	})

	t.Run("loads values from environment variables with SHOP prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_APP_NAME", "test-app")
		os.Setenv("SHOP_APP_PORT", "9000")
		os.Setenv("SHOP_DATABASE_HOST", "testdb.local")
		os.Setenv("SHOP_DATABASE_PORT", "5433")
		os.Setenv("SHOP_DATABASE_PASSWORD", "testpass")
		os.Setenv("SHOP_CHECKOUT_TAX_RATE", "0.07")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 0.07, cfg.Checkout.TaxRate)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SHOP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects tax rate of one or more", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_CHECKOUT_TAX_RATE", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax_rate")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	keys := []string{
		"SHOP_APP_ENV", "SHOP_JWT_SECRET", "SHOP_JWT_REFRESH_SECRET",
		"SHOP_DATABASE_PASSWORD",
	}
	originalEnv := map[string]string{}
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_APP_ENV", "production")
		os.Setenv("SHOP_DATABASE_PASSWORD", "secure-password")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_APP_ENV", "production")
		os.Setenv("SHOP_JWT_SECRET", "short-secret")
		os.Setenv("SHOP_DATABASE_PASSWORD", "secure-password")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_APP_ENV", "production")
		os.Setenv("SHOP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("SHOP_JWT_REFRESH_SECRET", "this-is-a-very-secure-refresh-secret-key")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_APP_ENV", "production")
		os.Setenv("SHOP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("SHOP_JWT_REFRESH_SECRET", "this-is-a-very-secure-refresh-secret-key")
		os.Setenv("SHOP_DATABASE_PASSWORD", "secure-password")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.local", Port: 6380}
	assert.Equal(t, "redis.local:6380", cfg.Addr())
}
