package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"JWT_SECRET", "ADMIN_JWT_SECRET", "USER_JWT_SECRET", "STORE_DRIVER", "TOKEN_TTL", "CORS_ORIGINS", "EMPTY_CUSTOMERS_NOT_FOUND"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverMySQL, cfg.StoreDriver)
	assert.Equal(t, "change-me", cfg.AdminJWTSecret)
	assert.Equal(t, "change-me", cfg.UserJWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.EmptyCustomersNotFound)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "shared")
	t.Setenv("ADMIN_JWT_SECRET", "admin-only")
	t.Setenv("USER_JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("EMPTY_CUSTOMERS_NOT_FOUND", "false")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "admin-only", cfg.AdminJWTSecret)
	assert.Equal(t, "shared", cfg.UserJWTSecret)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.EmptyCustomersNotFound)
	assert.Equal(t, 0, cfg.RedisDB)
}
