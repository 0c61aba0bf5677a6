package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_SCHEMA", "")
	t.Setenv("JWT_ISSUER", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "donnamis", cfg.DB.Schema)
	assert.Equal(t, "auth0", cfg.Auth.Issuer)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_USER", "pae")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "pae")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "postgres://pae:secret@db:6543/pae?sslmode=require", cfg.GetDatabaseURL())
	assert.True(t, cfg.Images.UseSSL)
	assert.Equal(t, int64(1024), cfg.Images.MaxFileSize)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.ImagesEnabled())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "big")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := Load()

	assert.Equal(t, int64(5242880), cfg.Images.MaxFileSize)
	assert.False(t, cfg.Images.UseSSL)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"GET", "POST"}, SplitList(" GET, ,POST "))
	assert.Nil(t, SplitList(""))
}
