package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naya-01/PAE/internal/config"
)

func TestValidateStorageType(t *testing.T) {
	st, err := ValidateStorageType(" SQLite ")
	require.NoError(t, err)
	assert.Equal(t, StorageTypeSQLite, st)

	_, err = ValidateStorageType("mongodb")
	assert.Error(t, err)
}

func TestCreateMemoryBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = "memory"

	factory, err := FromConfig(cfg)
	require.NoError(t, err)
	backend, err := factory.CreateBackend(cfg)
	require.NoError(t, err)
	defer backend.Close()

	assert.NoError(t, backend.Health())
	assert.Equal(t, "memory", backend.GetInfo()["type"])
	tx, err := backend.Begin(context.Background())
	require.NoError(t, err)
	assert.NoError(t, tx.Rollback())
}

func TestCreateSQLiteBackendSeedsTypes(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = "sqlite"
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "donnamis.db")

	factory, err := FromConfig(cfg)
	require.NoError(t, err)
	backend, err := factory.CreateBackend(cfg)
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Health())
	assert.Equal(t, "gorm", backend.GetInfo()["type"])
	defaults, err := backend.Types().GetDefaults(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, defaults)
}

func TestUnsupportedStorageType(t *testing.T) {
	_, err := NewFactory("mongodb").CreateBackend(&config.Config{})
	assert.Error(t, err)
}
