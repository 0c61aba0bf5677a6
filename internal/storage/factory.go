package storage

import (
	"fmt"
	"strings"

	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/storage/memory"
	"github.com/Naya-01/PAE/internal/storage/migrations"
	"github.com/Naya-01/PAE/internal/storage/postgres"
	"github.com/Naya-01/PAE/internal/storage/sqlite"
)

// StorageType represents the type of storage backend
type StorageType string

const (
	StorageTypePostgres StorageType = "postgres"
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypeMemory   StorageType = "memory"
)

// Backend is a storage the lifecycle engine can run on
type Backend interface {
	lifecycle.TransactionController
	lifecycle.Stores
	Health() error
	GetInfo() map[string]any
	Close() error
}

// Factory provides a factory pattern for creating storage backends
type Factory struct {
	storageType StorageType
}

// NewFactory creates a new storage factory
func NewFactory(storageType StorageType) *Factory {
	return &Factory{
		storageType: storageType,
	}
}

// CreateBackend opens the configured backend with its schema migrated
func (f *Factory) CreateBackend(cfg *config.Config) (Backend, error) {
	log := logger.Database()
	log.Info("Opening storage backend", "type", f.storageType)

	switch f.storageType {
	case StorageTypePostgres:
		return postgres.NewContainer(cfg)
	case StorageTypeSQLite:
		db, err := sqlite.Open(cfg.DB.SQLitePath, cfg.Log.Level == "debug")
		if err != nil {
			return nil, err
		}
		if err := migrations.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return postgres.NewContainerWithDB(db), nil
	case StorageTypeMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.storageType)
	}
}

// GetSupportedTypes returns a list of supported storage types
func GetSupportedTypes() []StorageType {
	return []StorageType{
		StorageTypePostgres,
		StorageTypeSQLite,
		StorageTypeMemory,
	}
}

// ValidateStorageType validates if a storage type is supported
func ValidateStorageType(storageType string) (StorageType, error) {
	st := StorageType(strings.ToLower(strings.TrimSpace(storageType)))

	for _, supported := range GetSupportedTypes() {
		if st == supported {
			return st, nil
		}
	}

	return "", fmt.Errorf("unsupported storage type: %s. Supported types: %v", storageType, GetSupportedTypes())
}

// FromConfig returns a factory for cfg.DB.Driver
func FromConfig(cfg *config.Config) (*Factory, error) {
	st, err := ValidateStorageType(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	return NewFactory(st), nil
}

