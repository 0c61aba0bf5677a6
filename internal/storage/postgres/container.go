package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/logger"
)

// Container holds the GORM repositories and opens transactions over them.
// It works with any GORM dialector; the sqlite package opens the embedded one.
type Container struct {
	db           *gorm.DB
	log          *log.Logger
	objectRepo   *PostgresObjectRepository
	offerRepo    *PostgresOfferRepository
	interestRepo *PostgresInterestRepository
	typeRepo     *PostgresTypeRepository
}

// NewContainer connects to PostgreSQL, runs the migrations and checks every table
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:           db,
		log:          logger.Repository("postgres_container"),
		objectRepo:   NewPostgresObjectRepository(db),
		offerRepo:    NewPostgresOfferRepository(db),
		interestRepo: NewPostgresInterestRepository(db),
		typeRepo:     NewPostgresTypeRepository(db),
	}
}

func (c *Container) Objects() lifecycle.ObjectStore     { return c.objectRepo }
func (c *Container) Offers() lifecycle.OfferStore       { return c.offerRepo }
func (c *Container) Interests() lifecycle.InterestStore { return c.interestRepo }
func (c *Container) Types() lifecycle.TypeStore         { return c.typeRepo }

// Health pings the database and runs a count on every table
func (c *Container) Health() error {
	c.log.Debug("Performing container health check...")

	if err := HealthCheck(c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	metrics := GetDatabaseMetrics(c.db)
	c.log.Debug("Database connection metrics",
		"open_connections", metrics.OpenConnections,
		"in_use_connections", metrics.InUseConnections,
		"idle_connections", metrics.IdleConnections)

	for _, table := range []string{"types", "objects", "offers", "interests"} {
		var count int64
		if err := c.db.Table(table).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "table", table, "error", err)
			return fmt.Errorf("repository %s health check failed: %w", table, err)
		}
		c.log.Debug("Repository health check passed", "table", table, "rows", count)
	}

	return nil
}

// Close shuts down the container and closes the database connection
func (c *Container) Close() error {
	c.log.Info("Closing repository container...")

	if c.db == nil {
		c.log.Warn("Database connection is nil, nothing to close")
		return nil
	}

	if err := Close(c.db); err != nil {
		return err
	}
	c.db = nil

	c.log.Info("Repository container closed successfully")
	return nil
}

// GetInfo returns information about the container and its connection
func (c *Container) GetInfo() map[string]any {
	return map[string]any{
		"type":         "gorm",
		"repositories": []string{"types", "objects", "offers", "interests"},
		"database":     GetConnectionInfo(c.db),
	}
}

// Begin starts a database transaction bound to ctx
func (c *Container) Begin(ctx context.Context) (lifecycle.Tx, error) {
	tx := c.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		c.log.Error("Failed to begin transaction", "error", tx.Error)
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	c.log.Debug("Database transaction started")
	return NewTransactionContainer(tx), nil
}

// TransactionContainer wraps the repositories in a database transaction
type TransactionContainer struct {
	*Container

	mu   sync.Mutex
	done bool
}

// NewTransactionContainer creates a new transaction container
func NewTransactionContainer(tx *gorm.DB) *TransactionContainer {
	c := NewContainerWithDB(tx)
	c.log = logger.Repository("postgres_transaction")
	return &TransactionContainer{Container: c}
}

// Commit commits the transaction
func (tc *TransactionContainer) Commit() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.done {
		return fmt.Errorf("failed to commit transaction: already finished")
	}
	tc.done = true

	if err := tc.db.Commit().Error; err != nil {
		tc.log.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	tc.log.Debug("Database transaction committed successfully")
	return nil
}

// Rollback rolls back the transaction. It is a no-op once the transaction
// has been committed or rolled back.
func (tc *TransactionContainer) Rollback() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.done {
		return nil
	}
	tc.done = true

	if err := tc.db.Rollback().Error; err != nil {
		tc.log.Error("Failed to rollback transaction", "error", err)
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	tc.log.Debug("Database transaction rolled back")
	return nil
}
