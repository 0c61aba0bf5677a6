package postgres

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/storage/migrations"
)

// ConnectionConfig holds database connection configuration
type ConnectionConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns default connection configuration
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute * 30,
	}
}

// DatabaseMetrics holds database connection metrics
type DatabaseMetrics struct {
	OpenConnections  int
	InUseConnections int
	IdleConnections  int
}

// Connect establishes a connection to the PostgreSQL database
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return ConnectWithConfig(cfg, DefaultConnectionConfig())
}

// ConnectWithConfig establishes a connection with custom pool configuration
func ConnectWithConfig(cfg *config.Config, connCfg *ConnectionConfig) (*gorm.DB, error) {
	log := logger.Database()

	if err := validateDatabaseConfig(cfg); err != nil {
		log.Error("Database configuration validation failed", "error", err)
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	log.Debug("Connecting to database", "host", cfg.DB.Host, "port", cfg.DB.Port, "database", cfg.DB.Name, "schema", cfg.DB.Schema)

	var gormLoggerInstance gormLogger.Interface
	if cfg.Server.GinMode == "debug" {
		gormLoggerInstance = gormLogger.Default.LogMode(gormLogger.Info)
		log.Debug("GORM logging enabled (debug mode)")
	} else {
		gormLoggerInstance = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	gormConfig := &gorm.Config{
		Logger: gormLoggerInstance,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt:    true,
		TranslateError: true,
	}

	if err := ensureSchema(cfg, gormConfig); err != nil {
		log.Error("Failed to prepare database schema", "schema", cfg.DB.Schema, "error", err)
		return nil, err
	}

	var db *gorm.DB
	var err error
	maxRetries := 3
	retryDelay := time.Second * 2

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Debug("Database connection attempt", "attempt", attempt, "max_retries", maxRetries)

		db, err = gorm.Open(postgres.Open(DSN(cfg)), gormConfig)
		if err == nil {
			break
		}

		log.Warn("Database connection failed", "attempt", attempt, "error", err)
		if attempt < maxRetries {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	if err != nil {
		log.Error("Failed to connect to database after retries", "error", err, "attempts", maxRetries)
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	if err := configureConnectionPool(db, connCfg); err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}

	if err := HealthCheck(db); err != nil {
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}

	metrics := GetDatabaseMetrics(db)
	log.Info("Successfully connected to PostgreSQL database",
		"host", cfg.DB.Host,
		"database", cfg.DB.Name,
		"schema", cfg.DB.Schema,
		"max_open_conns", connCfg.MaxOpenConns,
		"open_connections", metrics.OpenConnections)

	return db, nil
}

// DSN returns the connection string with the configured schema as search path
func DSN(cfg *config.Config) string {
	dsn := cfg.GetDatabaseURL()
	if cfg.DB.Schema == "" {
		return dsn
	}
	return dsn + "&search_path=" + url.QueryEscape(cfg.DB.Schema)
}

// ensureSchema creates the configured schema through a short-lived connection
func ensureSchema(cfg *config.Config, gormConfig *gorm.Config) error {
	if cfg.DB.Schema == "" {
		return nil
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{Logger: gormConfig.Logger})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer Close(db)

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(cfg.DB.Schema)).Error; err != nil {
		return fmt.Errorf("failed to create schema %s: %w", cfg.DB.Schema, err)
	}
	return nil
}

func validateDatabaseConfig(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if cfg.DB.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if cfg.DB.Port == "" {
		return fmt.Errorf("database port cannot be empty")
	}
	if cfg.DB.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if cfg.DB.User == "" {
		return fmt.Errorf("database user cannot be empty")
	}
	return nil
}

func configureConnectionPool(db *gorm.DB, cfg *ConnectionConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return nil
}

// GetDatabaseMetrics returns current database connection metrics
func GetDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	sqlDB, err := db.DB()
	if err != nil {
		return &DatabaseMetrics{}
	}

	stats := sqlDB.Stats()
	return &DatabaseMetrics{
		OpenConnections:  stats.OpenConnections,
		InUseConnections: stats.InUse,
		IdleConnections:  stats.Idle,
	}
}

// HealthCheck pings the database
func HealthCheck(db *gorm.DB) error {
	return HealthCheckWithTimeout(db, 5*time.Second)
}

// HealthCheckWithTimeout pings the database with a custom timeout
func HealthCheckWithTimeout(db *gorm.DB, timeout time.Duration) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// AutoMigrate runs the structured migrations
func AutoMigrate(db *gorm.DB) error {
	log := logger.Migration()
	log.Info("Starting database migrations...")

	if err := HealthCheck(db); err != nil {
		log.Error("Database health check failed before migrations", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	startTime := time.Now()
	if err := migrations.RunMigrations(db); err != nil {
		log.Error("Database migrations failed", "error", err, "duration", time.Since(startTime))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed successfully", "duration", time.Since(startTime))
	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	log := logger.Database()

	if db == nil {
		log.Warn("Attempted to close nil database connection")
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		log.Error("Failed to close database connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	log.Debug("Database connection closed")
	return nil
}

// GetConnectionInfo returns information about the database connection
func GetConnectionInfo(db *gorm.DB) map[string]any {
	if db == nil {
		return map[string]any{
			"connected": false,
			"error":     "no database connection",
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return map[string]any{
			"connected": false,
			"error":     err.Error(),
		}
	}

	stats := sqlDB.Stats()
	return map[string]any{
		"connected":            true,
		"dialect":              db.Dialector.Name(),
		"open_connections":     stats.OpenConnections,
		"in_use_connections":   stats.InUse,
		"idle_connections":     stats.Idle,
		"max_open_connections": stats.MaxOpenConnections,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
