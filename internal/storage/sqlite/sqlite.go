// Package sqlite opens gorm on the pure Go modernc SQLite driver, used for
// local runs and for repository tests.
package sqlite

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/Naya-01/PAE/internal/logger"
)

const driverName = "sqlite"

// Open opens the database file at path
func Open(path string, debug bool) (*gorm.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	return open(dsn, debug)
}

// OpenMemory opens a private in-memory database shared by the connections
// of the returned handle
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := "file:" + name + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	return open(dsn, false)
}

func open(dsn string, debug bool) (*gorm.DB, error) {
	log := logger.Database()

	level := gormLogger.Silent
	if debug {
		level = gormLogger.Info
	}

	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: driverName, DSN: dsn}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Error("Failed to open sqlite database", "error", err)
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	// SQLite has a single writer; one connection keeps transactions serialised
	sqlDB.SetMaxOpenConns(1)

	var foreignKeys int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&foreignKeys).Error; err != nil {
		return nil, fmt.Errorf("failed to check sqlite foreign keys: %w", err)
	}
	if foreignKeys != 1 {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite foreign keys are disabled")
	}

	log.Info("Connected to SQLite database")
	return db, nil
}
