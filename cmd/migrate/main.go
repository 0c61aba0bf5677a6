package main

import (
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/storage/migrations"
	"github.com/Naya-01/PAE/internal/storage/postgres"
	"github.com/Naya-01/PAE/internal/storage/sqlite"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Log.Level)
	log := logger.Migration()

	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	driver := flag.String("driver", cfg.DB.Driver, "Database driver: postgres or sqlite")
	status := flag.Bool("status", false, "List the applied migrations")
	flag.Parse()

	log.Info("Starting migration process", "driver", *driver, "rollback", *rollback)

	db, err := open(cfg, *driver)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	switch {
	case *status:
		applied, err := migrations.AppliedMigrations(db)
		if err != nil {
			log.Error("Failed to list migrations", "error", err)
			os.Exit(1)
		}
		for _, m := range migrations.GetMigrations() {
			state := "pending"
			for _, id := range applied {
				if id == m.ID {
					state = "applied"
					break
				}
			}
			fmt.Printf("%s  %-8s %s\n", m.ID, state, m.Name)
		}
		return
	case *rollback:
		log.Info("Rolling back migrations...")
		if err := migrations.RollbackMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")
	default:
		log.Info("Running migrations...")
		if err := migrations.RunMigrations(db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations completed successfully")
	}

	fmt.Println("Migration process completed!")
}

func open(cfg *config.Config, driver string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return postgres.Connect(cfg)
	case "sqlite":
		return sqlite.Open(cfg.DB.SQLitePath, cfg.Log.Level == "debug")
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}
