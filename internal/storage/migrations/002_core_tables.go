package migrations

import "gorm.io/gorm"

// migration002Up creates all core tables using GORM AutoMigrate
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration002Down drops all core tables, dependents first
func migration002Down(db *gorm.DB) error {
	models := AllModels()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return err
		}
	}
	return nil
}
