package migrations

import "gorm.io/gorm"

const dialectPostgres = "postgres"

// isPostgres reports whether db talks to PostgreSQL. Some migrations only
// apply there; SQLite gets the portable subset.
func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == dialectPostgres
}
