package migrations

import "gorm.io/gorm"

// migration001Up enables trigram matching used by the offer search
func migration001Up(db *gorm.DB) error {
	if !isPostgres(db) {
		return nil
	}
	return db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error
}

// migration001Down keeps the extension, other schemas may rely on it
func migration001Down(db *gorm.DB) error {
	return nil
}
