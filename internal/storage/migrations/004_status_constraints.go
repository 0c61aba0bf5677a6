package migrations

import "gorm.io/gorm"

var statusConstraints = []struct {
	table, name, check, initial string
}{
	{"objects", "chk_objects_status", "status IN ('available', 'interested', 'assigned', 'given', 'cancelled')", "available"},
	{"offers", "chk_offers_status", "status IN ('available', 'interested', 'assigned', 'given', 'cancelled')", "available"},
	{"interests", "chk_interests_status", "status IN ('published', 'assigned')", "published"},
}

// migration004Up restricts status columns to the known values and gives them
// their initial status as column default. SQLite cannot alter existing
// columns; there the status types reject unknown values when rows are scanned.
func migration004Up(db *gorm.DB) error {
	if !isPostgres(db) {
		return nil
	}

	for _, c := range statusConstraints {
		if err := db.Exec("ALTER TABLE " + c.table + " DROP CONSTRAINT IF EXISTS " + c.name).Error; err != nil {
			return err
		}
		if err := db.Exec("ALTER TABLE " + c.table + " ADD CONSTRAINT " + c.name + " CHECK (" + c.check + ")").Error; err != nil {
			return err
		}
		if err := db.Exec("ALTER TABLE " + c.table + " ALTER COLUMN status SET DEFAULT '" + c.initial + "'").Error; err != nil {
			return err
		}
	}

	return nil
}

// migration004Down drops the status constraints and defaults
func migration004Down(db *gorm.DB) error {
	if !isPostgres(db) {
		return nil
	}

	for _, c := range statusConstraints {
		if err := db.Exec("ALTER TABLE " + c.table + " ALTER COLUMN status DROP DEFAULT").Error; err != nil {
			return err
		}
		if err := db.Exec("ALTER TABLE " + c.table + " DROP CONSTRAINT IF EXISTS " + c.name).Error; err != nil {
			return err
		}
	}

	return nil
}
