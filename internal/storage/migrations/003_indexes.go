package migrations

import "gorm.io/gorm"

// migration003Up creates lookup indexes and the single assignment index
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_objects_status ON objects(status)",
		"CREATE INDEX IF NOT EXISTS idx_offers_object_date ON offers(object_id, date DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_offers_date ON offers(date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_interests_object_status ON interests(object_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_interests_member_notify ON interests(member_id) WHERE notify",

		// at most one assigned interest per object
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_interests_object_assigned ON interests(object_id) WHERE status = 'assigned'",
	}
	if isPostgres(db) {
		indexes = append(indexes,
			"CREATE INDEX IF NOT EXISTS idx_objects_description_trgm ON objects USING gin (description gin_trgm_ops)",
		)
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_objects_status",
		"idx_offers_object_date",
		"idx_offers_date",
		"idx_interests_object_status",
		"idx_interests_member_notify",
		"ux_interests_object_assigned",
		"idx_objects_description_trgm",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
