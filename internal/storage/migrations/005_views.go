package migrations

import "gorm.io/gorm"

// offerOverviewSelect lists every offer with its object, type and whether it
// is the latest offer of its object
const offerOverviewSelect = `
        SELECT
            o.id AS offer_id,
            o.date,
            o.time_slot,
            o.status AS offer_status,
            ob.id AS object_id,
            ob.description,
            ob.status AS object_status,
            ob.offeror_id,
            t.name AS type_name,
            NOT EXISTS (
                SELECT 1 FROM offers newer
                WHERE newer.object_id = o.object_id
                  AND (newer.date > o.date OR (newer.date = o.date AND newer.id > o.id))
            ) AS is_latest,
            (SELECT COUNT(*) FROM interests i
             WHERE i.object_id = ob.id AND i.status = 'published') AS published_interests
        FROM offers o
        JOIN objects ob ON ob.id = o.object_id
        JOIN types t ON t.id = ob.type_id
    `

// migration005Up creates reporting views
func migration005Up(db *gorm.DB) error {
	create := "CREATE VIEW IF NOT EXISTS offer_overview AS"
	if isPostgres(db) {
		create = "CREATE OR REPLACE VIEW offer_overview AS"
	}
	return db.Exec(create + offerOverviewSelect).Error
}

// migration005Down drops reporting views
func migration005Down(db *gorm.DB) error {
	return db.Exec("DROP VIEW IF EXISTS offer_overview").Error
}
