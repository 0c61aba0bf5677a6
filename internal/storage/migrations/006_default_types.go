package migrations

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Naya-01/PAE/internal/domain/objecttype"
)

// DefaultTypeNames is the catalogue members pick from when offering
var DefaultTypeNames = []string{
	"Accessoires pour enfant",
	"Meuble",
	"Décoration",
	"Vêtements",
	"Vaisselle",
	"Literie",
	"Livres",
	"Jouets",
	"Matériel de cuisine",
	"Plantes",
}

// migration006Up inserts the default object types
func migration006Up(db *gorm.DB) error {
	types := make([]objecttype.Type, 0, len(DefaultTypeNames))
	for _, name := range DefaultTypeNames {
		types = append(types, objecttype.Type{Name: name, IsDefault: true})
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{"is_default": true}),
	}).Create(&types).Error
}

// migration006Down removes the default object types that no object uses
func migration006Down(db *gorm.DB) error {
	return db.Exec(
		"DELETE FROM types WHERE is_default AND name IN ? AND id NOT IN (SELECT type_id FROM objects)",
		DefaultTypeNames,
	).Error
}
