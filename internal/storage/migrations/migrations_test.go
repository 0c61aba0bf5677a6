package migrations_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/storage/dberr"
	"github.com/Naya-01/PAE/internal/storage/migrations"
	"github.com/Naya-01/PAE/internal/storage/sqlite"
)

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, migrations.RunMigrations(db))
	return db
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := openMigrated(t)
	require.NoError(t, migrations.RunMigrations(db))

	applied, err := migrations.AppliedMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002", "003", "004", "005", "006"}, applied)

	for _, table := range []string{"types", "objects", "offers", "interests"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestDefaultTypesAreSeeded(t *testing.T) {
	db := openMigrated(t)

	var defaults []objecttype.Type
	require.NoError(t, db.Where("is_default = ?", true).Order("id").Find(&defaults).Error)
	require.Len(t, defaults, len(migrations.DefaultTypeNames))
	assert.Equal(t, migrations.DefaultTypeNames[0], defaults[0].Name)
}

func TestSingleAssignedInterestIndex(t *testing.T) {
	db := openMigrated(t)

	typ := objecttype.Type{Name: "Lampes"}
	require.NoError(t, db.Create(&typ).Error)
	obj := object.Object{Description: "Lamp", OfferorID: 1, TypeID: typ.ID, Status: object.StatusInterested}
	require.NoError(t, db.Omit("Type").Create(&obj).Error)

	now := time.Now().UTC()
	first := interest.Interest{ObjectID: obj.ID, MemberID: 2, Status: interest.StatusAssigned, Date: now}
	second := interest.Interest{ObjectID: obj.ID, MemberID: 3, Status: interest.StatusAssigned, Date: now}
	require.NoError(t, db.Omit("Object").Create(&first).Error)

	err := db.Omit("Object").Create(&second).Error
	require.Error(t, err)
	assert.True(t, dberr.IsUniqueViolation(err))

	second.Status = interest.StatusPublished
	assert.NoError(t, db.Omit("Object").Create(&second).Error)
}

func TestRollbackMigration(t *testing.T) {
	db := openMigrated(t)

	require.NoError(t, migrations.RollbackMigration(db))

	applied, err := migrations.AppliedMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002", "003", "004", "005"}, applied)

	var count int64
	require.NoError(t, db.Model(&objecttype.Type{}).Where("is_default = ?", true).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, migrations.RunMigrations(db))
	require.NoError(t, db.Model(&objecttype.Type{}).Where("is_default = ?", true).Count(&count).Error)
	assert.Equal(t, int64(len(migrations.DefaultTypeNames)), count)
}

func TestOfferOverviewView(t *testing.T) {
	db := openMigrated(t)

	var rows []map[string]any
	require.NoError(t, db.Raw("SELECT * FROM offer_overview").Scan(&rows).Error)
	assert.Empty(t, rows)
}
