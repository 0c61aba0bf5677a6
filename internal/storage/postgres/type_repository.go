package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/storage/dberr"
)

// PostgresTypeRepository implements lifecycle.TypeStore using GORM
type PostgresTypeRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresTypeRepository creates a new type repository
func NewPostgresTypeRepository(db *gorm.DB) *PostgresTypeRepository {
	return &PostgresTypeRepository{
		db:  db,
		log: logger.Repository("type"),
	}
}

func (r *PostgresTypeRepository) GetByID(ctx context.Context, id int) (*objecttype.Type, error) {
	r.log.Debug("retrieving type by ID", "type_id", id)

	var t objecttype.Type
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("type %d not found", id), "failed to get type by ID")
	}
	return &t, nil
}

// GetByName matches the name case-insensitively
func (r *PostgresTypeRepository) GetByName(ctx context.Context, name string) (*objecttype.Type, error) {
	r.log.Debug("retrieving type by name", "name", name)

	var t objecttype.Type
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&t).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("type %q not found", name), "failed to get type by name")
	}
	return &t, nil
}

func (r *PostgresTypeRepository) GetDefaults(ctx context.Context) ([]*objecttype.Type, error) {
	var types []*objecttype.Type
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		Order("id").
		Find(&types).Error; err != nil {
		r.log.Error("Failed to get default types", "error", err)
		return nil, fmt.Errorf("failed to get default types: %w", err)
	}

	r.log.Debug("default types retrieved", "count", len(types))
	return types, nil
}

func (r *PostgresTypeRepository) Create(ctx context.Context, t *objecttype.Type) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return apierr.Conflict(fmt.Sprintf("type %q already exists", t.Name))
		}
		r.log.Error("Failed to create type", "name", t.Name, "error", err)
		return fmt.Errorf("failed to create type: %w", err)
	}

	r.log.Info("Type created", "type_id", t.ID, "name", t.Name)
	return nil
}
