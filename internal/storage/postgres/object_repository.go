package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/logger"
)

// PostgresObjectRepository implements lifecycle.ObjectStore using GORM
type PostgresObjectRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresObjectRepository creates a new object repository
func NewPostgresObjectRepository(db *gorm.DB) *PostgresObjectRepository {
	return &PostgresObjectRepository{
		db:  db,
		log: logger.Repository("object"),
	}
}

func (r *PostgresObjectRepository) GetByID(ctx context.Context, id int) (*object.Object, error) {
	r.log.Debug("retrieving object by ID", "object_id", id)

	var o object.Object
	if err := r.db.WithContext(ctx).Preload("Type").First(&o, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("object %d not found", id), "failed to get object by ID")
	}
	return &o, nil
}

func (r *PostgresObjectRepository) GetByOfferor(ctx context.Context, offerorID int) ([]*object.Object, error) {
	r.log.Debug("retrieving objects by offeror", "offeror_id", offerorID)

	var objects []*object.Object
	if err := r.db.WithContext(ctx).Preload("Type").
		Where("offeror_id = ?", offerorID).
		Order("id").
		Find(&objects).Error; err != nil {
		r.log.Error("Failed to get objects by offeror", "offeror_id", offerorID, "error", err)
		return nil, fmt.Errorf("failed to get objects by offeror: %w", err)
	}
	return objects, nil
}

func (r *PostgresObjectRepository) Create(ctx context.Context, o *object.Object) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error; err != nil {
		r.log.Error("Failed to create object", "offeror_id", o.OfferorID, "error", err)
		return fmt.Errorf("failed to create object: %w", err)
	}

	r.log.Info("Object created", "object_id", o.ID, "offeror_id", o.OfferorID)
	return nil
}

func (r *PostgresObjectRepository) Save(ctx context.Context, o *object.Object) error {
	result := r.db.WithContext(ctx).Model(&object.Object{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"description": o.Description,
			"type_id":     o.TypeID,
		})
	if result.Error != nil {
		r.log.Error("Failed to update object", "object_id", o.ID, "error", result.Error)
		return fmt.Errorf("failed to update object: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apierr.NotFound(fmt.Sprintf("object %d not found", o.ID))
	}

	r.log.Info("Object updated", "object_id", o.ID)
	return nil
}

func (r *PostgresObjectRepository) UpdateStatus(ctx context.Context, id int, from, to object.Status) error {
	result := r.db.WithContext(ctx).Model(&object.Object{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		r.log.Error("Failed to update object status", "object_id", id, "error", result.Error)
		return fmt.Errorf("failed to update object status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.log.Warn("Object status changed concurrently", "object_id", id, "expected", from)
		return staleState("object", id, from)
	}

	r.log.Info("Object status updated", "object_id", id, "from", from, "to", to)
	return nil
}

func (r *PostgresObjectRepository) UpdateImage(ctx context.Context, id int, image string) error {
	result := r.db.WithContext(ctx).Model(&object.Object{}).
		Where("id = ?", id).
		Update("image", image)
	if result.Error != nil {
		r.log.Error("Failed to update object image", "object_id", id, "error", result.Error)
		return fmt.Errorf("failed to update object image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apierr.NotFound(fmt.Sprintf("object %d not found", id))
	}

	r.log.Info("Object image updated", "object_id", id)
	return nil
}
