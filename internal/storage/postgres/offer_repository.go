package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/offer"
	"github.com/Naya-01/PAE/internal/logger"
)

// PostgresOfferRepository implements lifecycle.OfferStore using GORM
type PostgresOfferRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresOfferRepository creates a new offer repository
func NewPostgresOfferRepository(db *gorm.DB) *PostgresOfferRepository {
	return &PostgresOfferRepository{
		db:  db,
		log: logger.Repository("offer"),
	}
}

func (r *PostgresOfferRepository) withObject(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Object").Preload("Object.Type")
}

func (r *PostgresOfferRepository) GetByID(ctx context.Context, id int) (*offer.Offer, error) {
	r.log.Debug("retrieving offer by ID", "offer_id", id)

	var o offer.Offer
	if err := r.withObject(ctx).First(&o, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("offer %d not found", id), "failed to get offer by ID")
	}
	return &o, nil
}

func (r *PostgresOfferRepository) GetLatestForObject(ctx context.Context, objectID int) (*offer.Offer, error) {
	r.log.Debug("retrieving latest offer of object", "object_id", objectID)

	var o offer.Offer
	if err := r.withObject(ctx).
		Where("object_id = ?", objectID).
		Order("date DESC").Order("id DESC").
		First(&o).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("no offer found for object %d", objectID), "failed to get latest offer")
	}
	return &o, nil
}

func (r *PostgresOfferRepository) ListLatest(ctx context.Context, limit int) ([]*offer.Offer, error) {
	return r.List(ctx, offer.Filter{Limit: limit})
}

func (r *PostgresOfferRepository) List(ctx context.Context, filter offer.Filter) ([]*offer.Offer, error) {
	r.log.Debug("listing offers", "search", filter.Search, "offeror_id", filter.OfferorID, "type", filter.TypeName)

	q := r.withObject(ctx).
		Select("offers.*").
		Joins("JOIN objects ON objects.id = offers.object_id").
		Joins("JOIN types ON types.id = objects.type_id")

	if filter.OfferorID != 0 {
		q = q.Where("objects.offeror_id = ?", filter.OfferorID)
	}
	if filter.TypeName != "" {
		q = q.Where("LOWER(types.name) = LOWER(?)", filter.TypeName)
	}
	if filter.ObjectStatus != nil {
		q = q.Where("objects.status = ?", *filter.ObjectStatus)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where(`(LOWER(objects.description) LIKE ? ESCAPE '\' OR LOWER(offers.time_slot) LIKE ? ESCAPE '\'
			OR offers.status LIKE ? ESCAPE '\' OR LOWER(types.name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var offers []*offer.Offer
	if err := q.Order("offers.date DESC").Order("offers.id DESC").Find(&offers).Error; err != nil {
		r.log.Error("Failed to list offers", "error", err)
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	r.log.Debug("offers listed", "count", len(offers))
	return offers, nil
}

func (r *PostgresOfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error; err != nil {
		r.log.Error("Failed to create offer", "object_id", o.ObjectID, "error", err)
		return fmt.Errorf("failed to create offer: %w", err)
	}

	r.log.Info("Offer created", "offer_id", o.ID, "object_id", o.ObjectID, "status", o.Status)
	return nil
}

func (r *PostgresOfferRepository) Save(ctx context.Context, o *offer.Offer) error {
	result := r.db.WithContext(ctx).Model(&offer.Offer{}).
		Where("id = ?", o.ID).
		Update("time_slot", o.TimeSlot)
	if result.Error != nil {
		r.log.Error("Failed to update offer", "offer_id", o.ID, "error", result.Error)
		return fmt.Errorf("failed to update offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apierr.NotFound(fmt.Sprintf("offer %d not found", o.ID))
	}

	r.log.Info("Offer updated", "offer_id", o.ID)
	return nil
}

func (r *PostgresOfferRepository) UpdateStatus(ctx context.Context, id int, from, to offer.Status) error {
	result := r.db.WithContext(ctx).Model(&offer.Offer{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		r.log.Error("Failed to update offer status", "offer_id", id, "error", result.Error)
		return fmt.Errorf("failed to update offer status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.log.Warn("Offer status changed concurrently", "offer_id", id, "expected", from)
		return staleState("offer", id, from)
	}

	r.log.Info("Offer status updated", "offer_id", id, "from", from, "to", to)
	return nil
}
