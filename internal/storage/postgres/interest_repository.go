package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/storage/dberr"
)

// PostgresInterestRepository implements lifecycle.InterestStore using GORM
type PostgresInterestRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresInterestRepository creates a new interest repository
func NewPostgresInterestRepository(db *gorm.DB) *PostgresInterestRepository {
	return &PostgresInterestRepository{
		db:  db,
		log: logger.Repository("interest"),
	}
}

func (r *PostgresInterestRepository) withObject(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Object").Preload("Object.Type")
}

func (r *PostgresInterestRepository) Get(ctx context.Context, objectID, memberID int) (*interest.Interest, error) {
	r.log.Debug("retrieving interest", "object_id", objectID, "member_id", memberID)

	var i interest.Interest
	if err := r.withObject(ctx).
		Where("object_id = ? AND member_id = ?", objectID, memberID).
		First(&i).Error; err != nil {
		return nil, notFound(err,
			fmt.Sprintf("member %d has no interest in object %d", memberID, objectID),
			"failed to get interest")
	}
	return &i, nil
}

func (r *PostgresInterestRepository) list(ctx context.Context, query string, args ...any) ([]*interest.Interest, error) {
	var interests []*interest.Interest
	if err := r.withObject(ctx).
		Where(query, args...).
		Order("date DESC").Order("object_id").Order("member_id").
		Find(&interests).Error; err != nil {
		r.log.Error("Failed to list interests", "error", err)
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	return interests, nil
}

func (r *PostgresInterestRepository) GetAllForObject(ctx context.Context, objectID int) ([]*interest.Interest, error) {
	r.log.Debug("retrieving interests of object", "object_id", objectID)
	return r.list(ctx, "object_id = ?", objectID)
}

func (r *PostgresInterestRepository) GetPublishedForObject(ctx context.Context, objectID int) ([]*interest.Interest, error) {
	r.log.Debug("retrieving published interests of object", "object_id", objectID)
	return r.list(ctx, "object_id = ? AND status = ?", objectID, interest.StatusPublished)
}

func (r *PostgresInterestRepository) GetAssignedForObject(ctx context.Context, objectID int) (*interest.Interest, error) {
	r.log.Debug("retrieving assigned interest of object", "object_id", objectID)

	var i interest.Interest
	if err := r.withObject(ctx).
		Where("object_id = ? AND status = ?", objectID, interest.StatusAssigned).
		First(&i).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("object %d has no assigned interest", objectID), "failed to get assigned interest")
	}
	return &i, nil
}

func (r *PostgresInterestRepository) GetNotifications(ctx context.Context, memberID int) ([]*interest.Interest, error) {
	r.log.Debug("retrieving notifications", "member_id", memberID)

	var interests []*interest.Interest
	err := r.withObject(ctx).
		Select("interests.*").
		Joins("JOIN objects ON objects.id = interests.object_id").
		Where("(interests.member_id = ? AND interests.notify = ?)", memberID, true).
		Or("(interests.member_id <> ? AND objects.offeror_id = ? AND objects.status = ? AND interests.status = ?)",
			memberID, memberID, object.StatusInterested, interest.StatusPublished).
		Order("interests.date DESC").Order("interests.object_id").Order("interests.member_id").
		Find(&interests).Error
	if err != nil {
		r.log.Error("Failed to get notifications", "member_id", memberID, "error", err)
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	r.log.Debug("notifications retrieved", "member_id", memberID, "count", len(interests))
	return interests, nil
}

func (r *PostgresInterestRepository) Create(ctx context.Context, i *interest.Interest) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(i).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return apierr.New(apierr.KindConflict, "interest already exists", err)
		}
		r.log.Error("Failed to create interest", "object_id", i.ObjectID, "member_id", i.MemberID, "error", err)
		return fmt.Errorf("failed to create interest: %w", err)
	}

	r.log.Info("Interest created", "object_id", i.ObjectID, "member_id", i.MemberID)
	return nil
}

func (r *PostgresInterestRepository) SetNotify(ctx context.Context, objectID, memberID int, notify bool) error {
	result := r.db.WithContext(ctx).Model(&interest.Interest{}).
		Where("object_id = ? AND member_id = ?", objectID, memberID).
		Update("notify", notify)
	if result.Error != nil {
		r.log.Error("Failed to update interest notification", "object_id", objectID, "member_id", memberID, "error", result.Error)
		return fmt.Errorf("failed to update interest notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apierr.NotFound(fmt.Sprintf("member %d has no interest in object %d", memberID, objectID))
	}

	r.log.Debug("Interest notification updated", "object_id", objectID, "member_id", memberID, "notify", notify)
	return nil
}

func (r *PostgresInterestRepository) UpdateStatus(ctx context.Context, objectID, memberID int, from, to interest.Status) error {
	result := r.db.WithContext(ctx).Model(&interest.Interest{}).
		Where("object_id = ? AND member_id = ? AND status = ?", objectID, memberID, from).
		Update("status", to)
	if result.Error != nil {
		if dberr.IsUniqueViolation(result.Error) {
			r.log.Warn("Object already has an assigned interest", "object_id", objectID, "member_id", memberID)
			return fmt.Errorf("object %d already has an assigned interest: %w", objectID, apierr.ErrStaleState)
		}
		r.log.Error("Failed to update interest status", "object_id", objectID, "member_id", memberID, "error", result.Error)
		return fmt.Errorf("failed to update interest status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.log.Warn("Interest status changed concurrently", "object_id", objectID, "member_id", memberID, "expected", from)
		return staleState("interest", fmt.Sprintf("%d/%d", objectID, memberID), from)
	}

	r.log.Info("Interest status updated", "object_id", objectID, "member_id", memberID, "from", from, "to", to)
	return nil
}
