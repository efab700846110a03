package repositories

import (
	"context"
	"errors"
	"fmt"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/models/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository manages activity rows. Mutating flows load the row
// through FindForUpdate inside a transaction so concurrent operations on the
// same activity serialize on its row lock.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*entities.Activity, error) {
	var activity entities.Activity

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&activity).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeActivityNotFound, "activity not found")
		}
		return nil, fmt.Errorf("failed to fetch activity: %w", err)
	}

	return &activity, nil
}

// FindForUpdate loads the activity under a row lock. SQLite (test harness)
// has no row locks; its write transaction already serializes the database.
func (r *ActivityRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, id string) (*entities.Activity, error) {
	var activity entities.Activity

	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.Where("id = ?", id).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeActivityNotFound, "activity not found")
		}
		return nil, fmt.Errorf("failed to lock activity: %w", err)
	}

	return &activity, nil
}

// UpdateCounters persists the denormalized participant/waitlist counters.
func (r *ActivityRepository) UpdateCounters(ctx context.Context, tx *gorm.DB, activity *entities.Activity) error {
	err := tx.WithContext(ctx).
		Model(&entities.Activity{}).
		Where("id = ?", activity.ID).
		Updates(map[string]interface{}{
			"current_participants_count": activity.CurrentParticipantsCount,
			"waitlist_count":             activity.WaitlistCount,
		}).Error

	if err != nil {
		return fmt.Errorf("failed to update activity counters: %w", err)
	}
	return nil
}
