package repositories

import (
	"context"
	"fmt"

	"activity-platform/participation/internal/models/entities"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ConfirmationExists reports whether the (activity, confirmed, confirmer)
// triple is already recorded.
func (r *AttendanceRepository) ConfirmationExists(ctx context.Context, tx *gorm.DB, activityID, confirmedUserID, confirmerUserID string) (bool, error) {
	var count int64

	err := tx.WithContext(ctx).
		Model(&entities.AttendanceConfirmation{}).
		Where("activity_id = ? AND confirmed_user_id = ? AND confirmer_user_id = ?",
			activityID, confirmedUserID, confirmerUserID).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check confirmation: %w", err)
	}
	return count > 0, nil
}

func (r *AttendanceRepository) CreateConfirmation(ctx context.Context, tx *gorm.DB, confirmation *entities.AttendanceConfirmation) error {
	if err := tx.WithContext(ctx).Create(confirmation).Error; err != nil {
		return fmt.Errorf("failed to create confirmation: %w", err)
	}
	return nil
}
