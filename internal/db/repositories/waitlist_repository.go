package repositories

import (
	"context"
	"errors"
	"fmt"

	"activity-platform/participation/internal/models/entities"

	"gorm.io/gorm"
)

type WaitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

func (r *WaitlistRepository) FindByUser(ctx context.Context, tx *gorm.DB, activityID, userID string) (*entities.WaitlistEntry, error) {
	var entry entities.WaitlistEntry

	err := tx.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch waitlist entry: %w", err)
	}

	return &entry, nil
}

// Head returns the entry with the smallest position, nil when the waitlist
// is empty.
func (r *WaitlistRepository) Head(ctx context.Context, tx *gorm.DB, activityID string) (*entities.WaitlistEntry, error) {
	var entry entities.WaitlistEntry

	err := tx.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("position ASC").
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch waitlist head: %w", err)
	}

	return &entry, nil
}

// MaxPosition returns the largest live position, 0 when empty.
func (r *WaitlistRepository) MaxPosition(ctx context.Context, tx *gorm.DB, activityID string) (int, error) {
	var max *int

	err := tx.WithContext(ctx).
		Model(&entities.WaitlistEntry{}).
		Where("activity_id = ?", activityID).
		Select("MAX(position)").
		Scan(&max).Error

	if err != nil {
		return 0, fmt.Errorf("failed to fetch max waitlist position: %w", err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *WaitlistRepository) Create(ctx context.Context, tx *gorm.DB, entry *entities.WaitlistEntry) error {
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	return nil
}

func (r *WaitlistRepository) Delete(ctx context.Context, tx *gorm.DB, entry *entities.WaitlistEntry) error {
	if err := tx.WithContext(ctx).Delete(entry).Error; err != nil {
		return fmt.Errorf("failed to delete waitlist entry: %w", err)
	}
	return nil
}

// ShiftDown decrements every position greater than the given one, restoring
// the contiguous [1..N] range after a removal.
func (r *WaitlistRepository) ShiftDown(ctx context.Context, tx *gorm.DB, activityID string, abovePosition int) error {
	err := tx.WithContext(ctx).
		Model(&entities.WaitlistEntry{}).
		Where("activity_id = ? AND position > ?", activityID, abovePosition).
		UpdateColumn("position", gorm.Expr("position - 1")).Error

	if err != nil {
		return fmt.Errorf("failed to compact waitlist positions: %w", err)
	}
	return nil
}

// ListOrdered returns all live entries ordered by position.
func (r *WaitlistRepository) ListOrdered(ctx context.Context, tx *gorm.DB, activityID string) ([]entities.WaitlistEntry, error) {
	var entries []entities.WaitlistEntry

	err := tx.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("position ASC").
		Find(&entries).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	return entries, nil
}
