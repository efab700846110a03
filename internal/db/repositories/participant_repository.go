package repositories

import (
	"context"
	"errors"
	"fmt"

	"activity-platform/participation/internal/models/entities"

	"gorm.io/gorm"
)

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// FindRegistered returns the user's active participant row for the
// activity, or nil when none exists.
func (r *ParticipantRepository) FindRegistered(ctx context.Context, tx *gorm.DB, activityID, userID string) (*entities.Participant, error) {
	var participant entities.Participant

	err := tx.WithContext(ctx).
		Where("activity_id = ? AND user_id = ? AND participation_status = ?",
			activityID, userID, entities.ParticipationRegistered).
		First(&participant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch participant: %w", err)
	}

	return &participant, nil
}

// FindLatest returns the user's most recent participant row regardless of
// status. Cancel uses it to distinguish ALREADY_CANCELLED from
// NOT_PARTICIPANT.
func (r *ParticipantRepository) FindLatest(ctx context.Context, tx *gorm.DB, activityID, userID string) (*entities.Participant, error) {
	var participant entities.Participant

	err := tx.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Order("created_at DESC").
		First(&participant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch participant: %w", err)
	}

	return &participant, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, tx *gorm.DB, participant *entities.Participant) error {
	if err := tx.WithContext(ctx).Create(participant).Error; err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) Save(ctx context.Context, tx *gorm.DB, participant *entities.Participant) error {
	if err := tx.WithContext(ctx).Save(participant).Error; err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return nil
}

// Delete removes the row outright; leave semantics keep no history.
func (r *ParticipantRepository) Delete(ctx context.Context, tx *gorm.DB, participant *entities.Participant) error {
	if err := tx.WithContext(ctx).Delete(participant).Error; err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}

// CountRegistered counts active participant rows; the engine uses it to
// verify the denormalized counter in tests.
func (r *ParticipantRepository) CountRegistered(ctx context.Context, tx *gorm.DB, activityID string) (int64, error) {
	var count int64

	err := tx.WithContext(ctx).
		Model(&entities.Participant{}).
		Where("activity_id = ? AND participation_status = ?", activityID, entities.ParticipationRegistered).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}
