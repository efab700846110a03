package repositories

import (
	"context"
	"errors"
	"fmt"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/models/entities"

	"gorm.io/gorm"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*entities.Invitation, error) {
	var invitation entities.Invitation

	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&invitation).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeInvitationNotFound, "invitation not found")
		}
		return nil, fmt.Errorf("failed to fetch invitation: %w", err)
	}

	return &invitation, nil
}

// FindPending returns the user's pending invitation for the activity, nil
// when none exists. Callers decide whether an expired pending row counts.
func (r *InvitationRepository) FindPending(ctx context.Context, tx *gorm.DB, activityID, userID string) (*entities.Invitation, error) {
	var invitation entities.Invitation

	err := tx.WithContext(ctx).
		Where("activity_id = ? AND invited_user_id = ? AND status = ?",
			activityID, userID, entities.InvitationPending).
		First(&invitation).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pending invitation: %w", err)
	}

	return &invitation, nil
}

func (r *InvitationRepository) Create(ctx context.Context, tx *gorm.DB, invitation *entities.Invitation) error {
	if err := tx.WithContext(ctx).Create(invitation).Error; err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

func (r *InvitationRepository) Save(ctx context.Context, tx *gorm.DB, invitation *entities.Invitation) error {
	if err := tx.WithContext(ctx).Save(invitation).Error; err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}
	return nil
}

// Delete removes the invitation outright; cancellation is not soft state.
func (r *InvitationRepository) Delete(ctx context.Context, tx *gorm.DB, invitation *entities.Invitation) error {
	if err := tx.WithContext(ctx).Delete(invitation).Error; err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	return nil
}
