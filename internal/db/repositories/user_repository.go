package repositories

import (
	"context"
	"errors"
	"fmt"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/models/entities"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*entities.User, error) {
	var user entities.User

	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// IncrementNoShowCount bumps the user's global no-show counter.
func (r *UserRepository) IncrementNoShowCount(ctx context.Context, tx *gorm.DB, userID string) error {
	err := tx.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		UpdateColumn("no_show_count", gorm.Expr("no_show_count + ?", 1)).Error

	if err != nil {
		return fmt.Errorf("failed to increment no-show count: %w", err)
	}
	return nil
}

// IncrementVerificationCount bumps the user's peer-verification counter and
// returns the new value.
func (r *UserRepository) IncrementVerificationCount(ctx context.Context, tx *gorm.DB, userID string) (int, error) {
	err := tx.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		UpdateColumn("verification_count", gorm.Expr("verification_count + ?", 1)).Error

	if err != nil {
		return 0, fmt.Errorf("failed to increment verification count: %w", err)
	}

	var user entities.User
	if err := tx.WithContext(ctx).Select("verification_count").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, fmt.Errorf("failed to reload verification count: %w", err)
	}
	return user.VerificationCount, nil
}
