package repositories

import (
	"context"
	"fmt"

	"activity-platform/participation/internal/models/entities"

	"gorm.io/gorm"
)

// RelationshipRepository answers blocking and friendship questions. The
// engine consults these relations but never mutates them.
type RelationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

// IsBlockedEitherWay reports whether either user blocks the other.
func (r *RelationshipRepository) IsBlockedEitherWay(ctx context.Context, tx *gorm.DB, userA, userB string) (bool, error) {
	var count int64

	err := tx.WithContext(ctx).
		Model(&entities.UserBlock{}).
		Where("(blocker_user_id = ? AND blocked_user_id = ?) OR (blocker_user_id = ? AND blocked_user_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check blocks: %w", err)
	}
	return count > 0, nil
}

// AreFriends reports whether an accepted friendship exists in either
// direction.
func (r *RelationshipRepository) AreFriends(ctx context.Context, tx *gorm.DB, userA, userB string) (bool, error) {
	var count int64

	err := tx.WithContext(ctx).
		Model(&entities.Friendship{}).
		Where("status = ? AND ((user_id = ? AND friend_user_id = ?) OR (user_id = ? AND friend_user_id = ?))",
			entities.FriendshipAccepted, userA, userB, userB, userA).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return count > 0, nil
}
