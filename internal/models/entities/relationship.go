package entities

import "time"

// UserBlock is a directed block; blocking checks treat it as symmetric.
type UserBlock struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	BlockerUserID string    `gorm:"column:blocker_user_id;type:uuid;index"`
	BlockedUserID string    `gorm:"column:blocked_user_id;type:uuid;index"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (UserBlock) TableName() string {
	return "user_blocks"
}

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

type Friendship struct {
	ID           string           `gorm:"column:id;primaryKey;type:uuid"`
	UserID       string           `gorm:"column:user_id;type:uuid;index"`
	FriendUserID string           `gorm:"column:friend_user_id;type:uuid;index"`
	Status       FriendshipStatus `gorm:"column:status;default:pending"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}
