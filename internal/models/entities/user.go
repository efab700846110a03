package entities

import "time"

type SubscriptionLevel string

const (
	SubscriptionFree    SubscriptionLevel = "free"
	SubscriptionClub    SubscriptionLevel = "club"
	SubscriptionPremium SubscriptionLevel = "premium"
)

type User struct {
	ID              string `gorm:"column:id;primaryKey;type:uuid"`
	Username        string `gorm:"column:username;uniqueIndex"`
	FirstName       string `gorm:"column:first_name"`
	LastName        string `gorm:"column:last_name"`
	ProfilePhotoURL string `gorm:"column:profile_photo_url"`
	IsActive        bool   `gorm:"column:is_active;default:true"`
	IsBanned        bool   `gorm:"column:is_banned;default:false"`
	// NoShowCount and VerificationCount are denormalized counters maintained
	// by the attendance tracker.
	NoShowCount       int       `gorm:"column:no_show_count;default:0"`
	VerificationCount int       `gorm:"column:verification_count;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
