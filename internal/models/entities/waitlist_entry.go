package entities

import "time"

// WaitlistEntry is one user's place in an activity's FIFO waitlist.
// Positions are 1-based and contiguous among live entries.
type WaitlistEntry struct {
	ID         string     `gorm:"column:id;primaryKey;type:uuid"`
	ActivityID string     `gorm:"column:activity_id;type:uuid;index"`
	UserID     string     `gorm:"column:user_id;type:uuid;index"`
	Position   int        `gorm:"column:position"`
	NotifiedAt *time.Time `gorm:"column:notified_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	User *User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (WaitlistEntry) TableName() string {
	return "activity_waitlist"
}
