package entities

import "time"

type ActivityStatus string

const (
	ActivityStatusDraft     ActivityStatus = "draft"
	ActivityStatusPublished ActivityStatus = "published"
	ActivityStatusCancelled ActivityStatus = "cancelled"
	ActivityStatusCompleted ActivityStatus = "completed"
)

type PrivacyMode string

const (
	PrivacyPublic      PrivacyMode = "public"
	PrivacyFriendsOnly PrivacyMode = "friends_only"
	PrivacyInviteOnly  PrivacyMode = "invite_only"
)

type ActivityType string

const (
	ActivityTypeStandard ActivityType = "standard"
	// ActivityTypeXXL marks large open gatherings; blocking is not enforced
	// for them.
	ActivityTypeXXL ActivityType = "xxl"
)

type Activity struct {
	ID                       string         `gorm:"column:id;primaryKey;type:uuid"`
	OrganizerID              string         `gorm:"column:organizer_user_id;type:uuid;index"`
	Title                    string         `gorm:"column:title"`
	LocationName             string         `gorm:"column:location_name"`
	City                     string         `gorm:"column:city"`
	ScheduledAt              time.Time      `gorm:"column:scheduled_at;index"`
	Status                   ActivityStatus `gorm:"column:status;default:draft"`
	Privacy                  PrivacyMode    `gorm:"column:privacy;default:public"`
	ActivityType             ActivityType   `gorm:"column:activity_type;default:standard"`
	MaxParticipants          int            `gorm:"column:max_participants"`
	CurrentParticipantsCount int            `gorm:"column:current_participants_count;default:0"`
	WaitlistCount            int            `gorm:"column:waitlist_count;default:0"`
	// JoinableAtFree gates free-tier users until the timestamp passes.
	JoinableAtFree *time.Time `gorm:"column:joinable_at_free"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Organizer    *User         `gorm:"foreignKey:OrganizerID"`
	Participants []Participant `gorm:"foreignKey:ActivityID"`
}

// TableName specifies the table name for GORM
func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) HasStarted(now time.Time) bool {
	return !a.ScheduledAt.After(now)
}

func (a *Activity) IsFull() bool {
	return a.CurrentParticipantsCount >= a.MaxParticipants
}
