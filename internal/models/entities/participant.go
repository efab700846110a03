package entities

import "time"

type ParticipantRole string

const (
	RoleOrganizer   ParticipantRole = "organizer"
	RoleCoOrganizer ParticipantRole = "co_organizer"
	RoleMember      ParticipantRole = "member"
)

type ParticipationStatus string

const (
	ParticipationRegistered ParticipationStatus = "registered"
	ParticipationCancelled  ParticipationStatus = "cancelled"
	ParticipationWithdrawn  ParticipationStatus = "withdrawn"
)

type AttendanceStatus string

const (
	AttendanceUnmarked AttendanceStatus = "unmarked"
	AttendanceAttended AttendanceStatus = "attended"
	AttendanceNoShow   AttendanceStatus = "no_show"
)

// Participant is one user's membership in one activity. A user has at most
// one registered row per activity; cancelled rows are kept for history and a
// re-join creates a fresh row.
type Participant struct {
	ID                  string              `gorm:"column:id;primaryKey;type:uuid"`
	ActivityID          string              `gorm:"column:activity_id;type:uuid;index"`
	UserID              string              `gorm:"column:user_id;type:uuid;index"`
	Role                ParticipantRole     `gorm:"column:role;default:member"`
	ParticipationStatus ParticipationStatus `gorm:"column:participation_status;default:registered"`
	AttendanceStatus    AttendanceStatus    `gorm:"column:attendance_status;default:unmarked"`
	CancelReason        *string             `gorm:"column:cancel_reason"`
	JoinedAt            time.Time           `gorm:"column:joined_at"`
	LeftAt              *time.Time          `gorm:"column:left_at"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Activity *Activity `gorm:"foreignKey:ActivityID"`
	User     *User     `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (Participant) TableName() string {
	return "activity_participants"
}
