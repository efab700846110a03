package entities

import "time"

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationCancelled InvitationStatus = "cancelled"
	// InvitationExpired is a read-time rendering of a pending invitation
	// whose expires_at has passed. It is never stored.
	InvitationExpired InvitationStatus = "expired"
)

// The partial unique index backs the one-pending-invitation-per-invitee
// rule even across concurrent senders; responded rows fall out of it.
type Invitation struct {
	ID            string           `gorm:"column:id;primaryKey;type:uuid"`
	ActivityID    string           `gorm:"column:activity_id;type:uuid;index;uniqueIndex:uniq_pending_invitation,where:status = 'pending'"`
	InvitedUserID string           `gorm:"column:invited_user_id;type:uuid;index;uniqueIndex:uniq_pending_invitation"`
	InvitedByID   string           `gorm:"column:invited_by_user_id;type:uuid"`
	Status        InvitationStatus `gorm:"column:status;default:pending;index"`
	Message       *string          `gorm:"column:message"`
	ExpiresAt     time.Time        `gorm:"column:expires_at"`
	RespondedAt   *time.Time       `gorm:"column:responded_at"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Activity    *Activity `gorm:"foreignKey:ActivityID"`
	InvitedUser *User     `gorm:"foreignKey:InvitedUserID"`
	InvitedBy   *User     `gorm:"foreignKey:InvitedByID"`
}

// TableName specifies the table name for GORM
func (Invitation) TableName() string {
	return "activity_invitations"
}

func (i *Invitation) IsExpired(now time.Time) bool {
	return i.Status == InvitationPending && now.After(i.ExpiresAt)
}

// DisplayStatus renders the lazy expiry view.
func (i *Invitation) DisplayStatus(now time.Time) InvitationStatus {
	if i.IsExpired(now) {
		return InvitationExpired
	}
	return i.Status
}
