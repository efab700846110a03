package responses

import "time"

type JoinActivityRes struct {
	ActivityID       string    `json:"activity_id"`
	Status           string    `json:"status"`
	Waitlisted       bool      `json:"waitlisted"`
	WaitlistPosition *int      `json:"waitlist_position,omitempty"`
	JoinedAt         time.Time `json:"joined_at"`
}

type LeaveActivityRes struct {
	ActivityID     string    `json:"activity_id"`
	PromotedUserID *string   `json:"promoted_user_id,omitempty"`
	LeftAt         time.Time `json:"left_at"`
}

type CancelParticipationRes struct {
	ActivityID     string    `json:"activity_id"`
	Status         string    `json:"status"`
	PromotedUserID *string   `json:"promoted_user_id,omitempty"`
	CancelledAt    time.Time `json:"cancelled_at"`
}

type ChangeRoleRes struct {
	ActivityID string `json:"activity_id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
}

type InvitationCreatedRes struct {
	InvitationID  string    `json:"invitation_id"`
	InvitedUserID string    `json:"invited_user_id"`
	InvitedAt     time.Time `json:"invited_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type FailedInvitationRes struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type SendInvitationsRes struct {
	Invited []InvitationCreatedRes `json:"invited"`
	Failed  []FailedInvitationRes  `json:"failed"`
}

type AcceptInvitationRes struct {
	ActivityID       string    `json:"activity_id"`
	Status           string    `json:"status"`
	Waitlisted       bool      `json:"waitlisted"`
	WaitlistPosition *int      `json:"waitlist_position,omitempty"`
	RespondedAt      time.Time `json:"responded_at"`
}

type DeclineInvitationRes struct {
	InvitationID string    `json:"invitation_id"`
	Status       string    `json:"status"`
	RespondedAt  time.Time `json:"responded_at"`
}

type MarkAttendanceRes struct {
	UpdatedCount int                   `json:"updated_count"`
	Failed       []FailedAttendanceRes `json:"failed"`
}

type FailedAttendanceRes struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type ConfirmAttendanceRes struct {
	ActivityID        string    `json:"activity_id"`
	ConfirmedUserID   string    `json:"confirmed_user_id"`
	VerificationCount int       `json:"verification_count"`
	ConfirmedAt       time.Time `json:"confirmed_at"`
}

// PaginatedRes wraps list payloads with the total the listing queries
// compute via a window function.
type PaginatedRes[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
