package requests

// CancelParticipationReq carries an optional reason kept on the history row.
type CancelParticipationReq struct {
	Reason *string `json:"reason,omitempty"`
}

type ChangeRoleReq struct {
	UserID string `json:"user_id"`
}

type SendInvitationsReq struct {
	UserIDs        []string `json:"user_ids"`
	Message        *string  `json:"message,omitempty"`
	ExpiresInHours int      `json:"expires_in_hours,omitempty"`
}

type AttendanceUpdateReq struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type MarkAttendanceReq struct {
	Updates []AttendanceUpdateReq `json:"updates"`
}

type ConfirmAttendanceReq struct {
	ActivityID      string `json:"activity_id"`
	ConfirmedUserID string `json:"confirmed_user_id"`
}
