package constants

// Bulk operation bounds enforced by the engine, not the transport layer.
const (
	MaxAttendanceUpdates     = 100
	MaxInvitationsPerRequest = 50
)

// Invitation expiry bounds in hours.
const (
	DefaultInvitationTTLHours = 72
	MinInvitationTTLHours     = 1
	MaxInvitationTTLHours     = 168
)

// Free-text field bounds.
const (
	MaxCancelReasonLength      = 500
	MaxInvitationMessageLength = 1000
)

// Pagination defaults for read endpoints.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)
