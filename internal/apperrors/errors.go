package apperrors

import (
	"errors"
	"net/http"
)

// Stable error codes returned by the participation engine. The HTTP layer
// maps them to status codes; clients branch on the code, not the message.
const (
	CodeActivityNotFound     = "ACTIVITY_NOT_FOUND"
	CodeActivityNotPublished = "ACTIVITY_NOT_PUBLISHED"
	CodeActivityInPast       = "ACTIVITY_IN_PAST"
	CodeActivityNotCompleted = "ACTIVITY_NOT_COMPLETED"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeUserBanned           = "USER_BANNED"
	CodeUserIsOrganizer      = "USER_IS_ORGANIZER"
	CodeAlreadyJoined        = "ALREADY_JOINED"
	CodeBlockedUser          = "BLOCKED_USER"
	CodeFriendsOnly          = "FRIENDS_ONLY"
	CodeInviteOnly           = "INVITE_ONLY"
	CodePremiumOnlyPeriod    = "PREMIUM_ONLY_PERIOD"
	CodeNotParticipant       = "NOT_PARTICIPANT"
	CodeIsOrganizer          = "IS_ORGANIZER"
	CodeAlreadyCancelled     = "ALREADY_CANCELLED"
	CodeNotOrganizer         = "NOT_ORGANIZER"
	CodeNotAuthorized        = "NOT_AUTHORIZED"
	CodeTargetNotMember      = "TARGET_NOT_MEMBER"
	CodeAlreadyCoOrganizer   = "ALREADY_CO_ORGANIZER"
	CodeNotCoOrganizer       = "NOT_CO_ORGANIZER"
	CodeCannotPromoteSelf    = "CANNOT_PROMOTE_SELF"
	CodeNotInviteOnly        = "NOT_INVITE_ONLY"
	CodeTooManyInvitations   = "TOO_MANY_INVITATIONS"
	CodeInvitationNotFound   = "INVITATION_NOT_FOUND"
	CodeNotYourInvitation    = "NOT_YOUR_INVITATION"
	CodeAlreadyResponded     = "ALREADY_RESPONDED"
	CodeInvitationExpired    = "INVITATION_EXPIRED"
	CodeTooManyUpdates       = "TOO_MANY_UPDATES"
	CodeSelfConfirmation     = "SELF_CONFIRMATION"
	CodeConfirmerNotAttended = "CONFIRMER_NOT_ATTENDED"
	CodeConfirmedNotAttended = "CONFIRMED_NOT_ATTENDED"
	CodeAlreadyConfirmed     = "ALREADY_CONFIRMED"
)

// Error is a precondition failure with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// FromError extracts an *Error if err carries one.
func FromError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var notFoundCodes = map[string]bool{
	CodeActivityNotFound:   true,
	CodeUserNotFound:       true,
	CodeInvitationNotFound: true,
}

var forbiddenCodes = map[string]bool{
	CodeUserBanned:        true,
	CodeBlockedUser:       true,
	CodeFriendsOnly:       true,
	CodeInviteOnly:        true,
	CodePremiumOnlyPeriod: true,
	CodeUserIsOrganizer:   true,
	CodeIsOrganizer:       true,
	CodeNotOrganizer:      true,
	CodeNotAuthorized:     true,
	CodeNotYourInvitation: true,
}

// HTTPStatus maps a code to its transport status. Unknown codes fall back
// to 400 so new engine conditions never surface as 500s.
func HTTPStatus(code string) int {
	switch {
	case notFoundCodes[code]:
		return http.StatusNotFound
	case forbiddenCodes[code]:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
