package services

import (
	"time"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/models/entities"
)

// AdmissionDecision is the outcome of a successful admission evaluation.
type AdmissionDecision int

const (
	AdmissionAdmit AdmissionDecision = iota
	AdmissionWaitlist
)

// AdmissionSnapshot is the state an admission decision is made against. It
// is loaded under the activity row lock so the decision and the commit see
// the same world.
type AdmissionSnapshot struct {
	Activity *entities.Activity
	// User is nil when the caller does not exist.
	User *entities.User
	// AlreadyParticipant is true when a registered participant row exists.
	AlreadyParticipant bool
	// AlreadyWaitlisted is true when a live waitlist entry exists.
	AlreadyWaitlisted bool
	// BlockedEitherWay is true when the user or the organizer blocks the
	// other.
	BlockedEitherWay bool
	// FriendsWithOrganizer is true when an accepted friendship with the
	// organizer exists. Only loaded for friends_only activities.
	FriendsWithOrganizer bool
	// Invitation is the user's pending invitation, nil when none exists.
	// Only loaded for invite_only activities.
	Invitation *entities.Invitation
	Now        time.Time
}

// blockingExempt names the one category exception: xxl activities do not
// enforce blocking between participants and the organizer.
func blockingExempt(a *entities.Activity) bool {
	return a.ActivityType == entities.ActivityTypeXXL
}

// bypassesFreeGate names the subscription exception: club and premium tiers
// ignore the joinable_at_free window.
func bypassesFreeGate(level entities.SubscriptionLevel) bool {
	return level != entities.SubscriptionFree
}

// EvaluateAdmission runs the admission check chain in order and fails fast
// on the first violated precondition. On success the decision is Admit when
// a slot is free and Waitlist otherwise; capacity exhaustion is never an
// error.
func EvaluateAdmission(snap AdmissionSnapshot, level entities.SubscriptionLevel) (AdmissionDecision, error) {
	activity := snap.Activity

	if activity == nil {
		return 0, apperrors.New(apperrors.CodeActivityNotFound, "activity not found")
	}
	if activity.Status != entities.ActivityStatusPublished {
		return 0, apperrors.New(apperrors.CodeActivityNotPublished, "activity is not published")
	}
	if activity.HasStarted(snap.Now) {
		return 0, apperrors.New(apperrors.CodeActivityInPast, "cannot join past activities")
	}

	if snap.User == nil || !snap.User.IsActive {
		return 0, apperrors.New(apperrors.CodeUserNotFound, "user not found")
	}
	if snap.User.IsBanned {
		return 0, apperrors.New(apperrors.CodeUserBanned, "account is banned")
	}

	if snap.User.ID == activity.OrganizerID {
		return 0, apperrors.New(apperrors.CodeUserIsOrganizer, "organizer cannot join own activity")
	}

	if snap.AlreadyParticipant || snap.AlreadyWaitlisted {
		return 0, apperrors.New(apperrors.CodeAlreadyJoined, "already joined this activity")
	}

	if !blockingExempt(activity) && snap.BlockedEitherWay {
		return 0, apperrors.New(apperrors.CodeBlockedUser, "cannot join this activity")
	}

	if activity.Privacy == entities.PrivacyFriendsOnly && !snap.FriendsWithOrganizer {
		return 0, apperrors.New(apperrors.CodeFriendsOnly, "activity is friends only")
	}

	if activity.Privacy == entities.PrivacyInviteOnly {
		if snap.Invitation == nil || snap.Invitation.IsExpired(snap.Now) {
			return 0, apperrors.New(apperrors.CodeInviteOnly, "activity is invite only")
		}
	}

	if activity.JoinableAtFree != nil && snap.Now.Before(*activity.JoinableAtFree) && !bypassesFreeGate(level) {
		return 0, apperrors.New(apperrors.CodePremiumOnlyPeriod, "activity is currently only open to premium members")
	}

	if activity.IsFull() {
		return AdmissionWaitlist, nil
	}
	return AdmissionAdmit, nil
}
