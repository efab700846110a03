package services

import (
	"testing"
	"time"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/models/entities"
)

func baseSnapshot() AdmissionSnapshot {
	now := time.Now().UTC()
	return AdmissionSnapshot{
		Activity: &entities.Activity{
			ID:              "act-1",
			OrganizerID:     "organizer-1",
			Status:          entities.ActivityStatusPublished,
			Privacy:         entities.PrivacyPublic,
			ActivityType:    entities.ActivityTypeStandard,
			ScheduledAt:     now.Add(24 * time.Hour),
			MaxParticipants: 10,
		},
		User: &entities.User{ID: "user-1", IsActive: true},
		Now:  now,
	}
}

func TestEvaluateAdmission_Admit(t *testing.T) {
	decision, err := EvaluateAdmission(baseSnapshot(), entities.SubscriptionFree)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decision != AdmissionAdmit {
		t.Errorf("Expected admit, got %v", decision)
	}
}

func TestEvaluateAdmission_FullWaitlists(t *testing.T) {
	snap := baseSnapshot()
	snap.Activity.CurrentParticipantsCount = snap.Activity.MaxParticipants

	decision, err := EvaluateAdmission(snap, entities.SubscriptionFree)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decision != AdmissionWaitlist {
		t.Errorf("Expected waitlist, got %v", decision)
	}
}

func TestEvaluateAdmission_CheckOrder(t *testing.T) {
	// Activity state is checked before user state: a banned user joining an
	// unpublished activity sees the activity error.
	snap := baseSnapshot()
	snap.Activity.Status = entities.ActivityStatusDraft
	snap.User.IsBanned = true

	_, err := EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodeActivityNotPublished)

	snap = baseSnapshot()
	snap.Activity.ScheduledAt = snap.Now.Add(-time.Hour)
	snap.User = nil

	_, err = EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodeActivityInPast)
}

func TestEvaluateAdmission_MissingOrInactiveUser(t *testing.T) {
	snap := baseSnapshot()
	snap.User = nil
	_, err := EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodeUserNotFound)

	snap = baseSnapshot()
	snap.User.IsActive = false
	_, err = EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodeUserNotFound)
}

func TestEvaluateAdmission_OrganizerBeforeDuplicate(t *testing.T) {
	snap := baseSnapshot()
	snap.User.ID = snap.Activity.OrganizerID
	snap.AlreadyParticipant = true

	_, err := EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodeUserIsOrganizer)
}

func TestEvaluateAdmission_BlockingExemption(t *testing.T) {
	snap := baseSnapshot()
	snap.BlockedEitherWay = true

	_, err := EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodeBlockedUser)

	snap.Activity.ActivityType = entities.ActivityTypeXXL
	decision, err := EvaluateAdmission(snap, entities.SubscriptionFree)
	if err != nil {
		t.Fatalf("Expected xxl to skip blocking, got %v", err)
	}
	if decision != AdmissionAdmit {
		t.Errorf("Expected admit, got %v", decision)
	}
}

func TestEvaluateAdmission_InviteOnly(t *testing.T) {
	snap := baseSnapshot()
	snap.Activity.Privacy = entities.PrivacyInviteOnly

	_, err := EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodeInviteOnly)

	// An expired pending invitation does not authorize.
	snap.Invitation = &entities.Invitation{
		Status:    entities.InvitationPending,
		ExpiresAt: snap.Now.Add(-time.Hour),
	}
	_, err = EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodeInviteOnly)

	snap.Invitation.ExpiresAt = snap.Now.Add(time.Hour)
	if _, err := EvaluateAdmission(snap, entities.SubscriptionFree); err != nil {
		t.Fatalf("Expected valid invitation to admit, got %v", err)
	}
}

func TestEvaluateAdmission_FreeGateBySubscription(t *testing.T) {
	snap := baseSnapshot()
	gate := snap.Now.Add(6 * time.Hour)
	snap.Activity.JoinableAtFree = &gate

	_, err := EvaluateAdmission(snap, entities.SubscriptionFree)
	expectCode(t, err, apperrors.CodePremiumOnlyPeriod)

	for _, level := range []entities.SubscriptionLevel{entities.SubscriptionClub, entities.SubscriptionPremium} {
		if _, err := EvaluateAdmission(snap, level); err != nil {
			t.Errorf("Expected %s to bypass the gate, got %v", level, err)
		}
	}

	// Once the window passes, free users are admitted too.
	past := snap.Now.Add(-time.Minute)
	snap.Activity.JoinableAtFree = &past
	if _, err := EvaluateAdmission(snap, entities.SubscriptionFree); err != nil {
		t.Errorf("Expected free join after the gate, got %v", err)
	}
}
