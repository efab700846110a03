package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/models/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestInvitationService_Send_PartialSuccess(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	alreadyInvited := createTestUser(t, db, "already_invited")
	blocked := createTestUser(t, db, "blocked")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	existing := entities.Invitation{
		ID:            uuid.NewString(),
		ActivityID:    activity.ID,
		InvitedUserID: alreadyInvited.ID,
		InvitedByID:   organizer.ID,
		Status:        entities.InvitationPending,
		ExpiresAt:     time.Now().UTC().Add(24 * time.Hour),
	}
	db.Create(&existing)

	block := entities.UserBlock{
		ID:            uuid.NewString(),
		BlockerUserID: blocked.ID,
		BlockedUserID: organizer.ID,
	}
	db.Create(&block)

	service := NewInvitationService(db, nil, nil)

	result, err := service.Send(context.Background(), activity.ID, organizer.ID,
		[]string{invitee.ID, alreadyInvited.ID, blocked.ID, "no-such-user"}, nil, 0)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(result.Invited) != 1 {
		t.Fatalf("Expected 1 invited, got %d", len(result.Invited))
	}
	if result.Invited[0].InvitedUserID != invitee.ID {
		t.Errorf("Expected %s invited, got %s", invitee.ID, result.Invited[0].InvitedUserID)
	}
	if len(result.Failed) != 3 {
		t.Errorf("Expected 3 failures, got %d", len(result.Failed))
	}

	// Default TTL applies when none is given.
	ttl := time.Until(result.Invited[0].ExpiresAt)
	if ttl < 71*time.Hour || ttl > 73*time.Hour {
		t.Errorf("Expected ~72h TTL, got %v", ttl)
	}
}

func TestInvitationService_Send_DuplicateTargetsCollapse(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)

	result, err := service.Send(context.Background(), activity.ID, organizer.ID,
		[]string{invitee.ID, invitee.ID, invitee.ID}, nil, 0)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(result.Invited) != 1 || len(result.Failed) != 0 {
		t.Fatalf("Expected 1 invited and 0 failed, got %d/%d", len(result.Invited), len(result.Failed))
	}

	var count int64
	db.Model(&entities.Invitation{}).
		Where("activity_id = ? AND invited_user_id = ?", activity.ID, invitee.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 invitation row, got %d", count)
	}
}

func TestInvitationService_PendingUniqueness(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)

	pending := func() *entities.Invitation {
		return &entities.Invitation{
			ID:            uuid.NewString(),
			ActivityID:    activity.ID,
			InvitedUserID: invitee.ID,
			InvitedByID:   organizer.ID,
			Status:        entities.InvitationPending,
			ExpiresAt:     time.Now().UTC().Add(24 * time.Hour),
		}
	}

	first := pending()
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("First pending invitation failed: %v", err)
	}

	// A second pending row for the same pair must be rejected by the
	// index, whichever transaction got there second.
	err := db.Create(pending()).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Expected duplicate key error, got %v", err)
	}

	// Responded rows leave the index, so a fresh invitation can follow.
	db.Model(first).Update("status", entities.InvitationDeclined)
	if err := db.Create(pending()).Error; err != nil {
		t.Fatalf("Re-invite after decline failed: %v", err)
	}
}

func TestInvitationService_Send_NotInviteOnly(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)

	service := NewInvitationService(db, nil, nil)

	_, err := service.Send(context.Background(), activity.ID, organizer.ID, []string{invitee.ID}, nil, 0)
	expectCode(t, err, apperrors.CodeNotInviteOnly)
}

func TestInvitationService_Send_NotAuthorized(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	stranger := createTestUser(t, db, "stranger")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)

	_, err := service.Send(context.Background(), activity.ID, stranger.ID, []string{invitee.ID}, nil, 0)
	expectCode(t, err, apperrors.CodeNotAuthorized)
}

func TestInvitationService_Send_BatchLimit(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	activity := createTestActivity(t, db, organizer.ID, 5)

	service := NewInvitationService(db, nil, nil)

	targets := make([]string, 51)
	for i := range targets {
		targets[i] = uuid.NewString()
	}
	_, err := service.Send(context.Background(), activity.ID, organizer.ID, targets, nil, 0)
	expectCode(t, err, apperrors.CodeTooManyInvitations)

	_, err = service.Send(context.Background(), activity.ID, organizer.ID, nil, nil, 0)
	expectCode(t, err, apperrors.CodeTooManyInvitations)
}

func sendInvitation(t *testing.T, service *InvitationService, activityID, organizerID, targetID string) string {
	result, err := service.Send(context.Background(), activityID, organizerID, []string{targetID}, nil, 0)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(result.Invited) != 1 {
		t.Fatalf("Expected invitation created, failures: %v", result.Failed)
	}
	return result.Invited[0].InvitationID
}

func TestInvitationService_Accept_Registers(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)
	invitationID := sendInvitation(t, service, activity.ID, organizer.ID, invitee.ID)

	result, err := service.Accept(context.Background(), invitationID, invitee.ID)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if result.Waitlisted {
		t.Error("Expected direct registration")
	}

	updated := reloadActivity(t, db, activity.ID)
	if updated.CurrentParticipantsCount != 1 {
		t.Errorf("Expected participant count 1, got %d", updated.CurrentParticipantsCount)
	}

	var invitation entities.Invitation
	db.Where("id = ?", invitationID).First(&invitation)
	if invitation.Status != entities.InvitationAccepted {
		t.Errorf("Expected invitation accepted, got %s", invitation.Status)
	}
	if invitation.RespondedAt == nil {
		t.Error("Expected responded_at to be set")
	}
}

func TestInvitationService_Accept_FullGoesToWaitlist(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	first := createTestUser(t, db, "first")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 1)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	invitations := NewInvitationService(db, nil, nil)

	firstInvite := sendInvitation(t, invitations, activity.ID, organizer.ID, first.ID)
	if _, err := invitations.Accept(context.Background(), firstInvite, first.ID); err != nil {
		t.Fatalf("First accept failed: %v", err)
	}

	secondInvite := sendInvitation(t, invitations, activity.ID, organizer.ID, invitee.ID)
	result, err := invitations.Accept(context.Background(), secondInvite, invitee.ID)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if !result.Waitlisted || result.WaitlistPosition != 1 {
		t.Errorf("Expected waitlist position 1, got waitlisted=%v position=%d", result.Waitlisted, result.WaitlistPosition)
	}

	updated := reloadActivity(t, db, activity.ID)
	if updated.CurrentParticipantsCount != 1 || updated.WaitlistCount != 1 {
		t.Errorf("Expected counts 1/1, got %d/%d", updated.CurrentParticipantsCount, updated.WaitlistCount)
	}
}

func TestInvitationService_Accept_WrongUser(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	other := createTestUser(t, db, "other")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)
	invitationID := sendInvitation(t, service, activity.ID, organizer.ID, invitee.ID)

	_, err := service.Accept(context.Background(), invitationID, other.ID)
	expectCode(t, err, apperrors.CodeNotYourInvitation)
}

func TestInvitationService_Accept_Expired(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)
	invitationID := sendInvitation(t, service, activity.ID, organizer.ID, invitee.ID)
	db.Model(&entities.Invitation{}).Where("id = ?", invitationID).
		Update("expires_at", time.Now().UTC().Add(-time.Hour))

	_, err := service.Accept(context.Background(), invitationID, invitee.ID)
	expectCode(t, err, apperrors.CodeInvitationExpired)
}

func TestInvitationService_Accept_Twice(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)
	invitationID := sendInvitation(t, service, activity.ID, organizer.ID, invitee.ID)

	if _, err := service.Accept(context.Background(), invitationID, invitee.ID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	_, err := service.Accept(context.Background(), invitationID, invitee.ID)
	expectCode(t, err, apperrors.CodeAlreadyResponded)
}

func TestInvitationService_Decline(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)
	invitationID := sendInvitation(t, service, activity.ID, organizer.ID, invitee.ID)

	declined, err := service.Decline(context.Background(), invitationID, invitee.ID)
	if err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if declined.Status != entities.InvitationDeclined {
		t.Errorf("Expected declined, got %s", declined.Status)
	}

	// Declining never touches participation state.
	updated := reloadActivity(t, db, activity.ID)
	if updated.CurrentParticipantsCount != 0 || updated.WaitlistCount != 0 {
		t.Errorf("Expected counts 0/0, got %d/%d", updated.CurrentParticipantsCount, updated.WaitlistCount)
	}
}

func TestInvitationService_Cancel_BySender(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)
	invitationID := sendInvitation(t, service, activity.ID, organizer.ID, invitee.ID)

	activityID, err := service.Cancel(context.Background(), invitationID, organizer.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if activityID != activity.ID {
		t.Errorf("Expected activity %s, got %s", activity.ID, activityID)
	}

	var count int64
	db.Model(&entities.Invitation{}).Where("id = ?", invitationID).Count(&count)
	if count != 0 {
		t.Error("Expected invitation to be deleted")
	}
}

func TestInvitationService_Cancel_Stranger(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	invitee := createTestUser(t, db, "invitee")
	stranger := createTestUser(t, db, "stranger")
	activity := createTestActivity(t, db, organizer.ID, 5)
	db.Model(activity).Update("privacy", entities.PrivacyInviteOnly)

	service := NewInvitationService(db, nil, nil)
	invitationID := sendInvitation(t, service, activity.ID, organizer.ID, invitee.ID)

	_, err := service.Cancel(context.Background(), invitationID, stranger.ID)
	expectCode(t, err, apperrors.CodeNotAuthorized)
}
