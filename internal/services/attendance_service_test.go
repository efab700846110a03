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

// createCompletedActivity seeds an activity that already took place, with
// the given users registered.
func createCompletedActivity(t *testing.T, db *gorm.DB, organizerID string, participants ...string) *entities.Activity {
	activity := createTestActivity(t, db, organizerID, 10)
	db.Model(activity).Update("scheduled_at", time.Now().UTC().Add(-24*time.Hour))

	for _, userID := range participants {
		row := entities.Participant{
			ID:                  uuid.NewString(),
			ActivityID:          activity.ID,
			UserID:              userID,
			Role:                entities.RoleMember,
			ParticipationStatus: entities.ParticipationRegistered,
			AttendanceStatus:    entities.AttendanceUnmarked,
			JoinedAt:            time.Now().UTC().Add(-48 * time.Hour),
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to seed participant: %v", err)
		}
	}
	return activity
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *entities.User {
	var user entities.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	return &user
}

func TestAttendanceService_Mark_Batch(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	attendee := createTestUser(t, db, "attendee")
	noShow := createTestUser(t, db, "no_show")
	activity := createCompletedActivity(t, db, organizer.ID, attendee.ID, noShow.ID)

	service := NewAttendanceService(db, nil, nil)

	result, err := service.Mark(context.Background(), activity.ID, organizer.ID, []AttendanceUpdate{
		{UserID: attendee.ID, Status: entities.AttendanceAttended},
		{UserID: noShow.ID, Status: entities.AttendanceNoShow},
		{UserID: "not-a-participant", Status: entities.AttendanceAttended},
		{UserID: attendee.ID, Status: "maybe"},
	})
	if err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if result.UpdatedCount != 2 {
		t.Errorf("Expected 2 updates, got %d", result.UpdatedCount)
	}
	if len(result.Failed) != 2 {
		t.Errorf("Expected 2 failures, got %d", len(result.Failed))
	}

	if reloadUser(t, db, noShow.ID).NoShowCount != 1 {
		t.Error("Expected no-show counter to be incremented")
	}
	if reloadUser(t, db, attendee.ID).NoShowCount != 0 {
		t.Error("Expected attendee no-show counter untouched")
	}
}

func TestAttendanceService_Mark_NoShowCounterIdempotent(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	user := createTestUser(t, db, "flaky")
	activity := createCompletedActivity(t, db, organizer.ID, user.ID)

	service := NewAttendanceService(db, nil, nil)
	ctx := context.Background()

	mark := []AttendanceUpdate{{UserID: user.ID, Status: entities.AttendanceNoShow}}
	if _, err := service.Mark(ctx, activity.ID, organizer.ID, mark); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if _, err := service.Mark(ctx, activity.ID, organizer.ID, mark); err != nil {
		t.Fatalf("Re-mark failed: %v", err)
	}

	if got := reloadUser(t, db, user.ID).NoShowCount; got != 1 {
		t.Errorf("Expected no-show count 1 after re-mark, got %d", got)
	}

	// Flipping to attended and back counts the second transition.
	if _, err := service.Mark(ctx, activity.ID, organizer.ID,
		[]AttendanceUpdate{{UserID: user.ID, Status: entities.AttendanceAttended}}); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if _, err := service.Mark(ctx, activity.ID, organizer.ID, mark); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if got := reloadUser(t, db, user.ID).NoShowCount; got != 2 {
		t.Errorf("Expected no-show count 2, got %d", got)
	}
}

func TestAttendanceService_Mark_BeforeActivity(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	user := createTestUser(t, db, "user")
	activity := createTestActivity(t, db, organizer.ID, 10)

	service := NewAttendanceService(db, nil, nil)

	_, err := service.Mark(context.Background(), activity.ID, organizer.ID,
		[]AttendanceUpdate{{UserID: user.ID, Status: entities.AttendanceAttended}})
	expectCode(t, err, apperrors.CodeActivityNotCompleted)
}

func TestAttendanceService_Mark_NotAuthorized(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	member := createTestUser(t, db, "member")
	activity := createCompletedActivity(t, db, organizer.ID, member.ID)

	service := NewAttendanceService(db, nil, nil)

	_, err := service.Mark(context.Background(), activity.ID, member.ID,
		[]AttendanceUpdate{{UserID: member.ID, Status: entities.AttendanceAttended}})
	expectCode(t, err, apperrors.CodeNotAuthorized)
}

func TestAttendanceService_Mark_CoOrganizerAllowed(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	coOrganizer := createTestUser(t, db, "co_organizer")
	member := createTestUser(t, db, "member")
	activity := createCompletedActivity(t, db, organizer.ID, coOrganizer.ID, member.ID)
	db.Model(&entities.Participant{}).
		Where("activity_id = ? AND user_id = ?", activity.ID, coOrganizer.ID).
		Update("role", entities.RoleCoOrganizer)

	service := NewAttendanceService(db, nil, nil)

	result, err := service.Mark(context.Background(), activity.ID, coOrganizer.ID,
		[]AttendanceUpdate{{UserID: member.ID, Status: entities.AttendanceAttended}})
	if err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if result.UpdatedCount != 1 {
		t.Errorf("Expected 1 update, got %d", result.UpdatedCount)
	}
}

func TestAttendanceService_Mark_BatchTooLarge(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	activity := createCompletedActivity(t, db, organizer.ID)

	service := NewAttendanceService(db, nil, nil)

	updates := make([]AttendanceUpdate, 101)
	for i := range updates {
		updates[i] = AttendanceUpdate{UserID: uuid.NewString(), Status: entities.AttendanceAttended}
	}
	_, err := service.Mark(context.Background(), activity.ID, organizer.ID, updates)
	expectCode(t, err, apperrors.CodeTooManyUpdates)
}

func markAttended(t *testing.T, db *gorm.DB, activityID string, userIDs ...string) {
	for _, userID := range userIDs {
		err := db.Model(&entities.Participant{}).
			Where("activity_id = ? AND user_id = ?", activityID, userID).
			Update("attendance_status", entities.AttendanceAttended).Error
		if err != nil {
			t.Fatalf("Failed to mark attended: %v", err)
		}
	}
}

func TestAttendanceService_Confirm(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	confirmer := createTestUser(t, db, "confirmer")
	confirmed := createTestUser(t, db, "confirmed")
	activity := createCompletedActivity(t, db, organizer.ID, confirmer.ID, confirmed.ID)
	markAttended(t, db, activity.ID, confirmer.ID, confirmed.ID)

	service := NewAttendanceService(db, nil, nil)

	result, err := service.Confirm(context.Background(), activity.ID, confirmer.ID, confirmed.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if result.VerificationCount != 1 {
		t.Errorf("Expected verification count 1, got %d", result.VerificationCount)
	}

	if reloadUser(t, db, confirmed.ID).VerificationCount != 1 {
		t.Error("Expected confirmed user's counter to be incremented")
	}
	if reloadUser(t, db, confirmer.ID).VerificationCount != 0 {
		t.Error("Expected confirmer's counter untouched")
	}
}

func TestAttendanceService_Confirm_Self(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	user := createTestUser(t, db, "user")
	activity := createCompletedActivity(t, db, organizer.ID, user.ID)
	markAttended(t, db, activity.ID, user.ID)

	service := NewAttendanceService(db, nil, nil)

	_, err := service.Confirm(context.Background(), activity.ID, user.ID, user.ID)
	expectCode(t, err, apperrors.CodeSelfConfirmation)
}

func TestAttendanceService_Confirm_AttendanceRequired(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	confirmer := createTestUser(t, db, "confirmer")
	confirmed := createTestUser(t, db, "confirmed")
	activity := createCompletedActivity(t, db, organizer.ID, confirmer.ID, confirmed.ID)

	service := NewAttendanceService(db, nil, nil)
	ctx := context.Background()

	// Neither side is marked attended yet.
	_, err := service.Confirm(ctx, activity.ID, confirmer.ID, confirmed.ID)
	expectCode(t, err, apperrors.CodeConfirmerNotAttended)

	markAttended(t, db, activity.ID, confirmer.ID)
	_, err = service.Confirm(ctx, activity.ID, confirmer.ID, confirmed.ID)
	expectCode(t, err, apperrors.CodeConfirmedNotAttended)
}

func TestAttendanceService_Confirm_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	confirmer := createTestUser(t, db, "confirmer")
	confirmed := createTestUser(t, db, "confirmed")
	activity := createCompletedActivity(t, db, organizer.ID, confirmer.ID, confirmed.ID)
	markAttended(t, db, activity.ID, confirmer.ID, confirmed.ID)

	service := NewAttendanceService(db, nil, nil)
	ctx := context.Background()

	if _, err := service.Confirm(ctx, activity.ID, confirmer.ID, confirmed.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	_, err := service.Confirm(ctx, activity.ID, confirmer.ID, confirmed.ID)
	expectCode(t, err, apperrors.CodeAlreadyConfirmed)

	if got := reloadUser(t, db, confirmed.ID).VerificationCount; got != 1 {
		t.Errorf("Expected verification count to stay 1, got %d", got)
	}

	// The reverse direction is a distinct confirmation.
	if _, err := service.Confirm(ctx, activity.ID, confirmed.ID, confirmer.ID); err != nil {
		t.Fatalf("Reverse confirm failed: %v", err)
	}
}

func TestAttendanceService_ConfirmationUniqueness(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	confirmer := createTestUser(t, db, "confirmer")
	confirmed := createTestUser(t, db, "confirmed")
	activity := createCompletedActivity(t, db, organizer.ID, confirmer.ID, confirmed.ID)

	row := func(confirmedID, confirmerID string) *entities.AttendanceConfirmation {
		return &entities.AttendanceConfirmation{
			ID:              uuid.NewString(),
			ActivityID:      activity.ID,
			ConfirmedUserID: confirmedID,
			ConfirmerUserID: confirmerID,
		}
	}

	if err := db.Create(row(confirmed.ID, confirmer.ID)).Error; err != nil {
		t.Fatalf("First confirmation failed: %v", err)
	}

	// A second row for the same directed pair must be rejected by the
	// index, whichever transaction got there second.
	err := db.Create(row(confirmed.ID, confirmer.ID)).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Expected duplicate key error, got %v", err)
	}

	if err := db.Create(row(confirmer.ID, confirmed.ID)).Error; err != nil {
		t.Fatalf("Reverse confirmation failed: %v", err)
	}
}
