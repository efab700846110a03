package services

import (
	"context"
	"testing"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/models/entities"
)

func TestRoleService_PromoteAndDemote(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	member := createTestUser(t, db, "member")
	activity := createTestActivity(t, db, organizer.ID, 5)

	participation := NewParticipationService(db, nil, nil)
	roles := NewRoleService(db)
	ctx := context.Background()

	if _, err := participation.Join(ctx, activity.ID, member.ID, entities.SubscriptionFree); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if err := roles.Promote(ctx, activity.ID, organizer.ID, member.ID); err != nil {
		t.Fatalf("Promote failed: %v", err)
	}

	var participant entities.Participant
	db.Where("activity_id = ? AND user_id = ?", activity.ID, member.ID).First(&participant)
	if participant.Role != entities.RoleCoOrganizer {
		t.Errorf("Expected co_organizer, got %s", participant.Role)
	}

	if err := roles.Demote(ctx, activity.ID, organizer.ID, member.ID); err != nil {
		t.Fatalf("Demote failed: %v", err)
	}

	db.Where("activity_id = ? AND user_id = ?", activity.ID, member.ID).First(&participant)
	if participant.Role != entities.RoleMember {
		t.Errorf("Expected member, got %s", participant.Role)
	}
}

func TestRoleService_Promote_OnlyOrganizer(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	member := createTestUser(t, db, "member")
	other := createTestUser(t, db, "other")
	activity := createTestActivity(t, db, organizer.ID, 5)

	participation := NewParticipationService(db, nil, nil)
	roles := NewRoleService(db)
	ctx := context.Background()

	for _, user := range []*entities.User{member, other} {
		if _, err := participation.Join(ctx, activity.ID, user.ID, entities.SubscriptionFree); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
	}

	err := roles.Promote(ctx, activity.ID, other.ID, member.ID)
	expectCode(t, err, apperrors.CodeNotOrganizer)

	// Co-organizers cannot promote either.
	if err := roles.Promote(ctx, activity.ID, organizer.ID, other.ID); err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	err = roles.Promote(ctx, activity.ID, other.ID, member.ID)
	expectCode(t, err, apperrors.CodeNotOrganizer)
}

func TestRoleService_Promote_Errors(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")
	activity := createTestActivity(t, db, organizer.ID, 5)

	participation := NewParticipationService(db, nil, nil)
	roles := NewRoleService(db)
	ctx := context.Background()

	if _, err := participation.Join(ctx, activity.ID, member.ID, entities.SubscriptionFree); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	err := roles.Promote(ctx, activity.ID, organizer.ID, organizer.ID)
	expectCode(t, err, apperrors.CodeCannotPromoteSelf)

	err = roles.Promote(ctx, activity.ID, organizer.ID, outsider.ID)
	expectCode(t, err, apperrors.CodeTargetNotMember)

	if err := roles.Promote(ctx, activity.ID, organizer.ID, member.ID); err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	err = roles.Promote(ctx, activity.ID, organizer.ID, member.ID)
	expectCode(t, err, apperrors.CodeAlreadyCoOrganizer)
}

func TestRoleService_Demote_NotCoOrganizer(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")
	activity := createTestActivity(t, db, organizer.ID, 5)

	participation := NewParticipationService(db, nil, nil)
	roles := NewRoleService(db)
	ctx := context.Background()

	if _, err := participation.Join(ctx, activity.ID, member.ID, entities.SubscriptionFree); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	err := roles.Demote(ctx, activity.ID, organizer.ID, member.ID)
	expectCode(t, err, apperrors.CodeNotCoOrganizer)

	err = roles.Demote(ctx, activity.ID, organizer.ID, outsider.ID)
	expectCode(t, err, apperrors.CodeNotCoOrganizer)
}
