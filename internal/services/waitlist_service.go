package services

import (
	"context"
	"time"

	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/models/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaitlistService keeps each activity's queue strictly ordered and gap-free.
// All methods run inside the caller's transaction; the caller persists the
// activity counters it mutates.
type WaitlistService struct {
	entries      *repositories.WaitlistRepository
	participants *repositories.ParticipantRepository
}

func NewWaitlistService(db *gorm.DB) *WaitlistService {
	return &WaitlistService{
		entries:      repositories.NewWaitlistRepository(db),
		participants: repositories.NewParticipantRepository(db),
	}
}

// Enqueue appends the user at position max(live positions)+1 and returns
// the assigned position.
func (s *WaitlistService) Enqueue(ctx context.Context, tx *gorm.DB, activity *entities.Activity, userID string) (int, error) {
	maxPos, err := s.entries.MaxPosition(ctx, tx, activity.ID)
	if err != nil {
		return 0, err
	}

	entry := &entities.WaitlistEntry{
		ID:         uuid.NewString(),
		ActivityID: activity.ID,
		UserID:     userID,
		Position:   maxPos + 1,
	}
	if err := s.entries.Create(ctx, tx, entry); err != nil {
		return 0, err
	}

	activity.WaitlistCount++
	return entry.Position, nil
}

// PromoteHead moves the head entry into a freed registered slot and
// renumbers the remaining entries so positions stay contiguous from 1.
// Returns the promoted user's id, or nil when the waitlist is empty.
func (s *WaitlistService) PromoteHead(ctx context.Context, tx *gorm.DB, activity *entities.Activity) (*string, error) {
	head, err := s.entries.Head(ctx, tx, activity.ID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, nil
	}

	if err := s.entries.Delete(ctx, tx, head); err != nil {
		return nil, err
	}
	if err := s.entries.ShiftDown(ctx, tx, activity.ID, head.Position); err != nil {
		return nil, err
	}

	// Promotion creates a fresh registered row; waitlist entries never
	// carry role or attendance state.
	participant := &entities.Participant{
		ID:                  uuid.NewString(),
		ActivityID:          activity.ID,
		UserID:              head.UserID,
		Role:                entities.RoleMember,
		ParticipationStatus: entities.ParticipationRegistered,
		AttendanceStatus:    entities.AttendanceUnmarked,
		JoinedAt:            time.Now().UTC(),
	}
	if err := s.participants.Create(ctx, tx, participant); err != nil {
		return nil, err
	}

	activity.CurrentParticipantsCount++
	activity.WaitlistCount--
	return &head.UserID, nil
}

// RemoveAndCompact deletes the user's entry and closes the gap without
// promoting anyone; a waitlisted user never held a slot.
func (s *WaitlistService) RemoveAndCompact(ctx context.Context, tx *gorm.DB, activity *entities.Activity, entry *entities.WaitlistEntry) error {
	if err := s.entries.Delete(ctx, tx, entry); err != nil {
		return err
	}
	if err := s.entries.ShiftDown(ctx, tx, activity.ID, entry.Position); err != nil {
		return err
	}

	activity.WaitlistCount--
	return nil
}
