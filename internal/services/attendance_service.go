package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/constants"
	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/logging"
	"activity-platform/participation/internal/metrics"
	"activity-platform/participation/internal/models/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceService records organizer attendance marks and peer
// confirmations after an activity has taken place.
type AttendanceService struct {
	db           *gorm.DB
	activities   *repositories.ActivityRepository
	users        *repositories.UserRepository
	participants *repositories.ParticipantRepository
	attendance   *repositories.AttendanceRepository
	listings     *repositories.ListingRepository
	metricsReg   *metrics.MetricsRegistry
}

func NewAttendanceService(db *gorm.DB, listings *repositories.ListingRepository, metricsReg *metrics.MetricsRegistry) *AttendanceService {
	return &AttendanceService{
		db:           db,
		activities:   repositories.NewActivityRepository(db),
		users:        repositories.NewUserRepository(db),
		participants: repositories.NewParticipantRepository(db),
		attendance:   repositories.NewAttendanceRepository(db),
		listings:     listings,
		metricsReg:   metricsReg,
	}
}

type AttendanceUpdate struct {
	UserID string
	Status entities.AttendanceStatus
}

type FailedAttendanceUpdate struct {
	UserID string
	Reason string
}

type MarkResult struct {
	UpdatedCount int
	Failed       []FailedAttendanceUpdate
}

// Mark applies a batch of attendance marks in a single transaction. Bad
// entries are reported per user; the rest of the batch still commits.
// Re-marking is idempotent on the per-user no-show counter.
func (s *AttendanceService) Mark(ctx context.Context, activityID, callerID string, updates []AttendanceUpdate) (*MarkResult, error) {
	if len(updates) == 0 || len(updates) > constants.MaxAttendanceUpdates {
		return nil, apperrors.New(apperrors.CodeTooManyUpdates, "between 1 and 100 attendance updates per request")
	}

	var result MarkResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := s.activities.FindForUpdate(ctx, tx, activityID)
		if err != nil {
			return err
		}
		if !activity.HasStarted(time.Now().UTC()) {
			return apperrors.New(apperrors.CodeActivityNotCompleted, "activity has not taken place yet")
		}
		if err := s.requireOrganizerOrCoOrganizer(ctx, tx, activity, callerID); err != nil {
			return err
		}

		for _, update := range updates {
			if reason := s.markOne(ctx, tx, activityID, update); reason != "" {
				result.Failed = append(result.Failed, FailedAttendanceUpdate{UserID: update.UserID, Reason: reason})
			} else {
				result.UpdatedCount++
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.metricsReg != nil {
		s.metricsReg.AttendanceMarksTotal.Add(float64(result.UpdatedCount))
	}
	logging.Info("Attendance marked",
		"activity_id", activityID,
		"updated", result.UpdatedCount,
		"failed", len(result.Failed),
	)
	return &result, nil
}

func (s *AttendanceService) markOne(ctx context.Context, tx *gorm.DB, activityID string, update AttendanceUpdate) string {
	if update.Status != entities.AttendanceAttended && update.Status != entities.AttendanceNoShow {
		return fmt.Sprintf("invalid attendance status %q", update.Status)
	}

	participant, err := s.participants.FindRegistered(ctx, tx, activityID, update.UserID)
	if err != nil {
		return "internal error"
	}
	if participant == nil {
		return "not a registered participant"
	}

	previous := participant.AttendanceStatus
	participant.AttendanceStatus = update.Status
	if err := s.participants.Save(ctx, tx, participant); err != nil {
		return "internal error"
	}

	// The global counter moves only on a transition into no_show, so
	// re-submitting the same mark cannot inflate it.
	if update.Status == entities.AttendanceNoShow && previous != entities.AttendanceNoShow {
		if err := s.users.IncrementNoShowCount(ctx, tx, update.UserID); err != nil {
			return "internal error"
		}
	}
	return ""
}

type ConfirmResult struct {
	ConfirmedUserID   string
	ConfirmedAt       time.Time
	VerificationCount int
}

// Confirm records a peer attendance confirmation. Both sides must have
// attended, and each (confirmer, confirmed) pair counts once per activity.
func (s *AttendanceService) Confirm(ctx context.Context, activityID, callerID, confirmedUserID string) (*ConfirmResult, error) {
	if callerID == confirmedUserID {
		return nil, apperrors.New(apperrors.CodeSelfConfirmation, "cannot confirm your own attendance")
	}

	var result ConfirmResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locking the activity row orders concurrent confirms the same
		// way the other mutating paths are ordered.
		activity, err := s.activities.FindForUpdate(ctx, tx, activityID)
		if err != nil {
			return err
		}
		if !activity.HasStarted(time.Now().UTC()) {
			return apperrors.New(apperrors.CodeActivityNotCompleted, "activity has not taken place yet")
		}

		confirmer, err := s.participants.FindRegistered(ctx, tx, activityID, callerID)
		if err != nil {
			return err
		}
		if confirmer == nil || confirmer.AttendanceStatus != entities.AttendanceAttended {
			return apperrors.New(apperrors.CodeConfirmerNotAttended, "you must be marked as attended to confirm others")
		}

		confirmed, err := s.participants.FindRegistered(ctx, tx, activityID, confirmedUserID)
		if err != nil {
			return err
		}
		if confirmed == nil || confirmed.AttendanceStatus != entities.AttendanceAttended {
			return apperrors.New(apperrors.CodeConfirmedNotAttended, "user is not marked as attended")
		}

		exists, err := s.attendance.ConfirmationExists(ctx, tx, activityID, confirmedUserID, callerID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.New(apperrors.CodeAlreadyConfirmed, "already confirmed this user")
		}

		now := time.Now().UTC()
		confirmation := &entities.AttendanceConfirmation{
			ID:              uuid.NewString(),
			ActivityID:      activityID,
			ConfirmedUserID: confirmedUserID,
			ConfirmerUserID: callerID,
		}
		if err := s.attendance.CreateConfirmation(ctx, tx, confirmation); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.New(apperrors.CodeAlreadyConfirmed, "already confirmed this user")
			}
			return err
		}

		count, err := s.users.IncrementVerificationCount(ctx, tx, confirmedUserID)
		if err != nil {
			return err
		}

		result = ConfirmResult{ConfirmedUserID: confirmedUserID, ConfirmedAt: now, VerificationCount: count}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.metricsReg != nil {
		s.metricsReg.PeerConfirmationsTotal.Inc()
	}
	logging.Info("Attendance confirmed",
		"activity_id", activityID,
		"confirmed_user_id", confirmedUserID,
		"confirmer_user_id", callerID,
	)
	return &result, nil
}

// PendingVerifications lists completed activities the user attended that
// still have peers they have not confirmed.
func (s *AttendanceService) PendingVerifications(ctx context.Context, userID string, limit, offset int) ([]repositories.PendingVerificationActivityRow, error) {
	return s.listings.PendingVerificationActivities(ctx, userID, limit, offset)
}

// UnconfirmedParticipants lists attended peers in one activity the user has
// not yet confirmed.
func (s *AttendanceService) UnconfirmedParticipants(ctx context.Context, activityID, userID string) ([]repositories.UnconfirmedParticipantRow, error) {
	return s.listings.UnconfirmedParticipants(ctx, activityID, userID)
}

func (s *AttendanceService) requireOrganizerOrCoOrganizer(ctx context.Context, tx *gorm.DB, activity *entities.Activity, callerID string) error {
	if callerID == activity.OrganizerID {
		return nil
	}

	participant, err := s.participants.FindRegistered(ctx, tx, activity.ID, callerID)
	if err != nil {
		return err
	}
	if participant == nil || participant.Role != entities.RoleCoOrganizer {
		return apperrors.New(apperrors.CodeNotAuthorized, "only organizer or co-organizer can mark attendance")
	}
	return nil
}
