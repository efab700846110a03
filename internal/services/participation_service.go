package services

import (
	"context"
	"time"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/logging"
	"activity-platform/participation/internal/metrics"
	"activity-platform/participation/internal/models/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParticipationService orchestrates join, leave and cancel. Every call is
// one transaction: the activity row is locked first, so concurrent
// operations on the same activity serialize and never observe a stale
// capacity count.
type ParticipationService struct {
	db            *gorm.DB
	activities    *repositories.ActivityRepository
	users         *repositories.UserRepository
	participants  *repositories.ParticipantRepository
	waitlistRepo  *repositories.WaitlistRepository
	invitations   *repositories.InvitationRepository
	relationships *repositories.RelationshipRepository
	waitlist      *WaitlistService
	listings      *repositories.ListingRepository
	metricsReg    *metrics.MetricsRegistry
}

func NewParticipationService(db *gorm.DB, listings *repositories.ListingRepository, metricsReg *metrics.MetricsRegistry) *ParticipationService {
	return &ParticipationService{
		db:            db,
		activities:    repositories.NewActivityRepository(db),
		users:         repositories.NewUserRepository(db),
		participants:  repositories.NewParticipantRepository(db),
		waitlistRepo:  repositories.NewWaitlistRepository(db),
		invitations:   repositories.NewInvitationRepository(db),
		relationships: repositories.NewRelationshipRepository(db),
		waitlist:      NewWaitlistService(db),
		listings:      listings,
		metricsReg:    metricsReg,
	}
}

// JoinResult reports the admission outcome: registered directly, or
// waitlisted with the assigned position.
type JoinResult struct {
	Status           entities.ParticipationStatus
	Waitlisted       bool
	WaitlistPosition int
	JoinedAt         time.Time
}

func (s *ParticipationService) Join(ctx context.Context, activityID, userID string, level entities.SubscriptionLevel) (*JoinResult, error) {
	var result JoinResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := s.activities.FindForUpdate(ctx, tx, activityID)
		if err != nil {
			return err
		}

		snap, err := s.loadAdmissionSnapshot(ctx, tx, activity, userID)
		if err != nil {
			return err
		}

		decision, err := EvaluateAdmission(*snap, level)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if decision == AdmissionAdmit {
			participant := &entities.Participant{
				ID:                  uuid.NewString(),
				ActivityID:          activity.ID,
				UserID:              userID,
				Role:                entities.RoleMember,
				ParticipationStatus: entities.ParticipationRegistered,
				AttendanceStatus:    entities.AttendanceUnmarked,
				JoinedAt:            now,
			}
			if err := s.participants.Create(ctx, tx, participant); err != nil {
				return err
			}
			activity.CurrentParticipantsCount++

			// Joining an invite-only activity consumes the invitation.
			if activity.Privacy == entities.PrivacyInviteOnly && snap.Invitation != nil {
				snap.Invitation.Status = entities.InvitationAccepted
				snap.Invitation.RespondedAt = &now
				if err := s.invitations.Save(ctx, tx, snap.Invitation); err != nil {
					return err
				}
			}

			result = JoinResult{Status: entities.ParticipationRegistered, JoinedAt: now}
		} else {
			pos, err := s.waitlist.Enqueue(ctx, tx, activity, userID)
			if err != nil {
				return err
			}
			result = JoinResult{
				Status:           entities.ParticipationRegistered,
				Waitlisted:       true,
				WaitlistPosition: pos,
				JoinedAt:         now,
			}
		}

		return s.activities.UpdateCounters(ctx, tx, activity)
	})

	if err != nil {
		s.countJoin("rejected")
		return nil, err
	}

	outcome := "registered"
	if result.Waitlisted {
		outcome = "waitlisted"
	}
	s.countJoin(outcome)
	logging.Info("Join processed",
		"activity_id", activityID,
		"user_id", userID,
		"outcome", outcome,
	)
	return &result, nil
}

// loadAdmissionSnapshot gathers everything the admission chain needs, under
// the already-held activity lock. Relationship and invitation lookups are
// only made when the privacy mode consults them.
func (s *ParticipationService) loadAdmissionSnapshot(ctx context.Context, tx *gorm.DB, activity *entities.Activity, userID string) (*AdmissionSnapshot, error) {
	snap := &AdmissionSnapshot{
		Activity: activity,
		Now:      time.Now().UTC(),
	}

	user, err := s.users.FindByID(ctx, tx, userID)
	if err != nil {
		if appErr, ok := apperrors.FromError(err); !ok || appErr.Code != apperrors.CodeUserNotFound {
			return nil, err
		}
		// Missing user is reported by the admission chain after the
		// activity checks, preserving check order.
	}
	snap.User = user

	registered, err := s.participants.FindRegistered(ctx, tx, activity.ID, userID)
	if err != nil {
		return nil, err
	}
	snap.AlreadyParticipant = registered != nil

	entry, err := s.waitlistRepo.FindByUser(ctx, tx, activity.ID, userID)
	if err != nil {
		return nil, err
	}
	snap.AlreadyWaitlisted = entry != nil

	if !blockingExempt(activity) {
		blocked, err := s.relationships.IsBlockedEitherWay(ctx, tx, userID, activity.OrganizerID)
		if err != nil {
			return nil, err
		}
		snap.BlockedEitherWay = blocked
	}

	if activity.Privacy == entities.PrivacyFriendsOnly {
		friends, err := s.relationships.AreFriends(ctx, tx, userID, activity.OrganizerID)
		if err != nil {
			return nil, err
		}
		snap.FriendsWithOrganizer = friends
	}

	if activity.Privacy == entities.PrivacyInviteOnly {
		invitation, err := s.invitations.FindPending(ctx, tx, activity.ID, userID)
		if err != nil {
			return nil, err
		}
		snap.Invitation = invitation
	}

	return snap, nil
}

// LeaveResult reports who, if anyone, was promoted into the freed slot.
type LeaveResult struct {
	PromotedUserID *string
	LeftAt         time.Time
}

func (s *ParticipationService) Leave(ctx context.Context, activityID, userID string) (*LeaveResult, error) {
	var result LeaveResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := s.activities.FindForUpdate(ctx, tx, activityID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if activity.OrganizerID == userID {
			return apperrors.New(apperrors.CodeIsOrganizer, "organizer cannot leave activity")
		}
		if activity.HasStarted(now) {
			return apperrors.New(apperrors.CodeActivityInPast, "cannot leave past activities")
		}

		registered, err := s.participants.FindRegistered(ctx, tx, activityID, userID)
		if err != nil {
			return err
		}

		if registered != nil {
			if err := s.participants.Delete(ctx, tx, registered); err != nil {
				return err
			}
			activity.CurrentParticipantsCount--

			promoted, err := s.waitlist.PromoteHead(ctx, tx, activity)
			if err != nil {
				return err
			}
			result = LeaveResult{PromotedUserID: promoted, LeftAt: now}
		} else {
			entry, err := s.waitlistRepo.FindByUser(ctx, tx, activityID, userID)
			if err != nil {
				return err
			}
			if entry == nil {
				return apperrors.New(apperrors.CodeNotParticipant, "not a participant of this activity")
			}
			// Leaving the waitlist frees no slot, so nobody is promoted.
			if err := s.waitlist.RemoveAndCompact(ctx, tx, activity, entry); err != nil {
				return err
			}
			result = LeaveResult{LeftAt: now}
		}

		return s.activities.UpdateCounters(ctx, tx, activity)
	})

	if err != nil {
		return nil, err
	}

	if s.metricsReg != nil {
		s.metricsReg.LeavesTotal.Inc()
		if result.PromotedUserID != nil {
			s.metricsReg.PromotionsTotal.Inc()
		}
	}
	logging.Info("Leave processed",
		"activity_id", activityID,
		"user_id", userID,
		"promoted", result.PromotedUserID != nil,
	)
	return &result, nil
}

// CancelResult mirrors LeaveResult; cancellation keeps the row as history.
type CancelResult struct {
	PromotedUserID *string
	LeftAt         time.Time
}

func (s *ParticipationService) Cancel(ctx context.Context, activityID, userID string, reason *string) (*CancelResult, error) {
	var result CancelResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := s.activities.FindForUpdate(ctx, tx, activityID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if activity.OrganizerID == userID {
			return apperrors.New(apperrors.CodeIsOrganizer, "organizer cannot cancel own participation")
		}
		if activity.HasStarted(now) {
			return apperrors.New(apperrors.CodeActivityInPast, "cannot cancel past activities")
		}

		registered, err := s.participants.FindRegistered(ctx, tx, activityID, userID)
		if err != nil {
			return err
		}
		if registered == nil {
			latest, err := s.participants.FindLatest(ctx, tx, activityID, userID)
			if err != nil {
				return err
			}
			if latest != nil && latest.ParticipationStatus == entities.ParticipationCancelled {
				return apperrors.New(apperrors.CodeAlreadyCancelled, "participation already cancelled")
			}
			return apperrors.New(apperrors.CodeNotParticipant, "not a participant of this activity")
		}

		registered.ParticipationStatus = entities.ParticipationCancelled
		registered.CancelReason = reason
		registered.LeftAt = &now
		if err := s.participants.Save(ctx, tx, registered); err != nil {
			return err
		}
		activity.CurrentParticipantsCount--

		promoted, err := s.waitlist.PromoteHead(ctx, tx, activity)
		if err != nil {
			return err
		}
		result = CancelResult{PromotedUserID: promoted, LeftAt: now}

		return s.activities.UpdateCounters(ctx, tx, activity)
	})

	if err != nil {
		return nil, err
	}

	if s.metricsReg != nil {
		s.metricsReg.CancellationsTotal.Inc()
		if result.PromotedUserID != nil {
			s.metricsReg.PromotionsTotal.Inc()
		}
	}
	logging.Info("Cancellation processed",
		"activity_id", activityID,
		"user_id", userID,
		"promoted", result.PromotedUserID != nil,
	)
	return &result, nil
}

// ListParticipants returns the activity roster. Activities whose organizer
// blocks the viewer (or vice versa) are hidden entirely.
func (s *ParticipationService) ListParticipants(ctx context.Context, activityID, viewerID string, status, role *string, limit, offset int) ([]repositories.ParticipantRow, error) {
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if viewerID != activity.OrganizerID {
		blocked, err := s.relationships.IsBlockedEitherWay(ctx, s.db, viewerID, activity.OrganizerID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, apperrors.New(apperrors.CodeActivityNotFound, "activity not found")
		}
	}

	return s.listings.ListParticipants(ctx, activityID, status, role, limit, offset)
}

// UserActivities lists a user's activities. Viewing a blocked user yields
// an empty result rather than an error, to avoid leaking the relationship.
func (s *ParticipationService) UserActivities(ctx context.Context, targetUserID, viewerID string, typeFilter, status *string, limit, offset int) ([]repositories.UserActivityRow, error) {
	if targetUserID != viewerID {
		blocked, err := s.relationships.IsBlockedEitherWay(ctx, s.db, viewerID, targetUserID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return []repositories.UserActivityRow{}, nil
		}
	}

	return s.listings.UserActivities(ctx, targetUserID, typeFilter, status, limit, offset)
}

// Waitlist returns the ordered queue; only the organizer and co-organizers
// may see it.
func (s *ParticipationService) Waitlist(ctx context.Context, activityID, viewerID string, limit, offset int) ([]repositories.WaitlistRow, error) {
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if viewerID != activity.OrganizerID {
		participant, err := s.participants.FindRegistered(ctx, s.db, activityID, viewerID)
		if err != nil {
			return nil, err
		}
		if participant == nil || participant.Role != entities.RoleCoOrganizer {
			return nil, apperrors.New(apperrors.CodeNotAuthorized, "only organizer or co-organizer can view waitlist")
		}
	}

	return s.listings.Waitlist(ctx, activityID, limit, offset)
}

func (s *ParticipationService) countJoin(outcome string) {
	if s.metricsReg != nil {
		s.metricsReg.JoinsTotal.WithLabelValues(outcome).Inc()
	}
}
