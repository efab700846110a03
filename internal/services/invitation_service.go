package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/constants"
	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/logging"
	"activity-platform/participation/internal/metrics"
	"activity-platform/participation/internal/models/entities"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// InvitationService manages the invitation lifecycle. Acceptance re-enters
// the join path at the capacity check; the invitation itself is the
// authorization, so privacy checks are skipped.
type InvitationService struct {
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

func NewInvitationService(db *gorm.DB, listings *repositories.ListingRepository, metricsReg *metrics.MetricsRegistry) *InvitationService {
	return &InvitationService{
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

type InvitationCreated struct {
	InvitationID  string
	InvitedUserID string
	InvitedAt     time.Time
	ExpiresAt     time.Time
}

type FailedInvitation struct {
	UserID string
	Reason string
}

type SendResult struct {
	Invited []InvitationCreated
	Failed  []FailedInvitation
}

// Send creates invitations for up to 50 targets. Batch-level preconditions
// fail the whole call; per-target failures are collected and the rest of
// the batch proceeds. Each target commits independently.
func (s *InvitationService) Send(ctx context.Context, activityID, callerID string, userIDs []string, message *string, expiresInHours int) (*SendResult, error) {
	if len(userIDs) == 0 || len(userIDs) > constants.MaxInvitationsPerRequest {
		return nil, apperrors.New(apperrors.CodeTooManyInvitations, "between 1 and 50 invitations per request")
	}
	if expiresInHours <= 0 {
		expiresInHours = constants.DefaultInvitationTTLHours
	}

	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Privacy != entities.PrivacyInviteOnly {
		return nil, apperrors.New(apperrors.CodeNotInviteOnly, "activity is not invite-only")
	}
	if activity.Status != entities.ActivityStatusPublished {
		return nil, apperrors.New(apperrors.CodeActivityNotPublished, "activity is not published")
	}
	if err := s.requireOrganizerOrCoOrganizer(ctx, activity, callerID); err != nil {
		return nil, err
	}

	// Duplicate IDs in one batch would race each other in the fan-out, so
	// the batch is deduplicated up front.
	seen := make(map[string]struct{}, len(userIDs))
	targets := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}

	var (
		mu     sync.Mutex
		result SendResult
	)

	// Targets are independent; each gets its own transaction so one
	// failure never rolls back the rest of the batch.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, targetID := range targets {
		targetID := targetID
		g.Go(func() error {
			created, reason := s.sendOne(gctx, activity, callerID, targetID, message, expiresInHours)

			mu.Lock()
			defer mu.Unlock()
			if created != nil {
				result.Invited = append(result.Invited, *created)
			} else {
				result.Failed = append(result.Failed, FailedInvitation{UserID: targetID, Reason: reason})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.metricsReg != nil {
		s.metricsReg.InvitationsSentTotal.WithLabelValues("sent").Add(float64(len(result.Invited)))
		s.metricsReg.InvitationsSentTotal.WithLabelValues("failed").Add(float64(len(result.Failed)))
	}
	logging.Info("Invitations processed",
		"activity_id", activityID,
		"invited", len(result.Invited),
		"failed", len(result.Failed),
	)
	return &result, nil
}

func (s *InvitationService) sendOne(ctx context.Context, activity *entities.Activity, callerID, targetID string, message *string, expiresInHours int) (*InvitationCreated, string) {
	var created *InvitationCreated

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.users.FindByID(ctx, tx, targetID)
		if err != nil {
			return err
		}
		if !user.IsActive || user.IsBanned {
			return apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}

		pending, err := s.invitations.FindPending(ctx, tx, activity.ID, targetID)
		if err != nil {
			return err
		}
		if pending != nil {
			return apperrors.New(apperrors.CodeAlreadyResponded, "already invited")
		}

		registered, err := s.participants.FindRegistered(ctx, tx, activity.ID, targetID)
		if err != nil {
			return err
		}
		if registered != nil {
			return apperrors.New(apperrors.CodeAlreadyJoined, "already a participant")
		}

		blocked, err := s.relationships.IsBlockedEitherWay(ctx, tx, callerID, targetID)
		if err != nil {
			return err
		}
		if blocked {
			return apperrors.New(apperrors.CodeBlockedUser, "cannot invite this user")
		}

		now := time.Now().UTC()
		invitation := &entities.Invitation{
			ID:            uuid.NewString(),
			ActivityID:    activity.ID,
			InvitedUserID: targetID,
			InvitedByID:   callerID,
			Status:        entities.InvitationPending,
			Message:       message,
			ExpiresAt:     now.Add(time.Duration(expiresInHours) * time.Hour),
		}
		if err := s.invitations.Create(ctx, tx, invitation); err != nil {
			// A racing sender can slip past the pending lookup; the
			// partial unique index catches it here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.New(apperrors.CodeAlreadyResponded, "already invited")
			}
			return err
		}

		created = &InvitationCreated{
			InvitationID:  invitation.ID,
			InvitedUserID: targetID,
			InvitedAt:     now,
			ExpiresAt:     invitation.ExpiresAt,
		}
		return nil
	})

	if err != nil {
		if appErr, ok := apperrors.FromError(err); ok {
			return nil, appErr.Message
		}
		return nil, "internal error"
	}
	return created, ""
}

// AcceptResult reports the admission outcome of an accepted invitation.
type AcceptResult struct {
	ActivityID       string
	Status           entities.ParticipationStatus
	Waitlisted       bool
	WaitlistPosition int
	RespondedAt      time.Time
}

// Accept marks the invitation accepted and admits the invitee, starting at
// the capacity check. A full activity waitlists, never rejects.
func (s *InvitationService) Accept(ctx context.Context, invitationID, callerID string) (*AcceptResult, error) {
	var result AcceptResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitation, err := s.invitations.FindByID(ctx, tx, invitationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := s.requireRespondable(invitation, callerID, now); err != nil {
			return err
		}

		activity, err := s.activities.FindForUpdate(ctx, tx, invitation.ActivityID)
		if err != nil {
			return err
		}
		if activity.HasStarted(now) {
			return apperrors.New(apperrors.CodeActivityInPast, "activity has already occurred")
		}

		registered, err := s.participants.FindRegistered(ctx, tx, activity.ID, callerID)
		if err != nil {
			return err
		}
		entry, err := s.waitlistRepo.FindByUser(ctx, tx, activity.ID, callerID)
		if err != nil {
			return err
		}
		if registered != nil || entry != nil {
			return apperrors.New(apperrors.CodeAlreadyJoined, "already joined this activity")
		}

		invitation.Status = entities.InvitationAccepted
		invitation.RespondedAt = &now
		if err := s.invitations.Save(ctx, tx, invitation); err != nil {
			return err
		}

		if !activity.IsFull() {
			participant := &entities.Participant{
				ID:                  uuid.NewString(),
				ActivityID:          activity.ID,
				UserID:              callerID,
				Role:                entities.RoleMember,
				ParticipationStatus: entities.ParticipationRegistered,
				AttendanceStatus:    entities.AttendanceUnmarked,
				JoinedAt:            now,
			}
			if err := s.participants.Create(ctx, tx, participant); err != nil {
				return err
			}
			activity.CurrentParticipantsCount++
			result = AcceptResult{ActivityID: activity.ID, Status: entities.ParticipationRegistered, RespondedAt: now}
		} else {
			pos, err := s.waitlist.Enqueue(ctx, tx, activity, callerID)
			if err != nil {
				return err
			}
			result = AcceptResult{
				ActivityID:       activity.ID,
				Status:           entities.ParticipationRegistered,
				Waitlisted:       true,
				WaitlistPosition: pos,
				RespondedAt:      now,
			}
		}

		return s.activities.UpdateCounters(ctx, tx, activity)
	})

	if err != nil {
		return nil, err
	}

	logging.Info("Invitation accepted",
		"invitation_id", invitationID,
		"activity_id", result.ActivityID,
		"waitlisted", result.Waitlisted,
	)
	return &result, nil
}

// Decline marks the invitation declined; participant and waitlist state is
// untouched.
func (s *InvitationService) Decline(ctx context.Context, invitationID, callerID string) (*entities.Invitation, error) {
	var declined *entities.Invitation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitation, err := s.invitations.FindByID(ctx, tx, invitationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := s.requireRespondable(invitation, callerID, now); err != nil {
			return err
		}

		invitation.Status = entities.InvitationDeclined
		invitation.RespondedAt = &now
		if err := s.invitations.Save(ctx, tx, invitation); err != nil {
			return err
		}

		declined = invitation
		return nil
	})

	if err != nil {
		return nil, err
	}
	return declined, nil
}

// Cancel deletes a pending invitation. The sender, the organizer, and
// co-organizers may cancel.
func (s *InvitationService) Cancel(ctx context.Context, invitationID, callerID string) (string, error) {
	var activityID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitation, err := s.invitations.FindByID(ctx, tx, invitationID)
		if err != nil {
			return err
		}
		if invitation.Status != entities.InvitationPending {
			return apperrors.New(apperrors.CodeAlreadyResponded, "invitation already responded to")
		}

		activity, err := s.activities.FindByID(ctx, invitation.ActivityID)
		if err != nil {
			return err
		}

		if callerID != invitation.InvitedByID {
			if err := s.requireOrganizerOrCoOrganizer(ctx, activity, callerID); err != nil {
				return err
			}
		}

		activityID = invitation.ActivityID
		return s.invitations.Delete(ctx, tx, invitation)
	})

	if err != nil {
		return "", err
	}
	return activityID, nil
}

func (s *InvitationService) Received(ctx context.Context, userID string, status *string, limit, offset int) ([]repositories.ReceivedInvitationRow, error) {
	return s.listings.ReceivedInvitations(ctx, userID, status, limit, offset)
}

func (s *InvitationService) Sent(ctx context.Context, userID string, activityID, status *string, limit, offset int) ([]repositories.SentInvitationRow, error) {
	return s.listings.SentInvitations(ctx, userID, activityID, status, limit, offset)
}

// requireRespondable enforces the shared accept/decline preconditions:
// ownership, pending status, and unexpired.
func (s *InvitationService) requireRespondable(invitation *entities.Invitation, callerID string, now time.Time) error {
	if invitation.InvitedUserID != callerID {
		return apperrors.New(apperrors.CodeNotYourInvitation, "this invitation is not for you")
	}
	if invitation.Status != entities.InvitationPending {
		return apperrors.New(apperrors.CodeAlreadyResponded, "invitation already responded to")
	}
	if invitation.IsExpired(now) {
		return apperrors.New(apperrors.CodeInvitationExpired, "invitation has expired")
	}
	return nil
}

func (s *InvitationService) requireOrganizerOrCoOrganizer(ctx context.Context, activity *entities.Activity, callerID string) error {
	if callerID == activity.OrganizerID {
		return nil
	}

	participant, err := s.participants.FindRegistered(ctx, s.db, activity.ID, callerID)
	if err != nil {
		return err
	}
	if participant == nil || participant.Role != entities.RoleCoOrganizer {
		return apperrors.New(apperrors.CodeNotAuthorized, "only organizer or co-organizer can manage invitations")
	}
	return nil
}
