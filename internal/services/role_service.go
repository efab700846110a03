package services

import (
	"context"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/logging"
	"activity-platform/participation/internal/models/entities"

	"gorm.io/gorm"
)

// RoleService promotes and demotes participants between member and
// co-organizer. Only the activity's organizer may call either.
type RoleService struct {
	db           *gorm.DB
	activities   *repositories.ActivityRepository
	participants *repositories.ParticipantRepository
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{
		db:           db,
		activities:   repositories.NewActivityRepository(db),
		participants: repositories.NewParticipantRepository(db),
	}
}

func (s *RoleService) Promote(ctx context.Context, activityID, callerID, targetUserID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := s.activities.FindForUpdate(ctx, tx, activityID)
		if err != nil {
			return err
		}

		if activity.OrganizerID != callerID {
			return apperrors.New(apperrors.CodeNotOrganizer, "only organizer can promote participants")
		}
		// The organizer never holds a participant row; targeting them is
		// always invalid.
		if targetUserID == activity.OrganizerID {
			return apperrors.New(apperrors.CodeCannotPromoteSelf, "organizer cannot be promoted")
		}

		participant, err := s.participants.FindRegistered(ctx, tx, activityID, targetUserID)
		if err != nil {
			return err
		}
		if participant == nil {
			return apperrors.New(apperrors.CodeTargetNotMember, "user is not a member participant")
		}
		if participant.Role == entities.RoleCoOrganizer {
			return apperrors.New(apperrors.CodeAlreadyCoOrganizer, "user is already a co-organizer")
		}
		if participant.Role != entities.RoleMember {
			return apperrors.New(apperrors.CodeTargetNotMember, "user is not a member participant")
		}

		participant.Role = entities.RoleCoOrganizer
		return s.participants.Save(ctx, tx, participant)
	})

	if err != nil {
		return err
	}

	logging.Info("Participant promoted",
		"activity_id", activityID,
		"user_id", targetUserID,
	)
	return nil
}

func (s *RoleService) Demote(ctx context.Context, activityID, callerID, targetUserID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := s.activities.FindForUpdate(ctx, tx, activityID)
		if err != nil {
			return err
		}

		if activity.OrganizerID != callerID {
			return apperrors.New(apperrors.CodeNotOrganizer, "only organizer can demote participants")
		}

		participant, err := s.participants.FindRegistered(ctx, tx, activityID, targetUserID)
		if err != nil {
			return err
		}
		if participant == nil || participant.Role != entities.RoleCoOrganizer {
			return apperrors.New(apperrors.CodeNotCoOrganizer, "user is not a co-organizer")
		}

		participant.Role = entities.RoleMember
		return s.participants.Save(ctx, tx, participant)
	})

	if err != nil {
		return err
	}

	logging.Info("Participant demoted",
		"activity_id", activityID,
		"user_id", targetUserID,
	)
	return nil
}
