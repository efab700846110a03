package repositories

import (
	"context"
	"fmt"
	"time"

	"activity-platform/participation/internal/constants"

	"github.com/jmoiron/sqlx"
)

// ListingRepository runs the paginated read queries over sqlx. Everything
// here is read-only; the GORM transaction path owns all writes.
type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type ParticipantRow struct {
	UserID              string    `db:"user_id" json:"user_id"`
	Username            string    `db:"username" json:"username"`
	FirstName           string    `db:"first_name" json:"first_name"`
	LastName            string    `db:"last_name" json:"last_name"`
	ProfilePhotoURL     string    `db:"profile_photo_url" json:"profile_photo_url"`
	Role                string    `db:"role" json:"role"`
	ParticipationStatus string    `db:"participation_status" json:"participation_status"`
	AttendanceStatus    string    `db:"attendance_status" json:"attendance_status"`
	JoinedAt            time.Time `db:"joined_at" json:"joined_at"`
	VerificationCount   int       `db:"verification_count" json:"verification_count"`
	TotalCount          int       `db:"total_count" json:"-"`
}

func (r *ListingRepository) ListParticipants(ctx context.Context, activityID string, status, role *string, limit, offset int) ([]ParticipantRow, error) {
	var rows []ParticipantRow

	err := r.db.SelectContext(ctx, &rows, constants.ListParticipantsQuery,
		activityID, status, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return rows, nil
}

type UserActivityRow struct {
	ActivityID               string     `db:"activity_id" json:"activity_id"`
	Title                    string     `db:"title" json:"title"`
	ScheduledAt              time.Time  `db:"scheduled_at" json:"scheduled_at"`
	LocationName             string     `db:"location_name" json:"location_name"`
	City                     string     `db:"city" json:"city"`
	OrganizerUserID          string     `db:"organizer_user_id" json:"organizer_user_id"`
	OrganizerUsername        string     `db:"organizer_username" json:"organizer_username"`
	CurrentParticipantsCount int        `db:"current_participants_count" json:"current_participants_count"`
	MaxParticipants          int        `db:"max_participants" json:"max_participants"`
	ActivityType             string     `db:"activity_type" json:"activity_type"`
	Role                     string     `db:"role" json:"role"`
	ParticipationStatus      *string    `db:"participation_status" json:"participation_status"`
	AttendanceStatus         *string    `db:"attendance_status" json:"attendance_status"`
	JoinedAt                 *time.Time `db:"joined_at" json:"joined_at"`
	TotalCount               int        `db:"total_count" json:"-"`
}

func (r *ListingRepository) UserActivities(ctx context.Context, userID string, typeFilter, status *string, limit, offset int) ([]UserActivityRow, error) {
	var rows []UserActivityRow

	err := r.db.SelectContext(ctx, &rows, constants.UserActivitiesQuery,
		userID, typeFilter, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list user activities: %w", err)
	}
	return rows, nil
}

type WaitlistRow struct {
	WaitlistID      string     `db:"waitlist_id" json:"waitlist_id"`
	UserID          string     `db:"user_id" json:"user_id"`
	Username        string     `db:"username" json:"username"`
	FirstName       string     `db:"first_name" json:"first_name"`
	ProfilePhotoURL string     `db:"profile_photo_url" json:"profile_photo_url"`
	Position        int        `db:"position" json:"position"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	NotifiedAt      *time.Time `db:"notified_at" json:"notified_at"`
	TotalCount      int        `db:"total_count" json:"-"`
}

func (r *ListingRepository) Waitlist(ctx context.Context, activityID string, limit, offset int) ([]WaitlistRow, error) {
	var rows []WaitlistRow

	err := r.db.SelectContext(ctx, &rows, constants.WaitlistQuery,
		activityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}
	return rows, nil
}

type ReceivedInvitationRow struct {
	InvitationID        string     `db:"invitation_id" json:"invitation_id"`
	ActivityID          string     `db:"activity_id" json:"activity_id"`
	ActivityTitle       string     `db:"activity_title" json:"activity_title"`
	ActivityScheduledAt time.Time  `db:"activity_scheduled_at" json:"activity_scheduled_at"`
	InvitedByUserID     string     `db:"invited_by_user_id" json:"invited_by_user_id"`
	InvitedByUsername   string     `db:"invited_by_username" json:"invited_by_username"`
	Status              string     `db:"status" json:"status"`
	Message             *string    `db:"message" json:"message"`
	InvitedAt           time.Time  `db:"invited_at" json:"invited_at"`
	ExpiresAt           time.Time  `db:"expires_at" json:"expires_at"`
	RespondedAt         *time.Time `db:"responded_at" json:"responded_at"`
	TotalCount          int        `db:"total_count" json:"-"`
}

func (r *ListingRepository) ReceivedInvitations(ctx context.Context, userID string, status *string, limit, offset int) ([]ReceivedInvitationRow, error) {
	var rows []ReceivedInvitationRow

	err := r.db.SelectContext(ctx, &rows, constants.ReceivedInvitationsQuery,
		userID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list received invitations: %w", err)
	}
	return rows, nil
}

type SentInvitationRow struct {
	InvitationID    string     `db:"invitation_id" json:"invitation_id"`
	ActivityID      string     `db:"activity_id" json:"activity_id"`
	ActivityTitle   string     `db:"activity_title" json:"activity_title"`
	InvitedUserID   string     `db:"invited_user_id" json:"invited_user_id"`
	InvitedUsername string     `db:"invited_username" json:"invited_username"`
	Status          string     `db:"status" json:"status"`
	Message         *string    `db:"message" json:"message"`
	InvitedAt       time.Time  `db:"invited_at" json:"invited_at"`
	ExpiresAt       time.Time  `db:"expires_at" json:"expires_at"`
	RespondedAt     *time.Time `db:"responded_at" json:"responded_at"`
	TotalCount      int        `db:"total_count" json:"-"`
}

func (r *ListingRepository) SentInvitations(ctx context.Context, userID string, activityID, status *string, limit, offset int) ([]SentInvitationRow, error) {
	var rows []SentInvitationRow

	err := r.db.SelectContext(ctx, &rows, constants.SentInvitationsQuery,
		userID, activityID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent invitations: %w", err)
	}
	return rows, nil
}

type PendingVerificationActivityRow struct {
	ActivityID  string    `db:"activity_id" json:"activity_id"`
	Title       string    `db:"title" json:"title"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	TotalCount  int       `db:"total_count" json:"-"`
}

func (r *ListingRepository) PendingVerificationActivities(ctx context.Context, userID string, limit, offset int) ([]PendingVerificationActivityRow, error) {
	var rows []PendingVerificationActivityRow

	err := r.db.SelectContext(ctx, &rows, constants.PendingVerificationActivitiesQuery,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending verifications: %w", err)
	}
	return rows, nil
}

type UnconfirmedParticipantRow struct {
	UserID          string `db:"user_id" json:"user_id"`
	Username        string `db:"username" json:"username"`
	ProfilePhotoURL string `db:"profile_photo_url" json:"profile_photo_url"`
}

func (r *ListingRepository) UnconfirmedParticipants(ctx context.Context, activityID, userID string) ([]UnconfirmedParticipantRow, error) {
	var rows []UnconfirmedParticipantRow

	err := r.db.SelectContext(ctx, &rows, constants.UnconfirmedParticipantsQuery,
		activityID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unconfirmed participants: %w", err)
	}
	return rows, nil
}
