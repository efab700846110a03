package api

import (
	"encoding/json"
	"net/http"

	"activity-platform/participation/internal/auth"
	"activity-platform/participation/internal/constants"
	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/models/dtos/requests"
	"activity-platform/participation/internal/models/dtos/responses"

	"github.com/go-chi/chi/v5"
)

// SendInvitations handles POST /api/v1/activities/{activity_id}/invitations
func (h *Handlers) SendInvitations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")

		var req requests.SendInvitationsReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Message != nil && len(*req.Message) > constants.MaxInvitationMessageLength {
			respondWithError(w, http.StatusBadRequest, "message exceeds maximum length")
			return
		}
		if req.ExpiresInHours < 0 || req.ExpiresInHours > constants.MaxInvitationTTLHours {
			respondWithError(w, http.StatusBadRequest, "expires_in_hours out of range")
			return
		}

		result, err := h.deps.Services.Invitations.Send(r.Context(), activityID, claims.UserID,
			req.UserIDs, req.Message, req.ExpiresInHours)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.SendInvitationsRes{
			Invited: make([]responses.InvitationCreatedRes, 0, len(result.Invited)),
			Failed:  make([]responses.FailedInvitationRes, 0, len(result.Failed)),
		}
		for _, inv := range result.Invited {
			res.Invited = append(res.Invited, responses.InvitationCreatedRes{
				InvitationID:  inv.InvitationID,
				InvitedUserID: inv.InvitedUserID,
				InvitedAt:     inv.InvitedAt,
				ExpiresAt:     inv.ExpiresAt,
			})
		}
		for _, f := range result.Failed {
			res.Failed = append(res.Failed, responses.FailedInvitationRes{UserID: f.UserID, Reason: f.Reason})
		}
		respondWithSuccess(w, http.StatusCreated, &res)
	}
}

// AcceptInvitation handles POST /api/v1/invitations/{invitation_id}/accept
func (h *Handlers) AcceptInvitation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		invitationID := chi.URLParam(r, "invitation_id")

		result, err := h.deps.Services.Invitations.Accept(r.Context(), invitationID, claims.UserID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.AcceptInvitationRes{
			ActivityID:  result.ActivityID,
			Status:      string(result.Status),
			Waitlisted:  result.Waitlisted,
			RespondedAt: result.RespondedAt,
		}
		if result.Waitlisted {
			res.Status = "waitlisted"
			pos := result.WaitlistPosition
			res.WaitlistPosition = &pos
		}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// DeclineInvitation handles POST /api/v1/invitations/{invitation_id}/decline
func (h *Handlers) DeclineInvitation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		invitationID := chi.URLParam(r, "invitation_id")

		invitation, err := h.deps.Services.Invitations.Decline(r.Context(), invitationID, claims.UserID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.DeclineInvitationRes{
			InvitationID: invitation.ID,
			Status:       string(invitation.Status),
			RespondedAt:  *invitation.RespondedAt,
		}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// CancelInvitation handles DELETE /api/v1/invitations/{invitation_id}
func (h *Handlers) CancelInvitation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		invitationID := chi.URLParam(r, "invitation_id")

		if _, err := h.deps.Services.Invitations.Cancel(r.Context(), invitationID, claims.UserID); err != nil {
			respondWithServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ReceivedInvitations handles GET /api/v1/invitations/received
func (h *Handlers) ReceivedInvitations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		limit, offset := pagination(r)

		rows, err := h.deps.Services.Invitations.Received(r.Context(), claims.UserID,
			optionalQuery(r, "status"), limit, offset)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		total := 0
		if len(rows) > 0 {
			total = rows[0].TotalCount
		}
		res := responses.PaginatedRes[repositories.ReceivedInvitationRow]{Items: rows, Total: total, Limit: limit, Offset: offset}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// SentInvitations handles GET /api/v1/invitations/sent
func (h *Handlers) SentInvitations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		limit, offset := pagination(r)

		rows, err := h.deps.Services.Invitations.Sent(r.Context(), claims.UserID,
			optionalQuery(r, "activity_id"), optionalQuery(r, "status"), limit, offset)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		total := 0
		if len(rows) > 0 {
			total = rows[0].TotalCount
		}
		res := responses.PaginatedRes[repositories.SentInvitationRow]{Items: rows, Total: total, Limit: limit, Offset: offset}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}
