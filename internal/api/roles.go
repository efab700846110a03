package api

import (
	"encoding/json"
	"net/http"

	"activity-platform/participation/internal/auth"
	"activity-platform/participation/internal/models/dtos/requests"
	"activity-platform/participation/internal/models/dtos/responses"
	"activity-platform/participation/internal/models/entities"

	"github.com/go-chi/chi/v5"
)

// PromoteParticipant handles POST /api/v1/activities/{activity_id}/promote
func (h *Handlers) PromoteParticipant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")

		var req requests.ChangeRoleReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			respondWithError(w, http.StatusBadRequest, "user_id is required")
			return
		}

		if err := h.deps.Services.Roles.Promote(r.Context(), activityID, claims.UserID, req.UserID); err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.ChangeRoleRes{
			ActivityID: activityID,
			UserID:     req.UserID,
			Role:       string(entities.RoleCoOrganizer),
		}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// DemoteParticipant handles POST /api/v1/activities/{activity_id}/demote
func (h *Handlers) DemoteParticipant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")

		var req requests.ChangeRoleReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			respondWithError(w, http.StatusBadRequest, "user_id is required")
			return
		}

		if err := h.deps.Services.Roles.Demote(r.Context(), activityID, claims.UserID, req.UserID); err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.ChangeRoleRes{
			ActivityID: activityID,
			UserID:     req.UserID,
			Role:       string(entities.RoleMember),
		}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}
