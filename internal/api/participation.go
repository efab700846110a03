package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"activity-platform/participation/internal/auth"
	"activity-platform/participation/internal/constants"
	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/models/dtos/requests"
	"activity-platform/participation/internal/models/dtos/responses"
	"activity-platform/participation/internal/models/entities"

	"github.com/go-chi/chi/v5"
)

// JoinActivity handles POST /api/v1/activities/{activity_id}/join
func (h *Handlers) JoinActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")

		result, err := h.deps.Services.Participation.Join(r.Context(), activityID, claims.UserID, claims.SubscriptionLevel)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.JoinActivityRes{
			ActivityID: activityID,
			Status:     string(result.Status),
			Waitlisted: result.Waitlisted,
			JoinedAt:   result.JoinedAt,
		}
		if result.Waitlisted {
			res.Status = "waitlisted"
			pos := result.WaitlistPosition
			res.WaitlistPosition = &pos
		}
		respondWithSuccess(w, http.StatusCreated, &res)
	}
}

// LeaveActivity handles DELETE /api/v1/activities/{activity_id}/leave
func (h *Handlers) LeaveActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")

		result, err := h.deps.Services.Participation.Leave(r.Context(), activityID, claims.UserID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.LeaveActivityRes{
			ActivityID:     activityID,
			PromotedUserID: result.PromotedUserID,
			LeftAt:         result.LeftAt,
		}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// CancelParticipation handles POST /api/v1/activities/{activity_id}/cancel
func (h *Handlers) CancelParticipation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")

		// Body is optional; an empty body means no reason given.
		var req requests.CancelParticipationReq
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		if req.Reason != nil && len(*req.Reason) > constants.MaxCancelReasonLength {
			respondWithError(w, http.StatusBadRequest, "reason exceeds maximum length")
			return
		}

		result, err := h.deps.Services.Participation.Cancel(r.Context(), activityID, claims.UserID, req.Reason)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.CancelParticipationRes{
			ActivityID:     activityID,
			Status:         string(entities.ParticipationCancelled),
			PromotedUserID: result.PromotedUserID,
			CancelledAt:    result.LeftAt,
		}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// ListParticipants handles GET /api/v1/activities/{activity_id}/participants
func (h *Handlers) ListParticipants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")
		limit, offset := pagination(r)

		rows, err := h.deps.Services.Participation.ListParticipants(r.Context(), activityID, claims.UserID,
			optionalQuery(r, "status"), optionalQuery(r, "role"), limit, offset)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		total := 0
		if len(rows) > 0 {
			total = rows[0].TotalCount
		}
		res := responses.PaginatedRes[repositories.ParticipantRow]{Items: rows, Total: total, Limit: limit, Offset: offset}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// UserActivities handles GET /api/v1/users/{user_id}/activities
func (h *Handlers) UserActivities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		userID := chi.URLParam(r, "user_id")
		limit, offset := pagination(r)

		// Short-lived cache over the whole page; the key carries the viewer
		// so visibility rules are preserved.
		cacheKey := fmt.Sprintf("user_activities:%s:%s:%s", userID, claims.UserID, r.URL.RawQuery)
		var res responses.PaginatedRes[repositories.UserActivityRow]
		if !h.deps.Cache.GetJSON(cacheKey, &res) {
			rows, err := h.deps.Services.Participation.UserActivities(r.Context(), userID, claims.UserID,
				optionalQuery(r, "type"), optionalQuery(r, "status"), limit, offset)
			if err != nil {
				respondWithServiceError(w, err)
				return
			}
			total := 0
			if len(rows) > 0 {
				total = rows[0].TotalCount
			}
			res = responses.PaginatedRes[repositories.UserActivityRow]{Items: rows, Total: total, Limit: limit, Offset: offset}
			h.deps.Cache.Set(cacheKey, res, 30*time.Second)
		}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// ActivityWaitlist handles GET /api/v1/activities/{activity_id}/waitlist
func (h *Handlers) ActivityWaitlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")
		limit, offset := pagination(r)

		rows, err := h.deps.Services.Participation.Waitlist(r.Context(), activityID, claims.UserID, limit, offset)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		total := 0
		if len(rows) > 0 {
			total = rows[0].TotalCount
		}
		res := responses.PaginatedRes[repositories.WaitlistRow]{Items: rows, Total: total, Limit: limit, Offset: offset}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}
