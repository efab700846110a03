package api

import (
	"encoding/json"
	"net/http"

	"activity-platform/participation/internal/auth"
	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/models/dtos/requests"
	"activity-platform/participation/internal/models/dtos/responses"
	"activity-platform/participation/internal/models/entities"
	"activity-platform/participation/internal/services"

	"github.com/go-chi/chi/v5"
)

// MarkAttendance handles POST /api/v1/activities/{activity_id}/attendance
func (h *Handlers) MarkAttendance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")

		var req requests.MarkAttendanceReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		updates := make([]services.AttendanceUpdate, 0, len(req.Updates))
		for _, u := range req.Updates {
			updates = append(updates, services.AttendanceUpdate{
				UserID: u.UserID,
				Status: entities.AttendanceStatus(u.Status),
			})
		}

		result, err := h.deps.Services.Attendance.Mark(r.Context(), activityID, claims.UserID, updates)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.MarkAttendanceRes{
			UpdatedCount: result.UpdatedCount,
			Failed:       make([]responses.FailedAttendanceRes, 0, len(result.Failed)),
		}
		for _, f := range result.Failed {
			res.Failed = append(res.Failed, responses.FailedAttendanceRes{UserID: f.UserID, Reason: f.Reason})
		}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// ConfirmAttendance handles POST /api/v1/attendance/confirm
func (h *Handlers) ConfirmAttendance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}

		var req requests.ConfirmAttendanceReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ActivityID == "" || req.ConfirmedUserID == "" {
			respondWithError(w, http.StatusBadRequest, "activity_id and confirmed_user_id are required")
			return
		}

		result, err := h.deps.Services.Attendance.Confirm(r.Context(), req.ActivityID, claims.UserID, req.ConfirmedUserID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		res := responses.ConfirmAttendanceRes{
			ActivityID:        req.ActivityID,
			ConfirmedUserID:   result.ConfirmedUserID,
			VerificationCount: result.VerificationCount,
			ConfirmedAt:       result.ConfirmedAt,
		}
		respondWithSuccess(w, http.StatusCreated, &res)
	}
}

// PendingVerifications handles GET /api/v1/attendance/pending
func (h *Handlers) PendingVerifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		limit, offset := pagination(r)

		rows, err := h.deps.Services.Attendance.PendingVerifications(r.Context(), claims.UserID, limit, offset)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		total := 0
		if len(rows) > 0 {
			total = rows[0].TotalCount
		}
		res := responses.PaginatedRes[repositories.PendingVerificationActivityRow]{Items: rows, Total: total, Limit: limit, Offset: offset}
		respondWithSuccess(w, http.StatusOK, &res)
	}
}

// UnconfirmedParticipants handles GET /api/v1/activities/{activity_id}/attendance/unconfirmed
func (h *Handlers) UnconfirmedParticipants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing claims")
			return
		}
		activityID := chi.URLParam(r, "activity_id")

		rows, err := h.deps.Services.Attendance.UnconfirmedParticipants(r.Context(), activityID, claims.UserID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &rows)
	}
}
