package routes

import (
	"activity-platform/participation/internal/api"
	"activity-platform/participation/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware()) // global: all routes must be authenticated

		// Mutating participation endpoints get the tightest limiter.
		v1.Group(func(writes chi.Router) {
			writes.Use(middleware.RateLimit(10, 5))

			writes.Post("/activities/{activity_id}/join", handlers.JoinActivity())
			writes.Delete("/activities/{activity_id}/leave", handlers.LeaveActivity())
			writes.Post("/activities/{activity_id}/cancel", handlers.CancelParticipation())

			writes.Post("/activities/{activity_id}/promote", handlers.PromoteParticipant())
			writes.Post("/activities/{activity_id}/demote", handlers.DemoteParticipant())

			writes.Post("/invitations/{invitation_id}/accept", handlers.AcceptInvitation())
			writes.Post("/invitations/{invitation_id}/decline", handlers.DeclineInvitation())
			writes.Delete("/invitations/{invitation_id}", handlers.CancelInvitation())

			writes.Post("/activities/{activity_id}/attendance", handlers.MarkAttendance())
			writes.Post("/attendance/confirm", handlers.ConfirmAttendance())
		})

		// Bulk invitation sends fan out per target, so they get their own
		// lower budget.
		v1.Group(func(bulk chi.Router) {
			bulk.Use(middleware.RateLimit(5, 2))
			bulk.Post("/activities/{activity_id}/invitations", handlers.SendInvitations())
		})

		// Read endpoints
		v1.Group(func(reads chi.Router) {
			reads.Use(middleware.RateLimit(60, 20))

			reads.Get("/activities/{activity_id}/participants", handlers.ListParticipants())
			reads.Get("/activities/{activity_id}/waitlist", handlers.ActivityWaitlist())
			reads.Get("/users/{user_id}/activities", handlers.UserActivities())

			reads.Get("/invitations/received", handlers.ReceivedInvitations())
			reads.Get("/invitations/sent", handlers.SentInvitations())

			reads.Get("/attendance/pending", handlers.PendingVerifications())
			reads.Get("/activities/{activity_id}/attendance/unconfirmed", handlers.UnconfirmedParticipants())
		})
	})
}
