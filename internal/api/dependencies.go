package api

import (
	"activity-platform/participation/internal/common"
	"activity-platform/participation/internal/db"
	"activity-platform/participation/internal/db/repositories"
	"activity-platform/participation/internal/metrics"
	"activity-platform/participation/internal/services"
)

type Services struct {
	Participation *services.ParticipationService
	Roles         *services.RoleService
	Invitations   *services.InvitationService
	Attendance    *services.AttendanceService
}

type Dependencies struct {
	Listings *repositories.ListingRepository
	Cache    common.CacheInterface
	Services *Services
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	listings := repositories.NewListingRepository(db.DB)
	cache := common.NewCache()

	svcs := &Services{
		Participation: services.NewParticipationService(db.PgDB, listings, metricsReg),
		Roles:         services.NewRoleService(db.PgDB),
		Invitations:   services.NewInvitationService(db.PgDB, listings, metricsReg),
		Attendance:    services.NewAttendanceService(db.PgDB, listings, metricsReg),
	}

	return &Dependencies{
		Listings: listings,
		Cache:    cache,
		Services: svcs,
	}, nil
}
