package api

import (
	"net/http"
	"strconv"

	"activity-platform/participation/internal/constants"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// pagination reads limit/offset query params, clamping to the configured
// bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = constants.DefaultPageLimit
	offset = 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// optionalQuery returns a filter param as a nullable string.
func optionalQuery(r *http.Request, key string) *string {
	if raw := r.URL.Query().Get(key); raw != "" {
		return &raw
	}
	return nil
}
