package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

var whitelistedIPs = map[string]bool{
	"127.0.0.1": true, // local tooling
}

type limiterGroup struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (g *limiterGroup) get(ip string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	if limiter, exists := g.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(g.limit, g.burst)
	g.limiters[ip] = limiter
	return limiter
}

// RateLimit returns per-IP rate limiting middleware. Each route group gets
// its own limiter set so read endpoints and mutations can carry different
// budgets (reads 60/min, mutations 10/min, bulk sends 5/min).
func RateLimit(perMinute int, burst int) func(http.Handler) http.Handler {
	group := &limiterGroup{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, _ := net.SplitHostPort(r.RemoteAddr)
			if whitelistedIPs[ip] {
				next.ServeHTTP(w, r)
				return
			}

			if !group.get(ip).Allow() {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
