package api

import (
	"encoding/json/v2"
	"net/http"
	"strings"
	"time"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a new rate limiter.
// rate: number of requests allowed per interval
// interval: time period for rate (e.g., time.Minute)
// burst: maximum burst size
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// adminRateLimit limits the mutation endpoints (sync, reload, entry adds)
// by client IP. Read endpoints pass through untouched.
// Returns 429 Too Many Requests when the limit is exceeded.
func (s *Server) adminRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAdminMutation(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := getClientIP(r)
		if !s.adminLimiter.Allow(key) {
			s.logger.Warn("rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
			)
			writeTooManyRequests(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isAdminMutation reports whether the request targets an endpoint that
// rewrites vocabulary state.
func isAdminMutation(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch path {
	case "/api/v1/picklists/sync", "/api/v1/picklists/reload":
		return true
	}
	// POST /api/v1/picklists/{type} adds a single entry.
	rest, ok := strings.CutPrefix(path, "/api/v1/picklists/")
	return ok && rest != "" && !strings.Contains(rest, "/")
}

// writeTooManyRequests emits a 429 in the shared envelope shape. The
// limiter sits in front of huma, so it cannot use the transformer.
func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	body, _ := json.Marshal(&Envelope{
		V:       envelopeVersion,
		Success: false,
		Error: &APIError{
			status:  http.StatusTooManyRequests,
			Code:    "RATE_LIMITED",
			Message: "Too many requests. Please try again later.",
		},
	})
	_, _ = w.Write(body)
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in the chain.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return xff[:i]
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
