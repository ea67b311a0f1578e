package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/cache"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/providers"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
)

const rateLimitWindow = 15 * time.Minute

// Rate limit groups and their per-window budgets.
const (
	RateLimitLogin  = "login"
	RateLimitStatus = "status"
	RateLimitAPI    = "api"

	LoginLimit  = 10
	StatusLimit = 100
	APILimit    = 300
)

// RateLimiter enforces fixed 15-minute windows per client IP and route
// group. Counters live in the shared cache; when it is unreachable the
// limiter falls back to a process-local store so limits degrade to per-node
// rather than disappearing.
type RateLimiter struct {
	primary providers.CacheProvider
	local   *cache.MemoryAdapter
}

// NewRateLimiter creates a rate limiter over the shared cache provider.
func NewRateLimiter(primary providers.CacheProvider) *RateLimiter {
	return &RateLimiter{
		primary: primary,
		local:   cache.NewMemoryAdapter(),
	}
}

// Close stops the process-local fallback store's background reaper.
func (rl *RateLimiter) Close() error {
	return rl.local.Close()
}

// Limit returns middleware enforcing max requests per window for the group.
func (rl *RateLimiter) Limit(group string, max int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count, err := rl.increment(r, group)
			if err != nil {
				// Never fail open silently and never block on limiter
				// errors; log and let the request through.
				observability.GetLogger().Warn().Err(err).Msg("Rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(max) {
				respondTooMany(w, group)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitFailures returns middleware that only counts failed attempts against
// the budget: the check runs before the handler, the increment after, and
// only when the response was an error. Successful logins never consume it.
func (rl *RateLimiter) LimitFailures(group string, max int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if count, err := rl.current(r, group); err == nil && count >= int64(max) {
				respondTooMany(w, group)
				return
			}

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			if rw.statusCode >= http.StatusBadRequest {
				if _, err := rl.increment(r, group); err != nil {
					observability.GetLogger().Warn().Err(err).Msg("Rate limiter unavailable")
				}
			}
		})
	}
}

func (rl *RateLimiter) key(r *http.Request, group string) string {
	window := time.Now().Unix() / int64(rateLimitWindow.Seconds())
	return fmt.Sprintf("ratelimit:%s:%s:%d", group, clientIP(r), window)
}

func (rl *RateLimiter) increment(r *http.Request, group string) (int64, error) {
	key := rl.key(r, group)
	ttl := int(rateLimitWindow.Seconds())

	count, err := rl.primary.Increment(r.Context(), key, ttl)
	if err == nil {
		return count, nil
	}
	return rl.local.Increment(r.Context(), key, ttl)
}

func (rl *RateLimiter) current(r *http.Request, group string) (int64, error) {
	key := rl.key(r, group)

	data, err := rl.primary.Get(r.Context(), key)
	if err != nil {
		if data, err = rl.local.Get(r.Context(), key); err != nil {
			// No counter yet this window.
			return 0, nil
		}
	}
	return strconv.ParseInt(string(data), 10, 64)
}

func respondTooMany(w http.ResponseWriter, group string) {
	message := "Too many requests. Please slow down."
	if group == RateLimitLogin {
		message = "Too many login attempts. Please try again later."
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	fmt.Fprintf(w, `{"success":false,"message":%q}`, message)
}

// clientIP resolves the caller's address, trusting the first entry of
// X-Forwarded-For when a proxy added one.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
