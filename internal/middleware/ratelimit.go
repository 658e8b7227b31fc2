package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter is a sliding-window limiter keyed by caller
type RateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewRateLimiter allows maxRequests per window for each key
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		attempts:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
// When it is not, the second value is the time until the next slot frees up.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	valid := rl.attempts[key][:0]
	for _, at := range rl.attempts[key] {
		if at.After(cutoff) {
			valid = append(valid, at)
		}
	}

	if len(valid) >= rl.maxRequests {
		rl.attempts[key] = valid
		return false, valid[0].Add(rl.window).Sub(now)
	}

	rl.attempts[key] = append(valid, now)
	return true, 0
}

// Prune drops keys with no request inside the window
func (rl *RateLimiter) Prune() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for key, attempts := range rl.attempts {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(cutoff) {
			delete(rl.attempts, key)
		}
	}
}

// RateLimit limits requests per authenticated subject, falling back to the client IP.
// A nil limiter disables limiting.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)
			if user := GetUserFromContext(r.Context()); user != nil && user.Subject != "" {
				key = user.Subject
			}

			if ok, wait := rl.Allow(key); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
