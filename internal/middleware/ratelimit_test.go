package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bingo-sales-platform/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
	ok, wait := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	ok, _ = rl.Allow("b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	rl.Prune()
	assert.Empty(t, rl.attempts)
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := RateLimit(rl)(okHandler())

	newReq := func(subject string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/orders/1/sell", nil)
		return req.WithContext(SetUserContext(req.Context(), &models.User{Subject: subject, Role: models.UserRoleAdmin}))
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq("ops"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq("ops"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeErrorCode(t, rr))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq("other"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := RateLimit(nil)(okHandler())
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
