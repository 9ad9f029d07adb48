package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimited(t *testing.T, perMinute int) (http.Handler, *RateLimiter, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(time.Minute, clock)
	t.Cleanup(rl.Stop)

	h := rl.Limit(perMinute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	return h, rl, clock
}

func submitFrom(h http.Handler, path, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BurstThenBlock(t *testing.T) {
	h, _, _ := newLimited(t, 3)

	for i := range 3 {
		assert.Equal(t, http.StatusCreated, submitFrom(h, "/apply", "10.0.0.1:5000").Code, "submission %d", i)
	}

	rec := submitFrom(h, "/apply", "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "21", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too many submissions")
}

func TestRateLimiter_APIAnswersJSON(t *testing.T) {
	h, _, _ := newLimited(t, 1)

	require.Equal(t, http.StatusCreated, submitFrom(h, "/api/v1/applications", "10.0.0.2:1").Code)

	rec := submitFrom(h, "/api/v1/applications", "10.0.0.2:1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"too many submissions, try again later"}`, rec.Body.String())
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	h, _, _ := newLimited(t, 1)

	assert.Equal(t, http.StatusCreated, submitFrom(h, "/apply", "10.0.0.3:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, submitFrom(h, "/apply", "10.0.0.3:2").Code, "same host, other port")
	assert.Equal(t, http.StatusCreated, submitFrom(h, "/apply", "10.0.0.4:1").Code)
}

func TestRateLimiter_RefillsWithClock(t *testing.T) {
	h, _, clock := newLimited(t, 60)

	for range 60 {
		submitFrom(h, "/apply", "10.0.0.5:1")
	}
	require.Equal(t, http.StatusTooManyRequests, submitFrom(h, "/apply", "10.0.0.5:1").Code)

	clock.Advance(time.Second)
	assert.Equal(t, http.StatusCreated, submitFrom(h, "/apply", "10.0.0.5:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, submitFrom(h, "/apply", "10.0.0.5:1").Code)
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	h, rl, clock := newLimited(t, 5)

	submitFrom(h, "/apply", "10.0.0.6:1")
	clock.Advance(idleTTL / 2)
	submitFrom(h, "/apply", "10.0.0.7:1")

	assert.Equal(t, 2, rl.evictIdle(clock.Now()))
	assert.Equal(t, 1, rl.evictIdle(clock.Now().Add(idleTTL/2+time.Second)))
	assert.Equal(t, 0, rl.evictIdle(clock.Now().Add(idleTTL+time.Second)))
}

func TestRateLimiter_ZeroDisables(t *testing.T) {
	h, _, _ := newLimited(t, 0)

	for range 50 {
		assert.Equal(t, http.StatusCreated, submitFrom(h, "/apply", "10.0.0.8:1").Code)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(time.Minute, clockwork.NewRealClock())
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
