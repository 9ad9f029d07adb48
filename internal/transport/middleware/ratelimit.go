package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// idleTTL is how long a client's bucket survives without requests.
const idleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client IP. Every route wrapped by
// the same RateLimiter draws from that bucket, so the form and the JSON API
// share a client's submission allowance.
type RateLimiter struct {
	clock clockwork.Clock

	mu      sync.Mutex
	clients map[string]*client

	stop chan struct{}
	once sync.Once
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter starts a sweeper that drops idle clients every
// cleanupInterval. Call Stop on shutdown.
func NewRateLimiter(cleanupInterval time.Duration, clock clockwork.Clock) *RateLimiter {
	rl := &RateLimiter{
		clock:   clock,
		clients: make(map[string]*client),
		stop:    make(chan struct{}),
	}
	go rl.sweep(cleanupInterval)
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit allows perMinute requests per client IP with a burst of the same
// size. perMinute <= 0 disables the limit.
func (rl *RateLimiter) Limit(perMinute int) Middleware {
	return func(next http.Handler) http.Handler {
		if perMinute <= 0 {
			return next
		}
		every := time.Minute / time.Duration(perMinute)
		retryAfter := strconv.Itoa(int(every/time.Second) + 1)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.allow(clientIP(r), every, perMinute) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", retryAfter)
			if strings.HasPrefix(r.URL.Path, apiPrefix) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many submissions, try again later"}` + "\n"))
				return
			}
			http.Error(w, "Too many submissions, please try again later.", http.StatusTooManyRequests)
		})
	}
}

func (rl *RateLimiter) allow(ip string, every time.Duration, burst int) bool {
	now := rl.clock.Now()

	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{bucket: rate.NewLimiter(rate.Every(every), burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	return c.bucket.AllowN(now, 1)
}

func (rl *RateLimiter) sweep(interval time.Duration) {
	ticker := rl.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.Chan():
			rl.evictIdle(now)
		}
	}
}

// evictIdle drops clients not seen for idleTTL and reports how many remain.
func (rl *RateLimiter) evictIdle(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(rl.clients, ip)
		}
	}
	return len(rl.clients)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
