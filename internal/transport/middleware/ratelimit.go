package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/frahmantamala/tenant-crm/internal"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 5 * time.Minute
	limiterSweepInterval = time.Minute
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter is a token bucket per client IP. It guards the credential
// endpoints against guessing. Idle buckets are dropped by Run, not on the
// request path.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	perSecond rate.Limit
	burst     int
	now       func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		now:       time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.perSecond, rl.burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// sweep drops buckets idle for longer than limiterIdleTTL.
func (rl *RateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	dropped := 0
	for k, b := range rl.buckets {
		if now.Sub(b.seen) > limiterIdleTTL {
			delete(rl.buckets, k)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle buckets every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = limiterSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.perSecond <= 0 || rl.allow(clientIP(r)) {
			next.ServeHTTP(w, r)
			return
		}

		status, body := internal.ErrRateLimited.ToHTTPResponse()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// clientIP keys on the peer address only. Forwarding headers are set by the
// client and would let each request pick a fresh bucket.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
