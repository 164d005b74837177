package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter is a per-client token-bucket pool. A bucket is created on
// first sight of a client key and evicted after a period of inactivity so
// the map does not grow without bound.
type clientLimiter struct {
	mu            sync.Mutex
	buckets       map[string]*bucketEntry
	rps           rate.Limit
	burst         int
	startCleanup  sync.Once
	ttl           time.Duration
	cleanupPeriod time.Duration
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &clientLimiter{
		buckets:       make(map[string]*bucketEntry),
		rps:           rate.Limit(rps),
		burst:         burst,
		ttl:           10 * time.Minute,
		cleanupPeriod: time.Minute,
	}
}

// allow reports whether the client identified by key may proceed. The
// cleanup goroutine starts lazily on first use.
func (c *clientLimiter) allow(key string) bool {
	c.startCleanup.Do(func() { go c.cleanupLoop() })

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.buckets[key]; ok {
		e.lastSeen = time.Now()
		return e.limiter.Allow()
	}
	e := &bucketEntry{limiter: rate.NewLimiter(c.rps, c.burst), lastSeen: time.Now()}
	c.buckets[key] = e
	return e.limiter.Allow()
}

// cleanupLoop evicts buckets that have not been seen within the TTL.
func (c *clientLimiter) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupPeriod)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.ttl)
		c.mu.Lock()
		for k, e := range c.buckets {
			if e.lastSeen.Before(cutoff) {
				delete(c.buckets, k)
			}
		}
		c.mu.Unlock()
	}
}

// RateLimit rejects requests over the configured per-client rate with 429.
// Clients are keyed by IP, so RealIP should run earlier in the chain.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	pool := newClientLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				key = host
			}
			if !pool.allow(key) {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
