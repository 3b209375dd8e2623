package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type windowCounter struct {
	count      int
	windowEnds time.Time
}

// IPRateLimiter is a fixed-window per-IP limiter used to keep expensive
// endpoints (bulk imports) from being hammered. Entries are capped so a
// flood of distinct source addresses cannot grow the map without bound.
type IPRateLimiter struct {
	mu         sync.Mutex
	limit      int
	window     time.Duration
	maxEntries int
	seen       map[string]windowCounter
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return NewIPRateLimiterWithMaxEntries(limit, window, 10000)
}

func NewIPRateLimiterWithMaxEntries(limit int, window time.Duration, maxEntries int) *IPRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &IPRateLimiter{
		limit:      limit,
		window:     window,
		maxEntries: maxEntries,
		seen:       map[string]windowCounter{},
	}
}

func (rl *IPRateLimiter) Middleware(message string) func(http.Handler) http.Handler {
	if message == "" {
		message = "Rate limit exceeded"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r.RemoteAddr)
			if ip == "" {
				ip = "unknown"
			}

			now := time.Now()
			rl.mu.Lock()
			entry, ok := rl.seen[ip]
			if !ok && len(rl.seen) >= rl.maxEntries {
				rl.evictExpired(now)
			}
			if entry.windowEnds.Before(now) {
				entry = windowCounter{windowEnds: now.Add(rl.window)}
			}
			entry.count++
			rl.seen[ip] = entry
			rl.mu.Unlock()

			if entry.count > rl.limit {
				writeError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", message, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// evictExpired is called with rl.mu held.
func (rl *IPRateLimiter) evictExpired(now time.Time) {
	for ip, entry := range rl.seen {
		if entry.windowEnds.Before(now) {
			delete(rl.seen, ip)
		}
	}
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
