package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/server/response"
)

// RateLimiter implements token bucket rate limiting per IP address.
type RateLimiter struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	logger   *zerolog.Logger
}

// visitor tracks rate limit state for a single IP.
type visitor struct {
	mu        sync.Mutex
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter allowing limit requests per
// window per IP.
func NewRateLimiter(limit int, window time.Duration, logger *zerolog.Logger) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		logger:   logger,
	}

	go rl.cleanup()

	return rl
}

// cleanup removes stale visitors every 5 minutes.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			v.mu.Lock()
			stale := time.Since(v.lastReset) > 10*time.Minute
			v.mu.Unlock()
			if stale {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// getVisitor returns or creates a visitor for the IP.
func (rl *RateLimiter) getVisitor(ip string) *visitor {
	rl.mu.RLock()
	v, exists := rl.visitors[ip]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// Double-check after acquiring write lock
		v, exists = rl.visitors[ip]
		if !exists {
			v = &visitor{tokens: rl.limit, lastReset: time.Now()}
			rl.visitors[ip] = v
		}
		rl.mu.Unlock()
	}

	return v
}

// allow checks if a request from the IP is allowed.
func (rl *RateLimiter) allow(ip string) bool {
	v := rl.getVisitor(ip)

	v.mu.Lock()
	defer v.mu.Unlock()

	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.limit
		v.lastReset = time.Now()
	}

	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// Middleware enforces the rate limit. A zero limit disables limiting.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rl.allow(ip) {
			rl.logger.Warn().
				Str("remote_addr", ip).
				Str("path", r.URL.Path).
				Msg("Rate limit exceeded")

			response.TooManyRequests(w, "Rate limit exceeded", "Retry after the rate limit window")
			return
		}

		next.ServeHTTP(w, r)
	})
}
