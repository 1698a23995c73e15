package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Counter counts hits per key in fixed windows
type Counter interface {
	// Incr records a hit and returns the count so far in the current window
	// and when that window ends.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

// MemoryCounter implements Counter for a single process
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*window
	cleanup time.Duration
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	count   int64
	resetAt time.Time
}

// NewMemoryCounter creates a counter and starts its cleanup loop; call Close
// to stop it.
func NewMemoryCounter() *MemoryCounter {
	c := &MemoryCounter{
		windows: make(map[string]*window),
		cleanup: 5 * time.Minute,
		stop:    make(chan struct{}),
	}

	// Start background cleanup goroutine
	go c.cleanupLoop()

	return c
}

// Incr implements Counter
func (c *MemoryCounter) Incr(_ context.Context, key string, d time.Duration) (int64, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	w, exists := c.windows[key]
	if !exists || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(d)}
		c.windows[key] = w
	}

	w.count++
	return w.count, w.resetAt, nil
}

// Close stops the cleanup loop
func (c *MemoryCounter) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// cleanupLoop periodically removes finished windows
func (c *MemoryCounter) cleanupLoop() {
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, w := range c.windows {
				if !now.Before(w.resetAt) {
					delete(c.windows, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// RateLimitConfig configures the rate limiting middleware
type RateLimitConfig struct {
	// Limit is the number of requests allowed per client in each Window
	Limit  int
	Window time.Duration
	// Name separates counters of limiters sharing a Counter
	Name    string
	Counter Counter
	// TrustProxy takes the client address from X-Forwarded-For
	TrustProxy bool
	// OnLimited writes the 429 response
	OnLimited http.HandlerFunc
}

// RateLimit rejects clients that exceed cfg.Limit requests per cfg.Window.
// RateLimit-* headers follow the IETF draft used by most Node and Go
// limiters. If the counter fails the request is let through.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	policy := strconv.Itoa(cfg.Limit) + ";w=" + strconv.Itoa(int(cfg.Window.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r, cfg.TrustProxy)

			count, resetAt, err := cfg.Counter.Incr(r.Context(), cfg.Name+":"+key, cfg.Window)
			if err != nil {
				slog.Warn("rate limit counter unavailable",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			reset := int(time.Until(resetAt).Round(time.Second).Seconds())
			if reset < 0 {
				reset = 0
			}

			h := w.Header()
			h.Set("RateLimit-Policy", policy)
			h.Set("RateLimit-Limit", strconv.Itoa(cfg.Limit))
			h.Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("RateLimit-Reset", strconv.Itoa(reset))

			if count > int64(cfg.Limit) {
				slog.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				h.Set("Retry-After", strconv.Itoa(reset))
				cfg.OnLimited(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client IP address from the request. Forwarding
// headers are only honoured behind a trusted proxy.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
