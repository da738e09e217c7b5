package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/propintel/internal/logger"
	"github.com/MrSnakeDoc/propintel/internal/utils"
)

// RateLimitConfig configures a per-client token bucket.
type RateLimitConfig struct {
	Burst         int           // requests allowed back to back
	PerMinute     int           // tokens refilled per client per minute
	MaxClients    int           // sweep early once this many clients are tracked (0 = no cap)
	SweepInterval time.Duration // default 1m
	IdleTTL       time.Duration // forget clients idle this long (default 15m)
	TrustProxy    bool          // resolve the client IP from proxy headers

	Logger logger.Logger
	Now    func() time.Time
}

func (c *RateLimitConfig) defaults() {
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.PerMinute < 1 {
		c.PerMinute = 1
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	if c.Logger == nil {
		c.Logger = logger.NewNop()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

type bucket struct {
	mu       sync.Mutex
	tokens   float64
	refilled time.Time
	seen     time.Time
}

// take refills the bucket and consumes one token if available. When empty it
// returns how long until the next token.
func (b *bucket) take(now time.Time, capacity, perSec float64) (ok bool, left int, wait time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dt := now.Sub(b.refilled).Seconds(); dt > 0 {
		b.tokens = math.Min(capacity, b.tokens+dt*perSec)
		b.refilled = now
	}
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	secs := math.Ceil((1 - b.tokens) / perSec)
	return false, 0, time.Duration(math.Max(secs, 1)) * time.Second
}

type limiter struct {
	cfg      RateLimitConfig
	perSec   float64
	capacity float64

	mu        sync.Mutex
	clients   map[string]*bucket
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	cfg.defaults()
	return &limiter{
		cfg:       cfg,
		perSec:    float64(cfg.PerMinute) / 60,
		capacity:  float64(cfg.Burst),
		clients:   make(map[string]*bucket),
		lastSweep: cfg.Now(),
	}
}

func (l *limiter) bucketFor(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxClients > 0 && len(l.clients) >= l.cfg.MaxClients
	if full || now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		l.sweepLocked(now)
	}

	b, ok := l.clients[key]
	if !ok {
		b = &bucket{tokens: l.capacity, refilled: now, seen: now}
		l.clients[key] = b
	}
	return b
}

func (l *limiter) sweepLocked(now time.Time) {
	for key, b := range l.clients {
		b.mu.Lock()
		idle := now.Sub(b.seen) > l.cfg.IdleTTL
		b.mu.Unlock()
		if idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit throttles each client IP with a token bucket. Rejected requests
// get a 429 JSON body and a Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := l.cfg.Now()
			ip := utils.ClientIP(r, l.cfg.TrustProxy)

			ok, left, wait := l.bucketFor(ip, now).take(now, l.capacity, l.perSec)
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(left))
			if !ok {
				l.cfg.Logger.Warn("rate limit exceeded",
					logger.String("client_ip", ip),
					logger.String("path", r.URL.Path),
					logger.Duration("retry_after", wait))
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())))
				reject(w, http.StatusTooManyRequests, "Too many extraction requests. Please wait and try again.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
