package httpx

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/despacholink/expediente/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig describes a token-bucket limit applied per key.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Rate limit profiles. Sign-in and portal writes get the strict profile;
// authenticated CRUD gets moderate; reads and health checks get lenient.
// Each can be overridden via RATELIMIT_{PROFILE}_{REQUESTS,WINDOW_SEC,BURST}.
var (
	StrictLimit   = RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 30}
	LenientLimit  = RateLimitConfig{RequestsPerWindow: 120, Window: time.Minute, Burst: 120}
)

func init() {
	StrictLimit = rateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = rateLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = rateLimitFromEnv("LENIENT", LenientLimit)
}

func rateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if v, err := strconv.Atoi(os.Getenv("RATELIMIT_" + prefix + "_REQUESTS")); err == nil && v > 0 {
		cfg.RequestsPerWindow = v
	}
	if v, err := strconv.Atoi(os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC")); err == nil && v > 0 {
		cfg.Window = time.Duration(v) * time.Second
	}
	if v, err := strconv.Atoi(os.Getenv("RATELIMIT_" + prefix + "_BURST")); err == nil && v > 0 {
		cfg.Burst = v
	}
	return cfg
}

// KeyExtractor derives the bucketing key for a request.
type KeyExtractor func(*http.Request) string

type keyedLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func (kl *keyedLimiter) get(key string) *rate.Limiter {
	if l, ok := kl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	actual, _ := kl.limiters.LoadOrStore(key, rate.NewLimiter(kl.rate, kl.burst))
	kl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose buckets are full again, which means the
// key has been idle for at least a full window. Keeps the map bounded.
func (kl *keyedLimiter) maybeCleanup() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if time.Since(kl.lastCleanup) < 5*time.Minute {
		return
	}
	kl.lastCleanup = time.Now()

	kl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(kl.burst) {
			kl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit builds a per-key rate limiting middleware.
func RateLimit(cfg RateLimitConfig, extract KeyExtractor) Middleware {
	kl := &keyedLimiter{
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extract(r)
			if key == "" {
				// No key means we cannot bucket the request; let it through.
				next.ServeHTTP(w, r)
				return
			}

			if !kl.get(key).Allow() {
				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
				)
				w.Header().Set("Retry-After", "1")
				WriteError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP buckets by originating client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, ClientIP)
}
