package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	apiContext "clientflow/internal/api/context"
	"clientflow/internal/platform/auth"
)

// Token-bucket limiter keyed per user (or per IP before auth). Buckets refill
// continuously at limit/minute.
type RateLimiter struct {
	store *sync.Map // map[string]*bucket
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
	mu         sync.Mutex
}

var rateLimits = map[string]int{
	"auth":      30,
	"api_read":  600,
	"api_write": 120,
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{store: &sync.Map{}}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.store.Range(func(key, value interface{}) bool {
			b := value.(*bucket)
			b.mu.Lock()
			if now.Sub(b.lastAccess) > 10*time.Minute {
				rl.store.Delete(key)
			}
			b.mu.Unlock()
			return true
		})
	}
}

func (rl *RateLimiter) Allow(key string, limit int) bool {
	now := time.Now()

	val, _ := rl.store.LoadOrStore(key, &bucket{
		tokens:     limit,
		lastRefill: now,
		lastAccess: now,
	})

	b := val.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastAccess = now

	elapsed := now.Sub(b.lastRefill)
	refillRate := float64(limit) / 60.0
	refill := int(elapsed.Seconds() * refillRate)
	if refill > 0 {
		b.tokens += refill
		if b.tokens > limit {
			b.tokens = limit
		}
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

var GlobalRateLimiter = NewRateLimiter()

func RateLimit(limitType string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var key string
			if claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims); ok {
				key = fmt.Sprintf("%s:%s", claims.UserID, limitType)
			} else {
				key = fmt.Sprintf("%s:%s", r.RemoteAddr, limitType)
			}

			limit, ok := rateLimits[limitType]
			if !ok {
				limit = 100
			}

			if !GlobalRateLimiter.Allow(key, limit) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}
