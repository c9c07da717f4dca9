package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rateLimitDetail = "Rate limit exceeded. Please wait before retrying."

// counter counts hits for key inside a fixed window and reports when that
// window closes.
type counter interface {
	hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

// RateLimiter caps requests per client IP in fixed windows. Limits are shared
// across instances when backed by Redis.
type RateLimiter struct {
	name   string
	limit  int
	window time.Duration
	store  counter
}

// NewRateLimiter returns a limiter allowing limit requests per window for each
// client IP. rdb may be nil, in which case counts are kept in process.
// A limit <= 0 disables the limiter.
func NewRateLimiter(rdb *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{name: name, limit: limit, window: window}
	if rdb != nil {
		rl.store = &redisCounter{client: rdb}
	} else {
		rl.store = newMemoryCounter(time.Now)
	}
	return rl
}

// Handler enforces the limit. Store failures let the request through.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}
		key := "ratelimit:" + rl.name + ":" + c.ClientIP()
		n, resetAt, err := rl.store.hit(c.Request.Context(), key, rl.window)
		if err != nil {
			log.Warn().Err(err).Str("limiter", rl.name).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if n > int64(rl.limit) {
			secs := int(time.Until(resetAt).Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rateLimitDetail))
			return
		}
		c.Next()
	}
}

// ── Redis counter ─────────────────────────────────────────────────────────────

type evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// The first hit in a window starts its expiry; later hits only increment.
const fixedWindowScript = `
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`

type redisCounter struct {
	client evaler
}

func (r *redisCounter) hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	res, err := r.client.Eval(ctx, fixedWindowScript, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limiter: unexpected reply %v", res)
	}
	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return res[0], time.Now().Add(ttl), nil
}

// ── In-process counter ────────────────────────────────────────────────────────

const purgeInterval = 5 * time.Minute

type windowEntry struct {
	count     int64
	windowEnd time.Time
}

type memoryCounter struct {
	mu        sync.Mutex
	now       func() time.Time
	entries   map[string]*windowEntry
	nextPurge time.Time
}

func newMemoryCounter(now func() time.Time) *memoryCounter {
	return &memoryCounter{now: now, entries: make(map[string]*windowEntry), nextPurge: now().Add(purgeInterval)}
}

func (m *memoryCounter) hit(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.After(m.nextPurge) {
		m.purge(now)
	}
	e, ok := m.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd, nil
}

// purge drops closed windows so idle clients do not accumulate. Caller holds mu.
func (m *memoryCounter) purge(now time.Time) {
	purged := 0
	for k, e := range m.entries {
		if now.After(e.windowEnd) {
			delete(m.entries, k)
			purged++
		}
	}
	m.nextPurge = now.Add(purgeInterval)
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(m.entries)).Msg("rate limiter entries purged")
	}
}
