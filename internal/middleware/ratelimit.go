package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskflow/backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// ClientLimiter decides whether a client identified by key may proceed.
type ClientLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// slidingWindowScript implements a fixed sliding window over a Redis sorted
// set. Expired members are pruned, the remainder counted against the limit,
// and the request recorded atomically.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return 1
	end
	return 0
`)

// RedisLimiter is a sliding-window limiter backed by Redis, shared across
// replicas of the API.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := "ratelimit:" + key

	result, err := slidingWindowScript.Run(ctx, l.client, []string{redisKey},
		now.UnixMilli(),
		now.Add(-l.window).UnixMilli(),
		l.limit,
		l.window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit script failed: %w", err)
	}

	return result == 1, nil
}

// LocalLimiter keeps a token-bucket limiter per client in memory. Used when
// no Redis address is configured; idle entries are dropped periodically.
type LocalLimiter struct {
	mu       sync.Mutex
	clients  map[string]*localClient
	rps      rate.Limit
	burst    int
	lastSeen time.Duration
}

type localClient struct {
	limiter *rate.Limiter
	seen    time.Time
}

func NewLocalLimiter(requestsPerMin, burst int) *LocalLimiter {
	l := &LocalLimiter{
		clients:  make(map[string]*localClient),
		rps:      rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
		lastSeen: 10 * time.Minute,
	}
	go l.cleanupLoop()
	return l
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, ok := l.clients[key]
	if !ok {
		client = &localClient{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = client
	}
	client.seen = time.Now()

	return client.limiter.Allow(), nil
}

func (l *LocalLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		for key, client := range l.clients {
			if time.Since(client.seen) > l.lastSeen {
				delete(l.clients, key)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit applies limiter per client IP. A limiter failure fails open:
// an unreachable Redis must not take authentication down with it.
func RateLimit(limiter ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(60))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests, please try again later",
			})
			return
		}

		c.Next()
	}
}

// NewLimiterFromConfig picks the Redis sliding window when an address is
// configured and the in-process limiter otherwise. Returns nil when rate
// limiting is disabled.
func NewLimiterFromConfig(cfg config.RateLimitConfig) ClientLimiter {
	if !cfg.Enabled {
		return nil
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return NewRedisLimiter(client, cfg.RequestsPerMin, cfg.Window)
	}
	return NewLocalLimiter(cfg.RequestsPerMin, cfg.BurstSize)
}
