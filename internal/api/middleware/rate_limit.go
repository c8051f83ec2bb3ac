package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"freshmeal-bot/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Limiter 依 key 判斷請求是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// bucket 單一 key 的令牌桶
type bucket struct {
	tokens   float64
	lastTime time.Time
}

// MemoryLimiter 單機令牌桶，每個 key 一個桶
type MemoryLimiter struct {
	mu        sync.Mutex
	capacity  float64
	rate      float64
	window    time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter 每個 key 在 window 內最多 requests 次
func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		window:   window,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
	}
}

// Allow 檢查是否允許請求
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, lastTime: now}
		l.buckets[key] = b
	}

	// 補充令牌
	b.tokens = min(l.capacity, b.tokens+now.Sub(b.lastTime).Seconds()*l.rate)
	b.lastTime = now

	if b.tokens >= 1 {
		b.tokens--
		return true, nil
	}
	return false, nil
}

// sweep 每個時間窗最多一次，移除閒置超過一個時間窗的桶。
// 閒置一個時間窗的桶已補滿，與新建的桶相同。
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now

	for key, b := range l.buckets {
		if now.Sub(b.lastTime) >= l.window {
			delete(l.buckets, key)
		}
	}
}

// RedisLimiter 多實例共用的固定時間窗計數器
type RedisLimiter struct {
	client   redis.Cmdable
	requests int64
	window   time.Duration
	prefix   string
}

// NewRedisLimiter 創建 Redis 限流器
func NewRedisLimiter(client redis.Cmdable, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		requests: int64(requests),
		window:   window,
		prefix:   "freshmeal:ratelimit",
	}
}

// Allow 以 INCR + EXPIRE 計數
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= l.requests, nil
}

// RateLimit 限流中間件，以 client IP 為 key。限流器出錯時放行。
func RateLimit(limiter Limiter, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			common.LogWarn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response(false))
			return
		}

		c.Next()
	}
}
