package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"freshmeal-bot/internal/infrastructure/config"
	"freshmeal-bot/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Context keys
const (
	ConfigKey = "config"
	RedisKey  = "redis"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Components ComponentStatus        `json:"components"`
	Runtime    map[string]interface{} `json:"runtime"`
}

// ComponentStatus 外部相依的設定狀態
type ComponentStatus struct {
	MenuSource       string `json:"menu_source"`
	StoreIdx         string `json:"store_idx"`
	NutritionEnabled bool   `json:"nutrition_enabled"`
	Model            string `json:"model,omitempty"`
	RateLimitBackend string `json:"rate_limit_backend,omitempty"`
}

func configFrom(c *gin.Context) (*config.Config, bool) {
	v, exists := c.Get(ConfigKey)
	if !exists {
		return nil, false
	}
	cfg, ok := v.(*config.Config)
	return cfg, ok && cfg != nil
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := configFrom(c)
	if !ok {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(false))
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	components := ComponentStatus{
		MenuSource:       cfg.Menu.BaseURL,
		StoreIdx:         cfg.Menu.StoreIdx,
		NutritionEnabled: cfg.AI.Active(),
	}
	if components.NutritionEnabled {
		components.Model = cfg.AI.Model
	}
	if cfg.RateLimit.Enabled {
		components.RateLimitBackend = cfg.RateLimit.Backend
	}

	response := HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now(),
		Version:    cfg.App.Version,
		Components: components,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查；使用 Redis 限流時需能連上 Redis
func ReadinessCheck(c *gin.Context) {
	if v, exists := c.Get(RedisKey); exists {
		if client, ok := v.(*redis.Client); ok && client != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				common.LogWarn("Redis not ready", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, common.ErrServiceUnavailable.Response(false))
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
