package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"freshmeal-bot/internal/api/handlers"
	"freshmeal-bot/internal/api/handlers/health"
	menuHandler "freshmeal-bot/internal/api/handlers/menu"
	"freshmeal-bot/internal/api/middleware"
	"freshmeal-bot/internal/core/cafeteria"
	"freshmeal-bot/internal/infrastructure/config"
	"freshmeal-bot/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// 未設定 server.request_timeout 時使用
	defaultRequestTimeout = 180 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize           = 1 << 20
)

// SetupRouter 設置路由；redisClient 只在限流使用 redis 時需要
func SetupRouter(cfg *config.Config, svc *cafeteria.Service, redisClient *redis.Client) (*gin.Engine, error) {
	if svc == nil {
		return nil, fmt.Errorf("cafeteria service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	timeoutDuration := cfg.Server.RequestTimeout
	if timeoutDuration <= 0 {
		timeoutDuration = defaultRequestTimeout
	}

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	limiter, err := newLimiter(cfg, redisClient)
	if err != nil {
		return nil, err
	}

	// 注入設定並設置請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set(health.ConfigKey, cfg)
		if redisClient != nil {
			c.Set(health.RedisKey, redisClient)
		}

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrGatewayTimeout.Response(false))
		}
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrNotFound.Response(false))
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter, cfg.RateLimit.Window))
	}
	api.Use(middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow)))
	{
		menus := menuHandler.NewHandler(svc)
		menuGroup := api.Group("/menu")
		{
			menuGroup.GET("/today", menus.HandleToday)
			menuGroup.GET("/week", menus.HandleWeek)
			menuGroup.GET("/raw", menus.HandleRaw)
			menuGroup.GET("/selection", menus.HandleSelection)
			menuGroup.POST("/actions", menus.HandleAction)
		}

		nutrition := handlers.NewNutritionHandler(svc)
		api.POST("/nutrition/analyze", nutrition.Analyze)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", limiter != nil),
		zap.String("rate_limit_backend", cfg.RateLimit.Backend),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

func newLimiter(cfg *config.Config, redisClient *redis.Client) (middleware.Limiter, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}

	switch cfg.RateLimit.Backend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("rate limit backend redis requires a redis client")
		}
		return middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
	default:
		return middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
	}
}
