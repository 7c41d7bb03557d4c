// Package router 提供 HTTP 路由配置
package router

import (
	"storyloom-api/internal/config"
	"storyloom-api/internal/interfaces/http/handler"
	"storyloom-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Story      *handler.StoryHandler
	Chapter    *handler.ChapterHandler
	Character  *handler.CharacterHandler
	Generation *handler.GenerationHandler
}

// Router HTTP 路由器
type Router struct {
	engine      *gin.Engine
	cfg         *config.Config
	handlers    *Handlers
	rateLimiter middleware.RateLimiter
}

// New 创建新的路由器
func New(cfg *config.Config, handlers *Handlers, rateLimiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:      engine,
		cfg:         cfg,
		handlers:    handlers,
		rateLimiter: rateLimiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件，顺序即执行顺序
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	r.engine.Use(middleware.Auth(middleware.AuthConfig{
		Secret:    r.cfg.Security.JWT.Secret,
		Issuer:    r.cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   true,
	}))

	// 限流在认证之后，按 user_id 计数
	r.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
	}, r.rateLimiter))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		path := r.cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")
	{
		// 认证
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/logout", h.Auth.Logout)
		}

		// 故事与分步生成
		stories := v1.Group("/stories")
		{
			stories.POST("", h.Story.Create)
			stories.GET("", h.Story.List)
			stories.POST("/generate", h.Generation.Generate)
			stories.GET("/:story_id", h.Story.Get)
			stories.PATCH("/:story_id", h.Story.Update)
			stories.DELETE("/:story_id", h.Story.Delete)

			// 章节
			stories.GET("/:story_id/chapters", h.Chapter.List)
			stories.POST("/:story_id/chapters", h.Chapter.Create)
			stories.GET("/:story_id/chapters/:id", h.Chapter.Get)
			stories.PATCH("/:story_id/chapters/:id", h.Chapter.Update)
			stories.DELETE("/:story_id/chapters/:id", h.Chapter.Delete)

			// 角色
			stories.GET("/:story_id/characters", h.Character.List)
			stories.POST("/:story_id/characters", h.Character.Create)
			stories.GET("/:story_id/characters/:id", h.Character.Get)
			stories.PATCH("/:story_id/characters/:id", h.Character.Update)
			stories.DELETE("/:story_id/characters/:id", h.Character.Delete)
		}
	}
}
