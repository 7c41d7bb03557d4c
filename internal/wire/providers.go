// Package wire 提供依赖注入配置
package wire

import (
	"storyloom-api/internal/config"
	"storyloom-api/internal/infrastructure/persistence/postgres"
	"storyloom-api/internal/infrastructure/persistence/redis"
	"storyloom-api/internal/interfaces/http/middleware"
	"storyloom-api/internal/interfaces/http/router"
	"storyloom-api/pkg/utils"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	PgClient      *postgres.Client
	TxManager     *postgres.TxManager
	UserRepo      *postgres.UserRepository
	StoryRepo     *postgres.StoryRepository
	ChapterRepo   *postgres.ChapterRepository
	CharacterRepo *postgres.CharacterRepository

	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter
}

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient      *postgres.Client
	TxManager     *postgres.TxManager
	UserRepo      *postgres.UserRepository
	StoryRepo     *postgres.StoryRepository
	ChapterRepo   *postgres.ChapterRepository
	CharacterRepo *postgres.CharacterRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideJWTManager 提供 JWT 管理器
func ProvideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
}

// ProvideRouter 提供 HTTP 路由器
func ProvideRouter(cfg *config.Config, handlers router.Handlers, rateLimiter middleware.RateLimiter) *router.Router {
	return router.New(cfg, &handlers, rateLimiter)
}
