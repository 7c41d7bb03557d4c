//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"storyloom-api/internal/application/auth"
	"storyloom-api/internal/application/chapter"
	"storyloom-api/internal/application/character"
	"storyloom-api/internal/application/generation"
	"storyloom-api/internal/application/story"
	"storyloom-api/internal/config"
	"storyloom-api/internal/domain/repository"
	"storyloom-api/internal/infrastructure/llm"
	"storyloom-api/internal/infrastructure/persistence/postgres"
	"storyloom-api/internal/infrastructure/persistence/redis"
	"storyloom-api/internal/interfaces/http/handler"
	"storyloom-api/internal/interfaces/http/middleware"
	"storyloom-api/internal/interfaces/http/router"
	workflowport "storyloom-api/internal/workflow/port"
)

// InitializeDataLayer 初始化数据层
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		ServiceSet,
		HandlerSet,
		wire.Struct(new(router.Handlers), "*"),
		ProvideRouter,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewStoryRepository,
	postgres.NewChapterRepository,
	postgres.NewCharacterRepository,
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.StoryRepository), new(*postgres.StoryRepository)),
	wire.Bind(new(repository.ChapterRepository), new(*postgres.ChapterRepository)),
	wire.Bind(new(repository.CharacterRepository), new(*postgres.CharacterRepository)),
)

// ServiceSet 应用服务提供者集合
var ServiceSet = wire.NewSet(
	ProvideJWTManager,
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	auth.NewService,
	story.NewService,
	chapter.NewService,
	character.NewService,
	generation.NewStepResolver,
)

// HandlerSet HTTP 处理器提供者集合
var HandlerSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewStoryHandler,
	handler.NewChapterHandler,
	handler.NewCharacterHandler,
	handler.NewGenerationHandler,
)
