// Package auth 提供注册、登录等认证用例
package auth

import (
	"context"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"
	"storyloom-api/pkg/utils"

	"storyloom-api/internal/config"
	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
)

// Service 认证服务
type Service struct {
	users repository.UserRepository
	jwt   *utils.JWTManager
	cfg   *config.JWTConfig
}

// NewService 创建认证服务
func NewService(users repository.UserRepository, jwt *utils.JWTManager, cfg *config.Config) *Service {
	return &Service{
		users: users,
		jwt:   jwt,
		cfg:   &cfg.Security.JWT,
	}
}

// Register 注册新用户并直接签发令牌
func (s *Service) Register(ctx context.Context, email, password, name string) (*entity.User, *utils.TokenPair, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.Persistence(err, "failed to check email")
	}
	if exists {
		return nil, nil, apperrors.New(apperrors.CodeConflict, "email already registered")
	}

	user := entity.NewUser(email, name)
	if err := user.SetPassword(password); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to hash password")
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.Persistence(err, "failed to create user")
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Email, s.cfg.Expiration, s.cfg.RefreshExpiration)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to issue tokens")
	}

	logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, pair, nil
}

// Login 校验凭据并签发令牌。
// 邮箱不存在与密码错误返回同一个错误，不泄露账号存在性。
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, *utils.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.Persistence(err, "failed to load user")
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, nil, apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Email, s.cfg.Expiration, s.cfg.RefreshExpiration)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to issue tokens")
	}
	return user, pair, nil
}
