// Package character 提供角色 CRUD 用例
package character

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
	"storyloom-api/internal/infrastructure/persistence/redis"
)

// rosterTTL 角色名册缓存的存活时间
const rosterTTL = 5 * time.Minute

// Service 角色服务。名册读多写少，列表走缓存，写路径负责失效。
type Service struct {
	stories    repository.StoryRepository
	characters repository.CharacterRepository
	cache      *redis.Cache
}

// NewService 创建角色服务
func NewService(
	stories repository.StoryRepository,
	characters repository.CharacterRepository,
	cache *redis.Cache,
) *Service {
	return &Service{stories: stories, characters: characters, cache: cache}
}

func (s *Service) ownedStory(ctx context.Context, authorID, storyID string) (*entity.Story, error) {
	story, err := s.stories.GetByIDAndAuthor(ctx, storyID, authorID)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to load story")
	}
	if story == nil {
		return nil, apperrors.ErrStoryNotFound
	}
	return story, nil
}

// List 列出故事的角色名册（经缓存）
func (s *Service) List(ctx context.Context, authorID, storyID string) ([]*entity.Character, error) {
	if _, err := s.ownedStory(ctx, authorID, storyID); err != nil {
		return nil, err
	}

	raw, err := s.cache.GetOrLoadSafe(ctx, redis.BuildRosterKey(storyID), rosterTTL, func() (interface{}, error) {
		return s.characters.ListByStory(ctx, storyID)
	})
	if err != nil {
		// 缓存层故障时直接回源，不让读路径挂在 Redis 上
		logger.Warn(ctx, "roster cache unavailable, falling back to db", "story_id", storyID, "error", err.Error())
		characters, dbErr := s.characters.ListByStory(ctx, storyID)
		if dbErr != nil {
			return nil, apperrors.Persistence(dbErr, "failed to list characters")
		}
		return characters, nil
	}

	var characters []*entity.Character
	if err := json.Unmarshal(raw, &characters); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "corrupt roster cache entry")
	}
	return characters, nil
}

// Create 手动创建角色
func (s *Service) Create(ctx context.Context, authorID, storyID, name, appearance, biography string) (*entity.Character, error) {
	if _, err := s.ownedStory(ctx, authorID, storyID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Validation("name is required")
	}

	character := entity.NewCharacter(storyID, strings.TrimSpace(name), appearance, biography)
	if err := s.characters.Create(ctx, character); err != nil {
		return nil, apperrors.Persistence(err, "failed to create character")
	}
	_ = s.cache.InvalidateRoster(ctx, storyID)
	return character, nil
}

// Get 获取单个角色
func (s *Service) Get(ctx context.Context, authorID, storyID, characterID string) (*entity.Character, error) {
	if _, err := s.ownedStory(ctx, authorID, storyID); err != nil {
		return nil, err
	}
	character, err := s.characters.GetByID(ctx, characterID)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to load character")
	}
	if character == nil || character.StoryID != storyID {
		return nil, apperrors.ErrCharacterNotFound
	}
	return character, nil
}

// Update 更新角色
func (s *Service) Update(ctx context.Context, authorID, storyID, characterID, name, appearance, biography string) (*entity.Character, error) {
	character, err := s.Get(ctx, authorID, storyID, characterID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) != "" {
		character.Name = strings.TrimSpace(name)
	}
	if appearance != "" {
		character.Appearance = appearance
	}
	if biography != "" {
		character.Biography = biography
	}
	if err := s.characters.Update(ctx, character); err != nil {
		return nil, apperrors.Persistence(err, "failed to update character")
	}
	_ = s.cache.InvalidateRoster(ctx, storyID)
	return character, nil
}

// Delete 删除角色；仍被章节引用时拒绝
func (s *Service) Delete(ctx context.Context, authorID, storyID, characterID string) error {
	if _, err := s.Get(ctx, authorID, storyID, characterID); err != nil {
		return err
	}
	if err := s.characters.Delete(ctx, characterID); err != nil {
		if apperrors.IsCode(err, apperrors.CodeCharacterInUse) {
			return err
		}
		return apperrors.Persistence(err, "failed to delete character")
	}
	_ = s.cache.InvalidateRoster(ctx, storyID)
	return nil
}
