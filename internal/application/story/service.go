// Package story 提供故事 CRUD 用例
package story

import (
	"context"
	"strings"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
)

// Service 故事服务，所有读写都以归属校验开路
type Service struct {
	stories repository.StoryRepository
}

// NewService 创建故事服务
func NewService(stories repository.StoryRepository) *Service {
	return &Service{stories: stories}
}

// Create 创建故事
func (s *Service) Create(ctx context.Context, authorID, title, genre string) (*entity.Story, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.Validation("title is required")
	}
	if strings.TrimSpace(genre) == "" {
		return nil, apperrors.Validation("genre is required")
	}

	story := entity.NewStory(authorID, strings.TrimSpace(title), strings.TrimSpace(genre))
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, apperrors.Persistence(err, "failed to create story")
	}
	return story, nil
}

// Get 获取归属于调用方的故事
func (s *Service) Get(ctx context.Context, authorID, storyID string) (*entity.Story, error) {
	story, err := s.stories.GetByIDAndAuthor(ctx, storyID, authorID)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to load story")
	}
	if story == nil {
		return nil, apperrors.ErrStoryNotFound
	}
	return story, nil
}

// List 分页列出调用方的故事
func (s *Service) List(ctx context.Context, authorID string, page, pageSize int) (*repository.PagedResult[*entity.Story], error) {
	result, err := s.stories.ListByAuthor(ctx, authorID, repository.NewPagination(page, pageSize))
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list stories")
	}
	return result, nil
}

// Update 更新故事标题或体裁
func (s *Service) Update(ctx context.Context, authorID, storyID, title, genre string) (*entity.Story, error) {
	story, err := s.Get(ctx, authorID, storyID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) != "" {
		story.Title = strings.TrimSpace(title)
	}
	if strings.TrimSpace(genre) != "" {
		story.Genre = strings.TrimSpace(genre)
	}
	if err := s.stories.Update(ctx, story); err != nil {
		return nil, apperrors.Persistence(err, "failed to update story")
	}
	return story, nil
}

// Delete 删除故事，连同其全部章节与角色
func (s *Service) Delete(ctx context.Context, authorID, storyID string) error {
	if _, err := s.Get(ctx, authorID, storyID); err != nil {
		return err
	}
	if err := s.stories.Delete(ctx, storyID); err != nil {
		return apperrors.Persistence(err, "failed to delete story")
	}
	logger.Info(ctx, "story deleted with cascade", "story_id", storyID)
	return nil
}
