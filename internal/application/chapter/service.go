// Package chapter 提供章节 CRUD 用例
package chapter

import (
	"context"
	"strings"

	apperrors "storyloom-api/pkg/errors"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
)

// Service 章节服务
type Service struct {
	stories    repository.StoryRepository
	chapters   repository.ChapterRepository
	characters repository.CharacterRepository
	tx         repository.Transactor
}

// NewService 创建章节服务
func NewService(
	stories repository.StoryRepository,
	chapters repository.ChapterRepository,
	characters repository.CharacterRepository,
	tx repository.Transactor,
) *Service {
	return &Service{stories: stories, chapters: chapters, characters: characters, tx: tx}
}

// ownedStory 归属校验，不存在与非属主同样报 not found
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

// List 列出故事章节（按 position 升序）
func (s *Service) List(ctx context.Context, authorID, storyID string) ([]*entity.Chapter, error) {
	if _, err := s.ownedStory(ctx, authorID, storyID); err != nil {
		return nil, err
	}
	chapters, err := s.chapters.ListByStory(ctx, storyID)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list chapters")
	}
	return chapters, nil
}

// Create 手动创建章节，位置冲突报 409
func (s *Service) Create(ctx context.Context, authorID, storyID, title, content string, position int) (*entity.Chapter, error) {
	if _, err := s.ownedStory(ctx, authorID, storyID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.Validation("title is required")
	}
	if position < 1 {
		return nil, apperrors.Validation("position must be a positive integer")
	}

	chapter := entity.NewChapter(storyID, strings.TrimSpace(title), content, position)
	if err := s.chapters.Create(ctx, chapter); err != nil {
		if apperrors.IsCode(err, apperrors.CodePositionTaken) {
			return nil, err
		}
		return nil, apperrors.Persistence(err, "failed to create chapter")
	}
	return chapter, nil
}

// Get 获取单章
func (s *Service) Get(ctx context.Context, authorID, storyID, chapterID string) (*entity.Chapter, error) {
	if _, err := s.ownedStory(ctx, authorID, storyID); err != nil {
		return nil, err
	}
	chapter, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to load chapter")
	}
	if chapter == nil || chapter.StoryID != storyID {
		return nil, apperrors.ErrChapterNotFound
	}
	return chapter, nil
}

// Update 更新章节内容，可选择关联角色。
// 角色校验与章节写入在同一事务里，避免关联指向被并发删除的角色。
func (s *Service) Update(ctx context.Context, authorID, storyID, chapterID, title, content string, characterIDs []string) (*entity.Chapter, error) {
	chapter, err := s.Get(ctx, authorID, storyID, chapterID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) != "" {
		chapter.Title = strings.TrimSpace(title)
	}
	if content != "" {
		chapter.Content = content
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if characterIDs != nil {
			linked := make([]*entity.Character, 0, len(characterIDs))
			for _, id := range characterIDs {
				character, err := s.characters.GetByID(txCtx, id)
				if err != nil {
					return apperrors.Persistence(err, "failed to load character")
				}
				if character == nil || character.StoryID != storyID {
					return apperrors.ErrCharacterNotFound
				}
				linked = append(linked, character)
			}
			chapter.Characters = linked
		}
		return s.chapters.Update(txCtx, chapter)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Persistence(err, "failed to update chapter")
	}
	return chapter, nil
}

// Delete 删除章节
func (s *Service) Delete(ctx context.Context, authorID, storyID, chapterID string) error {
	if _, err := s.Get(ctx, authorID, storyID, chapterID); err != nil {
		return err
	}
	if err := s.chapters.Delete(ctx, chapterID); err != nil {
		return apperrors.Persistence(err, "failed to delete chapter")
	}
	return nil
}
