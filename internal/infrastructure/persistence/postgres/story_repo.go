// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
)

// StoryRepository 故事仓储实现
type StoryRepository struct {
	client *Client
}

// NewStoryRepository 创建故事仓储
func NewStoryRepository(client *Client) *StoryRepository {
	return &StoryRepository{client: client}
}

// Create 创建故事
func (r *StoryRepository) Create(ctx context.Context, story *entity.Story) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(story).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create story: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取故事
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var story entity.Story
	if err := db.First(&story, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return &story, nil
}

// GetByIDAndAuthor 根据 ID 和作者获取故事
func (r *StoryRepository) GetByIDAndAuthor(ctx context.Context, id, authorID string) (*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.GetByIDAndAuthor")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var story entity.Story
	if err := db.First(&story, "id = ? AND author_id = ?", id, authorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get story by author: %w", err)
	}
	return &story, nil
}

// ListByAuthor 获取作者的故事列表
func (r *StoryRepository) ListByAuthor(ctx context.Context, authorID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.ListByAuthor")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Story{}).Where("author_id = ?", authorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}

	var stories []*entity.Story
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&stories).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	return repository.NewPagedResult(stories, total, pagination), nil
}

// Update 更新故事
func (r *StoryRepository) Update(ctx context.Context, story *entity.Story) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(story).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update story: %w", err)
	}
	return nil
}

// UpdateSummary 更新故事摘要
func (r *StoryRepository) UpdateSummary(ctx context.Context, id, summary string) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.UpdateSummary")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Story{}).Where("id = ?", id).Update("summary", summary).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update story summary: %w", err)
	}
	return nil
}

// Delete 删除故事
// 级联删除必须在一个事务里完成：先断开章节与角色的关联，
// 再删章节、角色，最后删故事本身。
func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM chapter_characters WHERE chapter_id IN (SELECT id FROM chapters WHERE story_id = ?)",
			id,
		).Error; err != nil {
			return fmt.Errorf("failed to clear chapter character links: %w", err)
		}
		if err := tx.Delete(&entity.Chapter{}, "story_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete chapters: %w", err)
		}
		if err := tx.Delete(&entity.Character{}, "story_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete characters: %w", err)
		}
		if err := tx.Delete(&entity.Story{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete story: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
