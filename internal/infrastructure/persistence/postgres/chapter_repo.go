// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	apperrors "storyloom-api/pkg/errors"

	"storyloom-api/internal/domain/entity"
)

// ChapterRepository 章节仓储实现
type ChapterRepository struct {
	client *Client
}

// NewChapterRepository 创建章节仓储
func NewChapterRepository(client *Client) *ChapterRepository {
	return &ChapterRepository{client: client}
}

// isUniqueViolation 判断是否唯一约束冲突（PostgreSQL 23505）
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create 创建章节
// 唯一索引 uq_chapters_story_position 负责并发仲裁：
// 同一 (story_id, position) 的第二次插入返回 ErrPositionTaken，不覆盖已有行。
func (r *ChapterRepository) Create(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(chapter).Error; err != nil {
		span.RecordError(err)
		if isUniqueViolation(err) {
			return apperrors.ErrPositionTaken
		}
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取章节
func (r *ChapterRepository) GetByID(ctx context.Context, id string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var chapter entity.Chapter
	if err := db.Preload("Characters").First(&chapter, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return &chapter, nil
}

// ListByStory 获取故事的章节列表（按 position 升序）
func (r *ChapterRepository) ListByStory(ctx context.Context, storyID string) ([]*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ListByStory")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var chapters []*entity.Chapter
	if err := db.Where("story_id = ?", storyID).
		Order("position ASC").
		Find(&chapters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

// ExistsAtPosition 检查故事在指定位置是否已有章节
func (r *ChapterRepository) ExistsAtPosition(ctx context.Context, storyID string, position int) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ExistsAtPosition")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.Chapter{}).
		Where("story_id = ? AND position = ?", storyID, position).
		Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check chapter position: %w", err)
	}
	return count > 0, nil
}

// Update 更新章节
func (r *ChapterRepository) Update(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(chapter).Error; err != nil {
		span.RecordError(err)
		if isUniqueViolation(err) {
			return apperrors.ErrPositionTaken
		}
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	return nil
}

// Delete 删除章节并清除角色关联
func (r *ChapterRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM chapter_characters WHERE chapter_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to clear character links: %w", err)
		}
		if err := tx.Delete(&entity.Chapter{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete chapter: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// DeleteByStory 删除故事的全部章节
func (r *ChapterRepository) DeleteByStory(ctx context.Context, storyID string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.DeleteByStory")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Chapter{}, "story_id = ?", storyID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chapters by story: %w", err)
	}
	return nil
}
