// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyloom-api/internal/domain/entity"
)

// ChapterRepository 章节仓储接口
type ChapterRepository interface {
	// Create 创建章节；(story_id, position) 冲突时返回 ErrPositionTaken
	Create(ctx context.Context, chapter *entity.Chapter) error

	// GetByID 根据 ID 获取章节
	GetByID(ctx context.Context, id string) (*entity.Chapter, error)

	// ListByStory 获取故事的章节列表（按 position 升序）
	ListByStory(ctx context.Context, storyID string) ([]*entity.Chapter, error)

	// ExistsAtPosition 检查故事在指定位置是否已有章节
	ExistsAtPosition(ctx context.Context, storyID string, position int) (bool, error)

	// Update 更新章节
	Update(ctx context.Context, chapter *entity.Chapter) error

	// Delete 删除章节并清除角色关联
	Delete(ctx context.Context, id string) error

	// DeleteByStory 删除故事的全部章节
	DeleteByStory(ctx context.Context, storyID string) error
}
