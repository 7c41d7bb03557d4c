// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyloom-api/internal/domain/entity"
)

// StoryRepository 故事仓储接口
type StoryRepository interface {
	// Create 创建故事
	Create(ctx context.Context, story *entity.Story) error

	// GetByID 根据 ID 获取故事
	GetByID(ctx context.Context, id string) (*entity.Story, error)

	// GetByIDAndAuthor 根据 ID 和作者获取故事；归属校验的唯一入口
	GetByIDAndAuthor(ctx context.Context, id, authorID string) (*entity.Story, error)

	// ListByAuthor 获取作者的故事列表
	ListByAuthor(ctx context.Context, authorID string, pagination Pagination) (*PagedResult[*entity.Story], error)

	// Update 更新故事
	Update(ctx context.Context, story *entity.Story) error

	// UpdateSummary 更新故事摘要
	UpdateSummary(ctx context.Context, id, summary string) error

	// Delete 删除故事，级联删除其章节与角色
	Delete(ctx context.Context, id string) error
}
