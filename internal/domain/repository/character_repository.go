// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storyloom-api/internal/domain/entity"
)

// CharacterRepository 角色仓储接口
type CharacterRepository interface {
	// Create 创建角色
	Create(ctx context.Context, character *entity.Character) error

	// GetByID 根据 ID 获取角色
	GetByID(ctx context.Context, id string) (*entity.Character, error)

	// ListByStory 获取故事的角色列表
	ListByStory(ctx context.Context, storyID string) ([]*entity.Character, error)

	// CountByStory 统计故事的角色数
	CountByStory(ctx context.Context, storyID string) (int64, error)

	// Update 更新角色
	Update(ctx context.Context, character *entity.Character) error

	// Delete 删除角色；仍被章节引用时返回 ErrCharacterInUse
	Delete(ctx context.Context, id string) error

	// DeleteByStory 删除故事的全部角色
	DeleteByStory(ctx context.Context, storyID string) error
}
