// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "storyloom-api/pkg/errors"

	"storyloom-api/internal/domain/entity"
)

// CharacterRepository 角色仓储实现
type CharacterRepository struct {
	client *Client
}

// NewCharacterRepository 创建角色仓储
func NewCharacterRepository(client *Client) *CharacterRepository {
	return &CharacterRepository{client: client}
}

// Create 创建角色
func (r *CharacterRepository) Create(ctx context.Context, character *entity.Character) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(character).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取角色
func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var character entity.Character
	if err := db.First(&character, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return &character, nil
}

// ListByStory 获取故事的角色列表
func (r *CharacterRepository) ListByStory(ctx context.Context, storyID string) ([]*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.ListByStory")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var characters []*entity.Character
	if err := db.Where("story_id = ?", storyID).
		Order("created_at ASC").
		Find(&characters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

// CountByStory 统计故事的角色数
func (r *CharacterRepository) CountByStory(ctx context.Context, storyID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.CountByStory")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.Character{}).Where("story_id = ?", storyID).Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return count, nil
}

// Update 更新角色
func (r *CharacterRepository) Update(ctx context.Context, character *entity.Character) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(character).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

// Delete 删除角色
// 仍被章节引用的角色不允许删除，调用方会拿到 ErrCharacterInUse。
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Table("chapter_characters").
			Where("character_id = ?", id).
			Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count character references: %w", err)
		}
		if refs > 0 {
			return apperrors.ErrCharacterInUse
		}
		if err := tx.Delete(&entity.Character{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete character: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// DeleteByStory 删除故事的全部角色
func (r *CharacterRepository) DeleteByStory(ctx context.Context, storyID string) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.DeleteByStory")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Character{}, "story_id = ?", storyID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete characters by story: %w", err)
	}
	return nil
}
