// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"storyloom-api/internal/domain/entity"
)

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Appearance string `json:"appearance"`
	Biography  string `json:"biography"`
}

// UpdateCharacterRequest 更新角色请求
type UpdateCharacterRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=255"`
	Appearance *string `json:"appearance"`
	Biography  *string `json:"biography"`
}

// CharacterResponse 角色响应
type CharacterResponse struct {
	ID         string    `json:"id"`
	StoryID    string    `json:"story_id"`
	Name       string    `json:"name"`
	Appearance string    `json:"appearance"`
	Biography  string    `json:"biography"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CharacterListResponse 角色列表响应
type CharacterListResponse struct {
	Items []*CharacterResponse `json:"items"`
}

// ToCharacterResponse 实体转换为响应
func ToCharacterResponse(ch *entity.Character) *CharacterResponse {
	if ch == nil {
		return nil
	}
	return &CharacterResponse{
		ID:         ch.ID,
		StoryID:    ch.StoryID,
		Name:       ch.Name,
		Appearance: ch.Appearance,
		Biography:  ch.Biography,
		CreatedAt:  ch.CreatedAt,
		UpdatedAt:  ch.UpdatedAt,
	}
}

// ToCharacterListResponse 实体列表转换为响应
func ToCharacterListResponse(characters []*entity.Character) *CharacterListResponse {
	items := make([]*CharacterResponse, len(characters))
	for i, ch := range characters {
		items[i] = ToCharacterResponse(ch)
	}
	return &CharacterListResponse{Items: items}
}
