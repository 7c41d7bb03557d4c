// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"storyloom-api/internal/domain/entity"
)

// CreateStoryRequest 创建故事请求
type CreateStoryRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Genre string `json:"genre" binding:"required,max=64"`
}

// UpdateStoryRequest 更新故事请求
type UpdateStoryRequest struct {
	Title *string `json:"title" binding:"omitempty,max=255"`
	Genre *string `json:"genre" binding:"omitempty,max=64"`
}

// StoryResponse 故事响应
type StoryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoryListResponse 故事列表响应
type StoryListResponse struct {
	Items []*StoryResponse `json:"items"`
}

// ToStoryResponse 实体转换为响应
func ToStoryResponse(s *entity.Story) *StoryResponse {
	if s == nil {
		return nil
	}
	return &StoryResponse{
		ID:        s.ID,
		Title:     s.Title,
		Genre:     s.Genre,
		Summary:   s.Summary,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToStoryListResponse 实体列表转换为响应
func ToStoryListResponse(stories []*entity.Story) *StoryListResponse {
	items := make([]*StoryResponse, len(stories))
	for i, s := range stories {
		items[i] = ToStoryResponse(s)
	}
	return &StoryListResponse{Items: items}
}
