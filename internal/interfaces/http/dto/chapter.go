// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"storyloom-api/internal/domain/entity"
)

// CreateChapterRequest 创建章节请求
type CreateChapterRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content"`
	Position int    `json:"position" binding:"required,min=1"`
}

// UpdateChapterRequest 更新章节请求
type UpdateChapterRequest struct {
	Title        *string  `json:"title" binding:"omitempty,max=255"`
	Content      *string  `json:"content"`
	CharacterIDs []string `json:"character_ids" binding:"omitempty,dive,uuid"`
}

// ChapterResponse 章节响应
type ChapterResponse struct {
	ID         string               `json:"id"`
	StoryID    string               `json:"story_id"`
	Title      string               `json:"title"`
	Content    string               `json:"content"`
	Position   int                  `json:"position"`
	WordCount  int                  `json:"word_count"`
	Characters []*CharacterResponse `json:"characters,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// ChapterListResponse 章节列表响应，按 position 升序
type ChapterListResponse struct {
	Items []*ChapterResponse `json:"items"`
}

// ToChapterResponse 实体转换为响应
func ToChapterResponse(ch *entity.Chapter) *ChapterResponse {
	if ch == nil {
		return nil
	}
	resp := &ChapterResponse{
		ID:        ch.ID,
		StoryID:   ch.StoryID,
		Title:     ch.Title,
		Content:   ch.Content,
		Position:  ch.Position,
		WordCount: ch.WordCount(),
		CreatedAt: ch.CreatedAt,
		UpdatedAt: ch.UpdatedAt,
	}
	for _, c := range ch.Characters {
		resp.Characters = append(resp.Characters, ToCharacterResponse(c))
	}
	return resp
}

// ToChapterListResponse 实体列表转换为响应
func ToChapterListResponse(chapters []*entity.Chapter) *ChapterListResponse {
	items := make([]*ChapterResponse, len(chapters))
	for i, ch := range chapters {
		items[i] = ToChapterResponse(ch)
	}
	return &ChapterListResponse{Items: items}
}
