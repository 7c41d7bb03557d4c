// Package entity 定义领域实体
package entity

import (
	"time"
)

// Chapter 章节实体
// (story_id, position) 唯一索引是并发起草时的仲裁者：
// 同一位置的第二次插入必须失败，而不是静默覆盖。
type Chapter struct {
	ID         string       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoryID    string       `json:"story_id" gorm:"type:uuid;not null;uniqueIndex:uq_chapters_story_position"`
	Title      string       `json:"title" gorm:"type:varchar(255);not null"`
	Content    string       `json:"content" gorm:"type:text"`
	Position   int          `json:"position" gorm:"not null;uniqueIndex:uq_chapters_story_position"`
	Characters []*Character `json:"characters,omitempty" gorm:"many2many:chapter_characters"`
	CreatedAt  time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}

// NewChapter 创建新章节
func NewChapter(storyID, title, content string, position int) *Chapter {
	now := time.Now()
	return &Chapter{
		StoryID:   storyID,
		Title:     title,
		Content:   content,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WordCount 返回内容字数（按 rune 计）
func (c *Chapter) WordCount() int {
	return len([]rune(c.Content))
}
