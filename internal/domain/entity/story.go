// Package entity 定义领域实体
package entity

import (
	"time"
)

// Story 故事实体，是章节与角色的属主容器
type Story struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthorID  string    `json:"author_id" gorm:"type:uuid;index;not null"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Genre     string    `json:"genre" gorm:"type:varchar(64);not null"`
	Summary   string    `json:"summary,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Story) TableName() string {
	return "stories"
}

// NewStory 创建新故事
func NewStory(authorID, title, genre string) *Story {
	now := time.Now()
	return &Story{
		AuthorID:  authorID,
		Title:     title,
		Genre:     genre,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
