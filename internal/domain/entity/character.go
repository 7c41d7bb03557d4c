// Package entity 定义领域实体
package entity

import (
	"time"
)

// Character 角色实体，归属于单个故事
type Character struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoryID    string    `json:"story_id" gorm:"type:uuid;index;not null"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Appearance string    `json:"appearance" gorm:"type:text"`
	Biography  string    `json:"biography" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Character) TableName() string {
	return "characters"
}

// NewCharacter 创建新角色
func NewCharacter(storyID, name, appearance, biography string) *Character {
	now := time.Now()
	return &Character{
		StoryID:    storyID,
		Name:       name,
		Appearance: appearance,
		Biography:  biography,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
