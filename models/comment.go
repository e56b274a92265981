package models

import "time"

type ChapterComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChapterID uint      `gorm:"not null;index" json:"chapter_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChapterComment) TableName() string { return "chapter_comments" }
