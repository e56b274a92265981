package models

import "time"

// LessonProgress keeps one row per (user, chapter). watched_sec is a
// high-water-mark: it only ever grows, so late or seek-back reports from
// the player never erase progress.
type LessonProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:uq_user_chapter" json:"user_id"`
	ChapterID   uint      `gorm:"not null;uniqueIndex:uq_user_chapter" json:"chapter_id"`
	WatchedSec  int       `gorm:"not null;default:0" json:"watched_sec"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
