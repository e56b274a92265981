package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course is the legacy catalog table: no timestamps, paths stored relative
// to the public asset root and resolved to absolute URLs at response time.
type Course struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:255" json:"category"`
	Tags        datatypes.JSON `json:"tags"`
	VideoPath   string         `gorm:"size:255" json:"video_path"`
	ImagePath   string         `json:"image_path"`
}

func (Course) TableName() string { return "courses" }

// CourseChapter positions form a dense 1..N order within a course.
type CourseChapter struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index:idx_course" json:"course_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Position    int       `gorm:"not null" json:"position"`
	VideoURL    string    `gorm:"size:1000;not null" json:"video_url"`
	DurationSec int       `gorm:"default:0" json:"duration_sec"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CourseChapter) TableName() string { return "course_chapters" }
