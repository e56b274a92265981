package models

import "time"

const (
	MaterialTypePDF    = "pdf"
	MaterialTypeSlides = "slides"
	MaterialTypeLink   = "link"
	MaterialTypeCode   = "code"
	MaterialTypeImage  = "image"
	MaterialTypeFile   = "file"
)

type ChapterMaterial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChapterID uint      `gorm:"not null;index" json:"chapter_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Type      string    `gorm:"size:20;not null;default:pdf" json:"type"`
	URL       string    `gorm:"size:1000;not null" json:"url"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChapterMaterial) TableName() string { return "chapter_materials" }
