package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	QuestionTypeSingle      = "single"
	QuestionTypeMultiple    = "multiple"
	QuestionTypeTrueFalse   = "true_false"
	QuestionTypeShortAnswer = "short_answer"
)

func IsValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeSingle, QuestionTypeMultiple, QuestionTypeTrueFalse, QuestionTypeShortAnswer:
		return true
	}
	return false
}

// ChapterQuestion stores options and the authoritative answer as JSON:
// single -> "A", multiple -> ["A","C"], true_false -> true/false,
// short_answer -> string or list of acceptable strings.
type ChapterQuestion struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ChapterID   uint           `gorm:"not null;index" json:"chapter_id"`
	Type        string         `gorm:"size:20;not null;default:single" json:"type"`
	Question    string         `gorm:"type:text;not null" json:"question"`
	Options     datatypes.JSON `json:"options"`
	Answer      datatypes.JSON `json:"answer"`
	Explanation string         `gorm:"type:text" json:"explanation"`
	Score       int            `gorm:"not null;default:1" json:"score"`
	Position    int            `gorm:"not null" json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (ChapterQuestion) TableName() string { return "chapter_questions" }
