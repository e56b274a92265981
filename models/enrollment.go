package models

import "time"

type Enrollment struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:uq_user_course" json:"user_id"`
	CourseID uint `gorm:"not null;uniqueIndex:uq_user_course" json:"course_id"`
	// Legacy integer progress; superseded by the computed watch-time
	// percentage but still written by POST /api/enroll/progress.
	Progress  int       `gorm:"default:0" json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollments" }

type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string { return "ratings" }
