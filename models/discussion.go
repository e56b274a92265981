package models

import "time"

// ChapterDiscussion carries denormalized posts_count / last_reply_at.
// Both are recomputed from discussion_posts inside the same transaction
// as any post mutation, so they cannot drift.
type ChapterDiscussion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChapterID   uint      `gorm:"not null;index" json:"chapter_id"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Body        string    `gorm:"type:text" json:"body"`
	Pinned      bool      `gorm:"not null;default:false" json:"pinned"`
	PostsCount  int       `gorm:"not null;default:0" json:"posts_count"`
	LastReplyAt time.Time `json:"last_reply_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ChapterDiscussion) TableName() string { return "chapter_discussions" }

// DiscussionPost nests one level deep: a post either starts from the
// thread (parent_id null) or replies to a top-level post.
type DiscussionPost struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"not null;index" json:"discussion_id"`
	UserID       uint      `gorm:"not null" json:"user_id"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	ParentID     *uint     `json:"parent_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DiscussionPost) TableName() string { return "discussion_posts" }
