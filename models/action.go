package models

import "time"

// UserCourseAction is an append-only telemetry stream. Nothing in this
// service reads it back except the recommendation relay, which derives a
// "recent interest" prompt from the latest rows.
type UserCourseAction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:user_course_index" json:"user_id"`
	CourseID   uint      `gorm:"not null;index:user_course_index" json:"course_id"`
	ActionType string    `gorm:"size:50;not null" json:"action_type"`
	Timestamp  time.Time `gorm:"not null;autoCreateTime" json:"timestamp"`
}

func (UserCourseAction) TableName() string { return "user_course_actions" }

// ActionTypes is the closed action_type vocabulary the recommender is
// trained on; unknown values are rejected at the API boundary.
var ActionTypes = []string{
	"action_click_about",
	"action_click_courseware",
	"action_click_forum",
	"action_click_info",
	"action_click_progress",
	"action_close_courseware",
	"action_close_forum",
	"action_create_comment",
	"action_create_thread",
	"action_delete_comment",
	"action_delete_thread",
	"action_load_video",
	"action_pause_video",
	"action_play_video",
	"action_problem_check",
	"action_problem_check_correct",
	"action_problem_check_incorrect",
	"action_problem_get",
	"action_problem_save",
	"action_reset_problem",
	"action_seek_video",
	"action_stop_video",
	"unique_session_count",
	"avg_nActions_per_session",
}

func IsValidActionType(t string) bool {
	for _, a := range ActionTypes {
		if a == t {
			return true
		}
	}
	return false
}
