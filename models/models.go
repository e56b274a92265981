package models

// All lists every model for AutoMigrate, leaves first so foreign keys
// resolve in order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&CourseChapter{},
		&Enrollment{},
		&Rating{},
		&LessonProgress{},
		&ChapterMaterial{},
		&ChapterQuestion{},
		&ChapterDiscussion{},
		&DiscussionPost{},
		&ChapterComment{},
		&UserCourseAction{},
	}
}
