package controllers

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/models"
	"courseplatform/utils"
)

var validate = validator.New()

var absoluteURLPattern = regexp.MustCompile(`(?i)^(https?://|data:)`)

// absoluteURL resolves a stored relative asset path against the public
// base URL; already-absolute URLs and data URIs pass through.
func absoluteURL(baseURL, p string) string {
	if p == "" || absoluteURLPattern.MatchString(p) {
		return p
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(p, "/")
}

func isEnrolled(db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// courseIDByChapter returns gorm.ErrRecordNotFound for unknown chapters.
func courseIDByChapter(db *gorm.DB, chapterID uint) (uint, error) {
	var chapter models.CourseChapter
	if err := db.Select("id", "course_id").First(&chapter, chapterID).Error; err != nil {
		return 0, err
	}
	return chapter.CourseID, nil
}

// requireEnrolledChapter is the guard shared by every chapter-scoped read:
// the chapter must exist and the caller must be enrolled in its course.
// A non-nil reply means the response has been written.
func requireEnrolledChapter(c *fiber.Ctx, db *gorm.DB, userID, chapterID uint) (courseID uint, reply error, ok bool) {
	courseID, err := courseIDByChapter(db, chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.NotFound(c, "chapter_not_found"), false
		}
		return 0, utils.Internal(c), false
	}

	enrolled, err := isEnrolled(db, userID, courseID)
	if err != nil {
		return 0, utils.Internal(c), false
	}
	if !enrolled {
		return 0, utils.Forbidden(c, "forbidden_not_enrolled"), false
	}
	return courseID, nil, true
}

func paramUint(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.Atoi(c.Params(name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

// paging reads ?page= and ?size= with a per-route size cap.
func paging(c *fiber.Ctx, defaultSize, maxSize int) (page, size, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.Query("size", strconv.Itoa(defaultSize)))
	if size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return page, size, (page - 1) * size
}
