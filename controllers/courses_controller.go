package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/models"
	"courseplatform/utils"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

func (cc *CoursesController) resolvePaths(course *models.Course) {
	course.ImagePath = absoluteURL(cc.Cfg.BaseURL, course.ImagePath)
	course.VideoPath = absoluteURL(cc.Cfg.BaseURL, course.VideoPath)
}

func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := cc.DB.Find(&courses).Error; err != nil {
		return utils.Internal(c)
	}
	for i := range courses {
		cc.resolvePaths(&courses[i])
	}
	return c.JSON(courses)
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, ok := paramUint(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid_course_id")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "course_not_found")
		}
		return utils.Internal(c)
	}
	cc.resolvePaths(&course)
	return c.JSON(course)
}

// SearchCourses matches title, description and category.
func (cc *CoursesController) SearchCourses(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return utils.BadRequest(c, "query_required")
	}

	keyword := "%" + query + "%"
	var courses []models.Course
	err := cc.DB.
		Where("title LIKE ? OR description LIKE ? OR category LIKE ?", keyword, keyword, keyword).
		Limit(20).
		Find(&courses).Error
	if err != nil {
		return utils.Internal(c)
	}
	for i := range courses {
		cc.resolvePaths(&courses[i])
	}
	return c.JSON(courses)
}

// CoursesByCategory filters by one or more comma-separated categories.
func (cc *CoursesController) CoursesByCategory(c *fiber.Ctx) error {
	categoryParam := strings.TrimSpace(c.Query("category"))
	if categoryParam == "" {
		return utils.BadRequest(c, "category_required")
	}

	parts := strings.Split(categoryParam, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			categories = append(categories, p)
		}
	}
	if len(categories) == 0 {
		return utils.BadRequest(c, "category_required")
	}

	var courses []models.Course
	if err := cc.DB.Where("category IN ?", categories).Find(&courses).Error; err != nil {
		return utils.Internal(c)
	}
	for i := range courses {
		cc.resolvePaths(&courses[i])
	}
	return c.JSON(courses)
}

// CourseRatings summarizes the ratings table for one course: average,
// count and the most recent entries.
func (cc *CoursesController) CourseRatings(c *fiber.Ctx) error {
	courseID, ok := paramUint(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid_course_id")
	}

	var course models.Course
	if err := cc.DB.Select("id").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "course_not_found")
		}
		return utils.Internal(c)
	}

	var summary struct {
		Average float64
		Count   int64
	}
	err := cc.DB.Model(&models.Rating{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(1) AS count").
		Scan(&summary).Error
	if err != nil {
		return utils.Internal(c)
	}

	var recent []models.Rating
	err = cc.DB.Where("course_id = ?", courseID).
		Order("created_at DESC, id DESC").
		Limit(20).
		Find(&recent).Error
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"courseId": courseID,
		"average":  summary.Average,
		"count":    summary.Count,
		"ratings":  recent,
	})
}
