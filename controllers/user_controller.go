package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/models"
	"courseplatform/utils"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "user_not_found")
		}
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// MyCourses returns the caller's action log joined with course info,
// newest first. One row per action; the client collapses duplicates.
func (uc *UserController) MyCourses(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	type myCourseRow struct {
		CourseID    uint   `json:"course_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		ImagePath   string `json:"image_path"`
		VideoPath   string `json:"video_path"`
		ActionType  string `json:"action_type"`
		Timestamp   string `json:"timestamp"`
	}

	var rows []myCourseRow
	err := uc.DB.Model(&models.UserCourseAction{}).
		Select("courses.id AS course_id, courses.title, courses.description, courses.image_path, courses.video_path, user_course_actions.action_type, user_course_actions.timestamp").
		Joins("JOIN courses ON user_course_actions.course_id = courses.id").
		Where("user_course_actions.user_id = ?", userID).
		Order("user_course_actions.timestamp DESC").
		Scan(&rows).Error
	if err != nil {
		return utils.Internal(c)
	}

	for i := range rows {
		rows[i].ImagePath = absoluteURL(uc.Cfg.BaseURL, rows[i].ImagePath)
		rows[i].VideoPath = absoluteURL(uc.Cfg.BaseURL, rows[i].VideoPath)
	}

	return c.JSON(rows)
}
