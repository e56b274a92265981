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

type TrackController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTrackController(db *gorm.DB, cfg *config.Config) *TrackController {
	return &TrackController{DB: db, Cfg: cfg}
}

type trackInput struct {
	CourseID   uint   `json:"courseId" validate:"required"`
	ActionType string `json:"actionType" validate:"required"`
}

// Track appends one behavioral event. The log is write-only from the
// app's point of view; the external recommender consumes it.
func (tc *TrackController) Track(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input trackInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "courseId_and_actionType_required")
	}
	if !models.IsValidActionType(input.ActionType) {
		return utils.BadRequest(c, "invalid_action_type")
	}

	var course models.Course
	if err := tc.DB.Select("id").First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "course_not_found")
		}
		return utils.Internal(c)
	}

	action := models.UserCourseAction{
		UserID:     userID,
		CourseID:   input.CourseID,
		ActionType: input.ActionType,
	}
	if err := tc.DB.Create(&action).Error; err != nil {
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}
