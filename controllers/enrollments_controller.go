package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/models"
	"courseplatform/utils"
)

type EnrollmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentsController(db *gorm.DB, cfg *config.Config) *EnrollmentsController {
	return &EnrollmentsController{DB: db, Cfg: cfg}
}

type enrollInput struct {
	CourseID uint `json:"courseId" validate:"required"`
}

type legacyProgressInput struct {
	CourseID uint `json:"courseId" validate:"required"`
	Progress int  `json:"progress" validate:"gte=0,lte=100"`
}

type rateInput struct {
	CourseID uint   `json:"courseId" validate:"required"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string `json:"comment"`
}

// Enroll creates the (user, course) join record. Re-enrolling is treated
// as success; the unique pair index keeps it a single row.
func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input enrollInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "course_id_required")
	}

	var course models.Course
	if err := ec.DB.Select("id").First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "course_not_found")
		}
		return utils.Internal(c)
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: input.CourseID}
	err := ec.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment).Error
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"enrolled": true, "courseId": input.CourseID})
}

// UpdateProgress writes the legacy integer progress column. The computed
// watch-time percentage (video controller) is the source of truth; this
// endpoint survives for older clients.
func (ec *EnrollmentsController) UpdateProgress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input legacyProgressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "invalid_progress")
	}

	result := ec.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, input.CourseID).
		Update("progress", input.Progress)
	if result.Error != nil {
		return utils.Internal(c)
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "enrollment_not_found")
	}

	return c.JSON(fiber.Map{"success": true})
}

func (ec *EnrollmentsController) RateCourse(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input rateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ErrDetails(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	rating := models.Rating{
		UserID:   userID,
		CourseID: input.CourseID,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}
	if err := ec.DB.Create(&rating).Error; err != nil {
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(rating)
}
