package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/models"
	"courseplatform/utils"
)

type ChaptersController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewChaptersController(db *gorm.DB, cfg *config.Config) *ChaptersController {
	return &ChaptersController{DB: db, Cfg: cfg}
}

const chaptersTable = "course_chapters"

func (chc *ChaptersController) ListChapters(c *fiber.Ctx) error {
	courseID, ok := paramUint(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid_course_id")
	}

	var course models.Course
	if err := chc.DB.Select("id").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "course_not_found")
		}
		return utils.Internal(c)
	}

	var chapters []models.CourseChapter
	err := chc.DB.Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&chapters).Error
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"courseId": courseID, "chapters": chapters})
}

type chapterInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	DurationSec *int   `json:"duration_sec"`
}

func (chc *ChaptersController) CreateChapter(c *fiber.Ctx) error {
	courseID, ok := paramUint(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid_course_id")
	}

	var input chapterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if input.Title == "" || input.VideoURL == "" {
		return utils.BadRequest(c, "title_and_video_url_required")
	}

	var course models.Course
	if err := chc.DB.Select("id").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "course_not_found")
		}
		return utils.Internal(c)
	}

	duration := 0
	if input.DurationSec != nil && *input.DurationSec > 0 {
		duration = *input.DurationSec
	}

	chapter := models.CourseChapter{
		CourseID:    courseID,
		Title:       input.Title,
		Description: input.Description,
		VideoURL:    input.VideoURL,
		DurationSec: duration,
	}

	err := chc.DB.Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx, chaptersTable, "course_id", courseID)
		if err != nil {
			return err
		}
		chapter.Position = pos
		return tx.Create(&chapter).Error
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(chapter)
}

func (chc *ChaptersController) UpdateChapter(c *fiber.Ctx) error {
	chapterID, ok := paramUint(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var chapter models.CourseChapter
	if err := chc.DB.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "chapter_not_found")
		}
		return utils.Internal(c)
	}

	var input chapterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.VideoURL != "" {
		updates["video_url"] = input.VideoURL
	}
	if input.DurationSec != nil && *input.DurationSec >= 0 {
		updates["duration_sec"] = *input.DurationSec
	}
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"success": true})
	}

	if err := chc.DB.Model(&chapter).Updates(updates).Error; err != nil {
		return utils.Internal(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (chc *ChaptersController) DeleteChapter(c *fiber.Ctx) error {
	chapterID, ok := paramUint(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var chapter models.CourseChapter
	if err := chc.DB.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "chapter_not_found")
		}
		return utils.Internal(c)
	}

	err := chc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CourseChapter{}, chapterID).Error; err != nil {
			return err
		}
		return closeGapAfterDelete(tx, chaptersTable, "course_id", chapter.CourseID, chapter.Position)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true})
}

type reorderInput struct {
	OrderedIDs []uint `json:"orderedIds"`
}

func (chc *ChaptersController) ReorderChapters(c *fiber.Ctx) error {
	courseID, ok := paramUint(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid_course_id")
	}

	var input reorderInput
	if err := c.BodyParser(&input); err != nil || len(input.OrderedIDs) == 0 {
		return utils.BadRequest(c, "orderedIds_required")
	}

	if err := validateReorderIDs(chc.DB, chaptersTable, "course_id", courseID, input.OrderedIDs); err != nil {
		return utils.BadRequest(c, "chapter_"+err.Error())
	}

	err := chc.DB.Transaction(func(tx *gorm.DB) error {
		return applyReorder(tx, chaptersTable, input.OrderedIDs)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true})
}

type positionInput struct {
	Position int `json:"position"`
}

func (chc *ChaptersController) MoveChapter(c *fiber.Ctx) error {
	chapterID, ok := paramUint(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var input positionInput
	if err := c.BodyParser(&input); err != nil || input.Position < 1 {
		return utils.BadRequest(c, "invalid_position")
	}

	var chapter models.CourseChapter
	if err := chc.DB.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "chapter_not_found")
		}
		return utils.Internal(c)
	}

	var count int64
	if err := chc.DB.Model(&models.CourseChapter{}).Where("course_id = ?", chapter.CourseID).Count(&count).Error; err != nil {
		return utils.Internal(c)
	}
	newPos := input.Position
	if newPos > int(count) {
		newPos = int(count)
	}

	err := chc.DB.Transaction(func(tx *gorm.DB) error {
		return moveToPosition(tx, chaptersTable, "course_id", chapter.CourseID, chapterID, chapter.Position, newPos)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true, "position": newPos})
}
