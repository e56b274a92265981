package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/models"
	"courseplatform/utils"
)

type CommentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCommentsController(db *gorm.DB, cfg *config.Config) *CommentsController {
	return &CommentsController{DB: db, Cfg: cfg}
}

// ListComments pages a chapter's flat comment list in reading order.
func (cmc *CommentsController) ListComments(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	if _, reply, ok := requireEnrolledChapter(c, cmc.DB, userID, chapterID); !ok {
		return reply
	}

	page, size, offset := paging(c, 20, 100)

	var total int64
	err := cmc.DB.Model(&models.ChapterComment{}).
		Where("chapter_id = ?", chapterID).
		Count(&total).Error
	if err != nil {
		return utils.Internal(c)
	}

	var comments []models.ChapterComment
	err = cmc.DB.Where("chapter_id = ?", chapterID).
		Order("created_at ASC, id ASC").
		Limit(size).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"chapterId": chapterID,
		"page":      page,
		"size":      size,
		"total":     total,
		"comments":  comments,
	})
}

type commentInput struct {
	Body string `json:"body"`
}

func (cmc *CommentsController) CreateComment(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var input commentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	input.Body = strings.TrimSpace(input.Body)
	if input.Body == "" {
		return utils.BadRequest(c, "body_required")
	}

	if _, reply, ok := requireEnrolledChapter(c, cmc.DB, userID, chapterID); !ok {
		return reply
	}

	comment := models.ChapterComment{
		ChapterID: chapterID,
		UserID:    userID,
		Body:      input.Body,
	}
	if err := cmc.DB.Create(&comment).Error; err != nil {
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (cmc *CommentsController) UpdateComment(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	commentID, ok := paramUint(c, "commentId")
	if !ok {
		return utils.BadRequest(c, "invalid_comment_id")
	}

	var input commentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	input.Body = strings.TrimSpace(input.Body)
	if input.Body == "" {
		return utils.BadRequest(c, "body_required")
	}

	var comment models.ChapterComment
	if err := cmc.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "comment_not_found")
		}
		return utils.Internal(c)
	}
	if comment.UserID != userID {
		return utils.Forbidden(c, "forbidden")
	}

	if err := cmc.DB.Model(&comment).Update("body", input.Body).Error; err != nil {
		return utils.Internal(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (cmc *CommentsController) DeleteComment(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	commentID, ok := paramUint(c, "commentId")
	if !ok {
		return utils.BadRequest(c, "invalid_comment_id")
	}

	var comment models.ChapterComment
	if err := cmc.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "comment_not_found")
		}
		return utils.Internal(c)
	}
	if comment.UserID != userID {
		return utils.Forbidden(c, "forbidden")
	}

	if err := cmc.DB.Delete(&models.ChapterComment{}, commentID).Error; err != nil {
		return utils.Internal(c)
	}
	return c.JSON(fiber.Map{"success": true})
}
