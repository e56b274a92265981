package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/models"
	"courseplatform/utils"
)

type DiscussionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDiscussionsController(db *gorm.DB, cfg *config.Config) *DiscussionsController {
	return &DiscussionsController{DB: db, Cfg: cfg}
}

// refreshThreadStats recomputes posts_count and last_reply_at from the
// posts table. Called inside the same transaction as every post
// mutation; recomputing on both create and delete keeps the counters
// from drifting. An empty thread falls back to its own created_at.
func refreshThreadStats(tx *gorm.DB, discussionID uint) error {
	var thread models.ChapterDiscussion
	if err := tx.First(&thread, discussionID).Error; err != nil {
		return err
	}

	var stats struct {
		Cnt    int64
		LastAt *time.Time
	}
	err := tx.Model(&models.DiscussionPost{}).
		Where("discussion_id = ?", discussionID).
		Select("COUNT(1) AS cnt, MAX(created_at) AS last_at").
		Scan(&stats).Error
	if err != nil {
		return err
	}

	lastReply := thread.CreatedAt
	if stats.LastAt != nil {
		lastReply = *stats.LastAt
	}

	return tx.Model(&models.ChapterDiscussion{}).
		Where("id = ?", discussionID).
		Updates(map[string]interface{}{
			"posts_count":   stats.Cnt,
			"last_reply_at": lastReply,
		}).Error
}

func (dc *DiscussionsController) threadWithCourse(discussionID uint) (*models.ChapterDiscussion, uint, error) {
	var thread models.ChapterDiscussion
	if err := dc.DB.First(&thread, discussionID).Error; err != nil {
		return nil, 0, err
	}
	courseID, err := courseIDByChapter(dc.DB, thread.ChapterID)
	if err != nil {
		return nil, 0, err
	}
	return &thread, courseID, nil
}

// ListThreads pages a chapter's threads, pinned first, most recently
// active next. ?q= matches thread title/body or any post body.
func (dc *DiscussionsController) ListThreads(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	if _, reply, ok := requireEnrolledChapter(c, dc.DB, userID, chapterID); !ok {
		return reply
	}

	page, size, offset := paging(c, 20, 50)

	query := dc.DB.Model(&models.ChapterDiscussion{}).Where("chapter_id = ?", chapterID)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		kw := "%" + q + "%"
		query = query.Where(
			"title LIKE ? OR body LIKE ? OR EXISTS (SELECT 1 FROM discussion_posts px WHERE px.discussion_id = chapter_discussions.id AND px.body LIKE ?)",
			kw, kw, kw,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Internal(c)
	}

	var threads []models.ChapterDiscussion
	err := query.
		Order("pinned DESC, last_reply_at DESC, created_at DESC, id DESC").
		Limit(size).Offset(offset).
		Find(&threads).Error
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"chapterId": chapterID,
		"page":      page,
		"size":      size,
		"total":     total,
		"threads":   threads,
	})
}

type threadInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (dc *DiscussionsController) CreateThread(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var input threadInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return utils.BadRequest(c, "title_required")
	}

	if _, reply, ok := requireEnrolledChapter(c, dc.DB, userID, chapterID); !ok {
		return reply
	}

	thread := models.ChapterDiscussion{
		ChapterID:   chapterID,
		UserID:      userID,
		Title:       input.Title,
		Body:        input.Body,
		LastReplyAt: time.Now(),
	}
	if err := dc.DB.Create(&thread).Error; err != nil {
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(thread)
}

type threadUpdateInput struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Pinned *bool   `json:"pinned"`
}

func (dc *DiscussionsController) UpdateThread(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	discussionID, ok := paramUint(c, "discussionId")
	if !ok {
		return utils.BadRequest(c, "invalid_id")
	}

	thread, _, err := dc.threadWithCourse(discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "not_found")
		}
		return utils.Internal(c)
	}
	if thread.UserID != userID {
		return utils.Forbidden(c, "forbidden")
	}

	var input threadUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Body != nil {
		updates["body"] = *input.Body
	}
	if input.Pinned != nil {
		updates["pinned"] = *input.Pinned
	}
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"success": true})
	}

	if err := dc.DB.Model(thread).Updates(updates).Error; err != nil {
		return utils.Internal(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteThread removes the thread and all of its posts atomically.
func (dc *DiscussionsController) DeleteThread(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	discussionID, ok := paramUint(c, "discussionId")
	if !ok {
		return utils.BadRequest(c, "invalid_id")
	}

	thread, _, err := dc.threadWithCourse(discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "not_found")
		}
		return utils.Internal(c)
	}
	if thread.UserID != userID {
		return utils.Forbidden(c, "forbidden")
	}

	err = dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("discussion_id = ?", discussionID).Delete(&models.DiscussionPost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChapterDiscussion{}, discussionID).Error
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true})
}

type pinInput struct {
	Pinned bool `json:"pinned"`
}

func (dc *DiscussionsController) PinThread(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	discussionID, ok := paramUint(c, "discussionId")
	if !ok {
		return utils.BadRequest(c, "invalid_id")
	}

	var input pinInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}

	thread, _, err := dc.threadWithCourse(discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "not_found")
		}
		return utils.Internal(c)
	}
	if thread.UserID != userID {
		return utils.Forbidden(c, "forbidden")
	}

	if err := dc.DB.Model(thread).Update("pinned", input.Pinned).Error; err != nil {
		return utils.Internal(c)
	}
	return c.JSON(fiber.Map{"success": true, "pinned": input.Pinned})
}

func (dc *DiscussionsController) ListPosts(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	discussionID, ok := paramUint(c, "discussionId")
	if !ok {
		return utils.BadRequest(c, "invalid_discussion_id")
	}

	thread, courseID, err := dc.threadWithCourse(discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "discussion_not_found")
		}
		return utils.Internal(c)
	}
	_ = thread

	enrolled, err := isEnrolled(dc.DB, userID, courseID)
	if err != nil {
		return utils.Internal(c)
	}
	if !enrolled {
		return utils.Forbidden(c, "forbidden_not_enrolled")
	}

	page, size, offset := paging(c, 20, 100)

	var total int64
	err = dc.DB.Model(&models.DiscussionPost{}).
		Where("discussion_id = ?", discussionID).
		Count(&total).Error
	if err != nil {
		return utils.Internal(c)
	}

	var posts []models.DiscussionPost
	err = dc.DB.Where("discussion_id = ?", discussionID).
		Order("created_at ASC, id ASC").
		Limit(size).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"discussionId": discussionID,
		"page":         page,
		"size":         size,
		"total":        total,
		"posts":        posts,
	})
}

type postInput struct {
	Body     string `json:"body"`
	ParentID *uint  `json:"parentId"`
}

func (dc *DiscussionsController) CreatePost(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	discussionID, ok := paramUint(c, "discussionId")
	if !ok {
		return utils.BadRequest(c, "invalid_discussion_id")
	}

	var input postInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	input.Body = strings.TrimSpace(input.Body)
	if input.Body == "" {
		return utils.BadRequest(c, "body_required")
	}

	_, courseID, err := dc.threadWithCourse(discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "discussion_not_found")
		}
		return utils.Internal(c)
	}

	enrolled, err := isEnrolled(dc.DB, userID, courseID)
	if err != nil {
		return utils.Internal(c)
	}
	if !enrolled {
		return utils.Forbidden(c, "forbidden_not_enrolled")
	}

	if input.ParentID != nil {
		var parent models.DiscussionPost
		err := dc.DB.Where("id = ? AND discussion_id = ?", *input.ParentID, discussionID).
			First(&parent).Error
		if err != nil {
			return utils.BadRequest(c, "invalid_parent_id")
		}
	}

	post := models.DiscussionPost{
		DiscussionID: discussionID,
		UserID:       userID,
		Body:         input.Body,
		ParentID:     input.ParentID,
	}

	err = dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return refreshThreadStats(tx, discussionID)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

type postUpdateInput struct {
	Body string `json:"body"`
}

func (dc *DiscussionsController) UpdatePost(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	postID, ok := paramUint(c, "postId")
	if !ok {
		return utils.BadRequest(c, "invalid_post_id")
	}

	var input postUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	input.Body = strings.TrimSpace(input.Body)
	if input.Body == "" {
		return utils.BadRequest(c, "body_required")
	}

	var post models.DiscussionPost
	if err := dc.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "post_not_found")
		}
		return utils.Internal(c)
	}
	if post.UserID != userID {
		return utils.Forbidden(c, "forbidden")
	}

	if err := dc.DB.Model(&post).Update("body", input.Body).Error; err != nil {
		return utils.Internal(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeletePost removes a post and its direct replies, then recomputes the
// thread counters in the same transaction.
func (dc *DiscussionsController) DeletePost(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	postID, ok := paramUint(c, "postId")
	if !ok {
		return utils.BadRequest(c, "invalid_post_id")
	}

	var post models.DiscussionPost
	if err := dc.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "post_not_found")
		}
		return utils.Internal(c)
	}
	if post.UserID != userID {
		return utils.Forbidden(c, "forbidden")
	}

	err := dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", postID).Delete(&models.DiscussionPost{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.DiscussionPost{}, postID).Error; err != nil {
			return err
		}
		return refreshThreadStats(tx, post.DiscussionID)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true})
}
