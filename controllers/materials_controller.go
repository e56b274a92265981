package controllers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/models"
	"courseplatform/utils"
)

type MaterialsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	// Root of locally served material files; download paths are
	// confined under it.
	MaterialsDir string
}

func NewMaterialsController(db *gorm.DB, cfg *config.Config) *MaterialsController {
	dir, _ := filepath.Abs(filepath.Join("public", "materials"))
	return &MaterialsController{DB: db, Cfg: cfg, MaterialsDir: dir}
}

const materialsTable = "chapter_materials"

func isValidMaterialType(t string) bool {
	switch t {
	case models.MaterialTypePDF, models.MaterialTypeSlides, models.MaterialTypeLink,
		models.MaterialTypeCode, models.MaterialTypeImage, models.MaterialTypeFile:
		return true
	}
	return false
}

// ListChapterMaterials returns a chapter's materials in position order.
// Read access requires enrollment in the owning course.
func (mc *MaterialsController) ListChapterMaterials(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	courseID, reply, ok := requireEnrolledChapter(c, mc.DB, userID, chapterID)
	if !ok {
		return reply
	}

	var materials []models.ChapterMaterial
	err := mc.DB.Where("chapter_id = ?", chapterID).
		Order("position ASC, id ASC").
		Find(&materials).Error
	if err != nil {
		return utils.Internal(c)
	}
	for i := range materials {
		materials[i].URL = absoluteURL(mc.Cfg.BaseURL, materials[i].URL)
	}

	return c.JSON(fiber.Map{"chapterId": chapterID, "courseId": courseID, "materials": materials})
}

// CourseMaterials groups every chapter's materials under its chapter.
func (mc *MaterialsController) CourseMaterials(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	courseID, ok := paramUint(c, "courseId")
	if !ok {
		return utils.BadRequest(c, "invalid_course_id")
	}

	enrolled, err := isEnrolled(mc.DB, userID, courseID)
	if err != nil {
		return utils.Internal(c)
	}
	if !enrolled {
		return utils.Forbidden(c, "forbidden_not_enrolled")
	}

	var chapters []models.CourseChapter
	err = mc.DB.Select("id", "title", "position").
		Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&chapters).Error
	if err != nil {
		return utils.Internal(c)
	}
	if len(chapters) == 0 {
		return c.JSON(fiber.Map{"courseId": courseID, "chapters": []fiber.Map{}})
	}

	chapterIDs := make([]uint, len(chapters))
	for i, ch := range chapters {
		chapterIDs[i] = ch.ID
	}

	var materials []models.ChapterMaterial
	err = mc.DB.Where("chapter_id IN ?", chapterIDs).
		Order("chapter_id ASC, position ASC, id ASC").
		Find(&materials).Error
	if err != nil {
		return utils.Internal(c)
	}

	grouped := make(map[uint][]models.ChapterMaterial, len(chapters))
	for _, m := range materials {
		m.URL = absoluteURL(mc.Cfg.BaseURL, m.URL)
		grouped[m.ChapterID] = append(grouped[m.ChapterID], m)
	}

	out := make([]fiber.Map, len(chapters))
	for i, ch := range chapters {
		ms := grouped[ch.ID]
		if ms == nil {
			ms = []models.ChapterMaterial{}
		}
		out[i] = fiber.Map{
			"id":        ch.ID,
			"title":     ch.Title,
			"position":  ch.Position,
			"materials": ms,
		}
	}

	return c.JSON(fiber.Map{"courseId": courseID, "chapters": out})
}

// DownloadMaterial redirects link-type and absolute URLs, and streams
// locally hosted files after confining the path to the materials root.
func (mc *MaterialsController) DownloadMaterial(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	materialID, ok := paramUint(c, "materialId")
	if !ok {
		return utils.BadRequest(c, "invalid_material_id")
	}

	var material models.ChapterMaterial
	if err := mc.DB.First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "material_not_found")
		}
		return utils.Internal(c)
	}

	_, reply, ok := requireEnrolledChapter(c, mc.DB, userID, material.ChapterID)
	if !ok {
		return reply
	}

	if material.Type == models.MaterialTypeLink || absoluteURLPattern.MatchString(material.URL) {
		return c.Redirect(absoluteURL(mc.Cfg.BaseURL, material.URL))
	}

	if !strings.HasPrefix(material.URL, "/materials/") {
		return utils.BadRequest(c, "invalid_material_url")
	}

	rel := strings.TrimPrefix(material.URL, "/materials/")
	absPath := filepath.Join(mc.MaterialsDir, filepath.Clean("/"+rel))
	if !strings.HasPrefix(absPath, mc.MaterialsDir+string(filepath.Separator)) {
		return utils.BadRequest(c, "invalid_path")
	}
	if _, err := os.Stat(absPath); err != nil {
		return utils.NotFound(c, "file_not_found")
	}

	return c.Download(absPath, filepath.Base(absPath))
}

type materialInput struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

func (mc *MaterialsController) CreateMaterial(c *fiber.Ctx) error {
	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var input materialInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if input.Title == "" || input.URL == "" {
		return utils.BadRequest(c, "title_and_url_required")
	}
	if input.Type == "" {
		input.Type = models.MaterialTypePDF
	}
	if !isValidMaterialType(input.Type) {
		return utils.BadRequest(c, "invalid_type")
	}

	if _, err := courseIDByChapter(mc.DB, chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "chapter_not_found")
		}
		return utils.Internal(c)
	}

	material := models.ChapterMaterial{
		ChapterID: chapterID,
		Title:     strings.TrimSpace(input.Title),
		Type:      input.Type,
		URL:       input.URL,
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx, materialsTable, "chapter_id", chapterID)
		if err != nil {
			return err
		}
		material.Position = pos
		return tx.Create(&material).Error
	})
	if err != nil {
		return utils.Internal(c)
	}

	material.URL = absoluteURL(mc.Cfg.BaseURL, material.URL)
	return c.Status(fiber.StatusCreated).JSON(material)
}

func (mc *MaterialsController) DeleteMaterial(c *fiber.Ctx) error {
	materialID, ok := paramUint(c, "materialId")
	if !ok {
		return utils.BadRequest(c, "invalid_material_id")
	}

	var material models.ChapterMaterial
	if err := mc.DB.First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "material_not_found")
		}
		return utils.Internal(c)
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChapterMaterial{}, materialID).Error; err != nil {
			return err
		}
		return closeGapAfterDelete(tx, materialsTable, "chapter_id", material.ChapterID, material.Position)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (mc *MaterialsController) ReorderMaterials(c *fiber.Ctx) error {
	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var input reorderInput
	if err := c.BodyParser(&input); err != nil || len(input.OrderedIDs) == 0 {
		return utils.BadRequest(c, "orderedIds_required")
	}

	if err := validateReorderIDs(mc.DB, materialsTable, "chapter_id", chapterID, input.OrderedIDs); err != nil {
		return utils.BadRequest(c, "material_"+err.Error())
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		return applyReorder(tx, materialsTable, input.OrderedIDs)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (mc *MaterialsController) MoveMaterial(c *fiber.Ctx) error {
	materialID, ok := paramUint(c, "materialId")
	if !ok {
		return utils.BadRequest(c, "invalid_material_id")
	}

	var input positionInput
	if err := c.BodyParser(&input); err != nil || input.Position < 1 {
		return utils.BadRequest(c, "invalid_position")
	}

	var material models.ChapterMaterial
	if err := mc.DB.First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "material_not_found")
		}
		return utils.Internal(c)
	}

	var count int64
	if err := mc.DB.Model(&models.ChapterMaterial{}).Where("chapter_id = ?", material.ChapterID).Count(&count).Error; err != nil {
		return utils.Internal(c)
	}
	newPos := input.Position
	if newPos > int(count) {
		newPos = int(count)
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		return moveToPosition(tx, materialsTable, "chapter_id", material.ChapterID, materialID, material.Position, newPos)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true, "position": newPos})
}
