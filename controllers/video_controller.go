package controllers

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/models"
	"courseplatform/utils"
)

// VideoController owns watch-time accounting: the per-(user, chapter)
// high-water-mark, the chapter completion flag, and the per-course
// completion percentage derived from it.
type VideoController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewVideoController(db *gorm.DB, cfg *config.Config) *VideoController {
	return &VideoController{DB: db, Cfg: cfg}
}

// completionCutoff is the watched-seconds value at which a chapter counts
// as completed: floor(duration * threshold). A chapter with no configured
// duration never completes.
func completionCutoff(durationSec int, threshold float64) int {
	return int(math.Floor(float64(durationSec) * threshold))
}

func chapterCompleted(durationSec, watchedSec int, threshold float64) bool {
	return durationSec > 0 && watchedSec >= completionCutoff(durationSec, threshold)
}

// progressPercent converts watched/total seconds to an integer percentage,
// rounded to nearest, capped at 100. A course with no chapters (total 0)
// is 0%, not a division error.
func progressPercent(watchedSec, totalSec int) int {
	if totalSec <= 0 {
		return 0
	}
	pct := int(math.Round(float64(watchedSec) * 100 / float64(totalSec)))
	if pct > 100 {
		pct = 100
	}
	return pct
}

type watchTimeInput struct {
	// Pointer so a missing field is distinguishable from 0. Fractional
	// values are accepted on the wire and truncated to whole seconds.
	WatchedSec *float64 `json:"watchedSec"`
}

// ReportWatchTime godoc
// @Summary Report playback position for a chapter
// @Description Merges the report as max(stored, incoming); progress never regresses
// @Tags video
// @Accept json
// @Produce json
// @Router /video/chapters/{chapterId}/watchtime [put]
func (vc *VideoController) ReportWatchTime(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var input watchTimeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if input.WatchedSec == nil || math.IsNaN(*input.WatchedSec) || *input.WatchedSec < 0 {
		return utils.BadRequest(c, "invalid_watched_sec")
	}
	incoming := int(math.Floor(*input.WatchedSec))

	var chapter models.CourseChapter
	if err := vc.DB.Select("id", "duration_sec").First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "chapter_not_found")
		}
		return utils.Internal(c)
	}

	var progress models.LessonProgress
	err := vc.DB.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&progress).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = models.LessonProgress{UserID: userID, ChapterID: chapterID}
	case err != nil:
		return utils.Internal(c)
	}

	// Monotonic merge: a seek-back or out-of-order heartbeat never
	// shrinks the stored value.
	newWatched := progress.WatchedSec
	if incoming > newWatched {
		newWatched = incoming
	}

	progress.WatchedSec = newWatched
	progress.IsCompleted = chapterCompleted(chapter.DurationSec, newWatched, vc.Cfg.CompleteThreshold)

	if progress.ID == 0 {
		err = vc.DB.Create(&progress).Error
	} else {
		err = vc.DB.Save(&progress).Error
	}
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"chapterId":   chapterID,
		"userId":      userID,
		"watchedSec":  progress.WatchedSec,
		"durationSec": chapter.DurationSec,
		"isCompleted": progress.IsCompleted,
	})
}

// CourseDuration sums duration_sec over a course's chapters.
func (vc *VideoController) CourseDuration(c *fiber.Ctx) error {
	courseID, ok := paramUint(c, "courseId")
	if !ok {
		return utils.BadRequest(c, "invalid_course_id")
	}

	var total int
	err := vc.DB.Model(&models.CourseChapter{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(SUM(duration_sec), 0)").
		Scan(&total).Error
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"courseId": courseID, "totalDurationSec": total})
}

// CourseProgress aggregates the caller's watch time across a course. Each
// chapter contributes at most its own duration, so one over-reported
// chapter cannot inflate the whole-course percentage.
func (vc *VideoController) CourseProgress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	courseID, ok := paramUint(c, "courseId")
	if !ok {
		return utils.BadRequest(c, "invalid_course_id")
	}

	var chapters []models.CourseChapter
	err := vc.DB.Select("id", "duration_sec").
		Where("course_id = ?", courseID).
		Find(&chapters).Error
	if err != nil {
		return utils.Internal(c)
	}

	totalDuration := 0
	durByChapter := make(map[uint]int, len(chapters))
	chapterIDs := make([]uint, 0, len(chapters))
	for _, ch := range chapters {
		totalDuration += ch.DurationSec
		durByChapter[ch.ID] = ch.DurationSec
		chapterIDs = append(chapterIDs, ch.ID)
	}

	watchedTotal := 0
	if len(chapterIDs) > 0 {
		var progresses []models.LessonProgress
		err = vc.DB.Select("chapter_id", "watched_sec").
			Where("user_id = ? AND chapter_id IN ?", userID, chapterIDs).
			Find(&progresses).Error
		if err != nil {
			return utils.Internal(c)
		}
		for _, p := range progresses {
			watched := p.WatchedSec
			if dur := durByChapter[p.ChapterID]; watched > dur {
				watched = dur
			}
			watchedTotal += watched
		}
	}

	return c.JSON(fiber.Map{
		"userId":          userID,
		"courseId":        courseID,
		"watchedTotalSec": watchedTotal,
		"totalDurationSec": totalDuration,
		"progressPercent": progressPercent(watchedTotal, totalDuration),
	})
}
