package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/models"
	"courseplatform/utils"
)

// RecommendController relays scoring requests to the external Python
// recommender over stdio. No recommendation logic lives here: the
// contract is JSON in on stdin, JSON out on stdout, exit code 0, within
// the configured deadline.
type RecommendController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewRecommendController(db *gorm.DB, cfg *config.Config) *RecommendController {
	return &RecommendController{DB: db, Cfg: cfg}
}

type recommendInput struct {
	Username string `json:"username"`
	Query    string `json:"query"`
	TopK     int    `json:"topk"`
	Mode     string `json:"mode"`
}

// recentInterestQuery builds a natural-language prompt from the user's
// latest actions: the 3 most recent distinct course titles among the
// last 10 log rows. Empty for users with no history.
func (rc *RecommendController) recentInterestQuery(username string) (string, error) {
	var user models.User
	if err := rc.DB.Where("name = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	var titles []string
	err := rc.DB.Model(&models.UserCourseAction{}).
		Select("courses.title").
		Joins("JOIN courses ON user_course_actions.course_id = courses.id").
		Where("user_course_actions.user_id = ?", user.ID).
		Order("user_course_actions.timestamp DESC").
		Limit(10).
		Pluck("courses.title", &titles).Error
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool, 3)
	distinct := make([]string, 0, 3)
	for _, t := range titles {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		distinct = append(distinct, t)
		if len(distinct) == 3 {
			break
		}
	}
	if len(distinct) == 0 {
		return "", nil
	}

	return fmt.Sprintf("The user has recently been interested in: %s.", strings.Join(distinct, ", ")), nil
}

// Recommend godoc
// @Summary Relay a recommendation request to the external scorer
// @Tags recommend
// @Accept json
// @Produce json
// @Router /recommend [post]
func (rc *RecommendController) Recommend(c *fiber.Ctx) error {
	var input recommendInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if strings.TrimSpace(input.Username) == "" {
		return utils.BadRequest(c, "username_required")
	}
	if input.TopK <= 0 {
		input.TopK = 10
	}

	if strings.TrimSpace(input.Query) == "" {
		derived, err := rc.recentInterestQuery(input.Username)
		if err != nil {
			return utils.Internal(c)
		}
		input.Query = derived
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return utils.Internal(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(rc.Cfg.RecommendTimeoutSec)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, rc.Cfg.PythonBin, rc.Cfg.RecommendScript)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return utils.Err(c, fiber.StatusInternalServerError, "recommender_timeout")
		}
		return utils.ErrDetails(c, fiber.StatusInternalServerError, "recommender_failed", stderr.String())
	}

	var result interface{}
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return utils.ErrDetails(c, fiber.StatusInternalServerError, "recommender_bad_output", stdout.String())
	}

	return c.JSON(result)
}
