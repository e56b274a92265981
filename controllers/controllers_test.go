package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/models"
	"courseplatform/utils"
)

type testEnv struct {
	App *fiber.App
	DB  *gorm.DB
	Cfg *config.Config
}

// newTestEnv builds an isolated app over a named in-memory sqlite
// database. The shared cache keeps GORM's pooled connections on the
// same database for the duration of the test.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:           "testsecret",
		JWTTTLHours:         1,
		BaseURL:             "http://localhost:5000",
		PythonBin:           "/bin/sh",
		RecommendScript:     "",
		RecommendTimeoutSec: 5,
		CompleteThreshold:   0.9,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	app := fiber.New()
	setupTestRoutes(app, db, cfg)

	return &testEnv{App: app, DB: db, Cfg: cfg}
}

// setupTestRoutes mirrors routes.SetupRoutes; duplicated here because
// importing the routes package from controllers tests would be a cycle.
func setupTestRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authMiddleware := middleware.AuthMiddleware(cfg)

	authController := NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	coursesController := NewCoursesController(db, cfg)
	chaptersController := NewChaptersController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/search", coursesController.SearchCourses)
	courses.Get("/category", coursesController.CoursesByCategory)
	courses.Get("/:id", coursesController.GetCourse)
	courses.Get("/:id/ratings", coursesController.CourseRatings)
	courses.Get("/:id/chapters", chaptersController.ListChapters)
	courses.Post("/:id/chapters", authMiddleware, chaptersController.CreateChapter)
	courses.Post("/:id/chapters/reorder", authMiddleware, chaptersController.ReorderChapters)

	chapters := app.Group("/api/chapters", authMiddleware)
	chapters.Patch("/:id", chaptersController.UpdateChapter)
	chapters.Delete("/:id", chaptersController.DeleteChapter)
	chapters.Patch("/:id/position", chaptersController.MoveChapter)

	enrollmentsController := NewEnrollmentsController(db, cfg)
	enroll := app.Group("/api/enroll", authMiddleware)
	enroll.Post("/", enrollmentsController.Enroll)
	enroll.Post("/progress", enrollmentsController.UpdateProgress)
	enroll.Post("/rate", enrollmentsController.RateCourse)

	videoController := NewVideoController(db, cfg)
	video := app.Group("/api/video", authMiddleware)
	video.Put("/chapters/:chapterId/watchtime", videoController.ReportWatchTime)
	video.Get("/courses/:courseId/duration", videoController.CourseDuration)
	video.Get("/courses/:courseId/progress", videoController.CourseProgress)

	materialsController := NewMaterialsController(db, cfg)
	materials := app.Group("/api/materials", authMiddleware)
	materials.Get("/chapters/:chapterId", materialsController.ListChapterMaterials)
	materials.Post("/chapters/:chapterId", materialsController.CreateMaterial)
	materials.Post("/chapters/:chapterId/reorder", materialsController.ReorderMaterials)
	materials.Get("/courses/:courseId", materialsController.CourseMaterials)
	materials.Get("/:materialId/download", materialsController.DownloadMaterial)
	materials.Delete("/:materialId", materialsController.DeleteMaterial)
	materials.Patch("/:materialId/position", materialsController.MoveMaterial)

	questionsController := NewQuestionsController(db, cfg)
	questions := app.Group("/api/questions", authMiddleware)
	questions.Get("/chapters/:chapterId", questionsController.ListChapterQuestions)
	questions.Post("/chapters/:chapterId", questionsController.CreateQuestion)
	questions.Post("/chapters/:chapterId/reorder", questionsController.ReorderQuestions)
	questions.Post("/:questionId/check", questionsController.CheckAnswer)
	questions.Patch("/:questionId", questionsController.UpdateQuestion)
	questions.Delete("/:questionId", questionsController.DeleteQuestion)
	questions.Patch("/:questionId/position", questionsController.MoveQuestion)

	discussionsController := NewDiscussionsController(db, cfg)
	discussions := app.Group("/api/discussions", authMiddleware)
	discussions.Get("/chapters/:chapterId", discussionsController.ListThreads)
	discussions.Post("/chapters/:chapterId", discussionsController.CreateThread)
	discussions.Patch("/posts/:postId", discussionsController.UpdatePost)
	discussions.Delete("/posts/:postId", discussionsController.DeletePost)
	discussions.Get("/:discussionId/posts", discussionsController.ListPosts)
	discussions.Post("/:discussionId/posts", discussionsController.CreatePost)
	discussions.Patch("/:discussionId/pin", discussionsController.PinThread)
	discussions.Patch("/:discussionId", discussionsController.UpdateThread)
	discussions.Delete("/:discussionId", discussionsController.DeleteThread)

	commentsController := NewCommentsController(db, cfg)
	comments := app.Group("/api/comments", authMiddleware)
	comments.Get("/chapters/:chapterId", commentsController.ListComments)
	comments.Post("/chapters/:chapterId", commentsController.CreateComment)
	comments.Patch("/:commentId", commentsController.UpdateComment)
	comments.Delete("/:commentId", commentsController.DeleteComment)

	trackController := NewTrackController(db, cfg)
	app.Post("/api/track", authMiddleware, trackController.Track)

	userController := NewUserController(db, cfg)
	user := app.Group("/api/user", authMiddleware)
	user.Get("/profile", userController.GetProfile)
	user.Get("/my-courses", userController.MyCourses)

	recommendController := NewRecommendController(db, cfg)
	app.Post("/api/recommend", recommendController.Recommend)
}

func (e *testEnv) createUser(t *testing.T, name, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: name, Email: email, PasswordHash: string(hash)}
	require.NoError(t, e.DB.Create(&user).Error)
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(user.ID, user.Email, e.Cfg)
	require.NoError(t, err)
	return token
}

func (e *testEnv) seedCourse(t *testing.T, title, category string) models.Course {
	t.Helper()
	course := models.Course{Title: title, Description: title + " description", Category: category}
	require.NoError(t, e.DB.Create(&course).Error)
	return course
}

func (e *testEnv) seedChapter(t *testing.T, courseID uint, title string, position, durationSec int) models.CourseChapter {
	t.Helper()
	chapter := models.CourseChapter{
		CourseID:    courseID,
		Title:       title,
		Position:    position,
		VideoURL:    "/videos/" + title + ".mp4",
		DurationSec: durationSec,
	}
	require.NoError(t, e.DB.Create(&chapter).Error)
	return chapter
}

func (e *testEnv) enroll(t *testing.T, userID, courseID uint) {
	t.Helper()
	require.NoError(t, e.DB.Create(&models.Enrollment{UserID: userID, CourseID: courseID}).Error)
}

// request performs a JSON round trip through the Fiber app.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
