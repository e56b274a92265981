package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/controllers"
	"courseplatform/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Auth
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Catalog. Fixed paths registered before /:id so they win the match.
	coursesController := controllers.NewCoursesController(db, cfg)
	chaptersController := controllers.NewChaptersController(db, cfg)
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

	// Enrollment / ratings
	enrollmentsController := controllers.NewEnrollmentsController(db, cfg)
	enroll := app.Group("/api/enroll", authMiddleware)
	enroll.Post("/", enrollmentsController.Enroll)
	enroll.Post("/progress", enrollmentsController.UpdateProgress)
	enroll.Post("/rate", enrollmentsController.RateCourse)

	// Watch-time
	videoController := controllers.NewVideoController(db, cfg)
	video := app.Group("/api/video", authMiddleware)
	video.Put("/chapters/:chapterId/watchtime", videoController.ReportWatchTime)
	video.Get("/courses/:courseId/duration", videoController.CourseDuration)
	video.Get("/courses/:courseId/progress", videoController.CourseProgress)

	// Materials
	materialsController := controllers.NewMaterialsController(db, cfg)
	materials := app.Group("/api/materials", authMiddleware)
	materials.Get("/chapters/:chapterId", materialsController.ListChapterMaterials)
	materials.Post("/chapters/:chapterId", materialsController.CreateMaterial)
	materials.Post("/chapters/:chapterId/reorder", materialsController.ReorderMaterials)
	materials.Get("/courses/:courseId", materialsController.CourseMaterials)
	materials.Get("/:materialId/download", materialsController.DownloadMaterial)
	materials.Delete("/:materialId", materialsController.DeleteMaterial)
	materials.Patch("/:materialId/position", materialsController.MoveMaterial)

	// Questions
	questionsController := controllers.NewQuestionsController(db, cfg)
	questions := app.Group("/api/questions", authMiddleware)
	questions.Get("/chapters/:chapterId", questionsController.ListChapterQuestions)
	questions.Post("/chapters/:chapterId", questionsController.CreateQuestion)
	questions.Post("/chapters/:chapterId/reorder", questionsController.ReorderQuestions)
	questions.Post("/:questionId/check", questionsController.CheckAnswer)
	questions.Patch("/:questionId", questionsController.UpdateQuestion)
	questions.Delete("/:questionId", questionsController.DeleteQuestion)
	questions.Patch("/:questionId/position", questionsController.MoveQuestion)

	// Discussions
	discussionsController := controllers.NewDiscussionsController(db, cfg)
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

	// Comments
	commentsController := controllers.NewCommentsController(db, cfg)
	comments := app.Group("/api/comments", authMiddleware)
	comments.Get("/chapters/:chapterId", commentsController.ListComments)
	comments.Post("/chapters/:chapterId", commentsController.CreateComment)
	comments.Patch("/:commentId", commentsController.UpdateComment)
	comments.Delete("/:commentId", commentsController.DeleteComment)

	// Behavioral tracking
	trackController := controllers.NewTrackController(db, cfg)
	app.Post("/api/track", authMiddleware, trackController.Track)

	// User
	userController := controllers.NewUserController(db, cfg)
	user := app.Group("/api/user", authMiddleware)
	user.Get("/profile", userController.GetProfile)
	user.Get("/my-courses", userController.MyCourses)

	// Recommendation relay
	recommendController := controllers.NewRecommendController(db, cfg)
	app.Post("/api/recommend", recommendController.Recommend)
}
