package mockapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/config"
	"github.com/hmhbrian/qldt-go/internal/response"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// NewRouter wires the full mock API route tree.
func NewRouter(cfg *config.Config, store *Store, tokens *TokenService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	validator.Setup()

	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request IDs on every response so client logs correlate.
	router.Use(response.RequestIDMiddleware())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(store, tokens)
	courseHandler := NewCourseHandler(store)
	lessonHandler := NewLessonHandler(store)
	testHandler := NewTestHandler(store)
	userHandler := NewUserHandler(store, tokens)
	departmentHandler := NewDepartmentHandler(store)
	progressHandler := NewProgressHandler(store)
	reportHandler := NewReportHandler(store)

	api := router.Group("/api")

	// ─── Auth (public, rate limited) ───────────────────────────────────
	loginLimiter := NewRateLimiter(30, time.Minute)
	api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

	authed := api.Group("")
	authed.Use(RequireAuth(tokens))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)

		// ─── Courses and enrollment ────────────────────────────────
		authed.GET("/Courses", courseHandler.List)
		authed.GET("/Courses/enrolled", courseHandler.Enrolled)
		authed.GET("/Courses/:id", courseHandler.Get)
		authed.POST("/Courses/:id/enroll", courseHandler.Enroll)
		authed.GET("/Courses/:id/lessons", lessonHandler.ListByCourse)
		authed.GET("/Lessons/:id", lessonHandler.Get)

		// ─── Tests and attempts ────────────────────────────────────
		authed.GET("/tests/:courseId", testHandler.ListByCourse)
		authed.GET("/tests/:courseId/:testId", testHandler.Get)
		authed.POST("/tests/submit", testHandler.Submit)

		// ─── Lesson progress ───────────────────────────────────────
		authed.GET("/LessonProgress", progressHandler.List)
		authed.POST("/LessonProgress", progressHandler.Upsert)

		// ─── Departments (read) ────────────────────────────────────
		authed.GET("/Departments", departmentHandler.List)
	}

	admin := api.Group("")
	admin.Use(RequireAuth(tokens), RequireAdmin())
	{
		admin.POST("/Courses", courseHandler.Create)
		admin.PUT("/Courses/:id", courseHandler.Update)
		admin.DELETE("/Courses/:id", courseHandler.Delete)
		admin.POST("/Courses/:id/lessons", lessonHandler.Create)
		admin.PUT("/Lessons/:id", lessonHandler.Update)
		admin.DELETE("/Lessons/:id", lessonHandler.Delete)

		admin.POST("/tests/:courseId", testHandler.Create)
		admin.PUT("/tests/:courseId/:testId", testHandler.Update)
		admin.DELETE("/tests/:courseId/:testId", testHandler.Delete)

		admin.GET("/Users", userHandler.List)
		admin.GET("/Users/search", userHandler.Search)
		admin.POST("/Users", userHandler.Create)
		admin.PUT("/Users/:id", userHandler.Update)
		admin.POST("/Users/:id/reset-password", userHandler.ResetPassword)
		admin.POST("/Users/:id/soft-delete", userHandler.SoftDelete)

		admin.POST("/Departments", departmentHandler.Create)
		admin.PUT("/Departments/:id", departmentHandler.Update)
		admin.DELETE("/Departments/:id", departmentHandler.Delete)

		admin.GET("/Reports/courses", reportHandler.Courses)
		admin.GET("/Reports/departments", reportHandler.Departments)
		admin.GET("/Reports/feedback", reportHandler.Feedback)
	}

	return router
}
