package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/handler"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/middleware"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/response"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Canvas  *handler.CanvasHandler
	Auth    *handler.AuthHandler
	Project *handler.ProjectHandler
	Log     *handler.LogHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	authLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true // Session cookies need credentialed CORS
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Compress large proxied payloads (syllabi, module lists).
	router.Use(middleware.Compress())

	// Index and health check.
	router.GET("/", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"message": "Welcome to the VoiceEd Ally API!",
			"status":  "running",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/auth")
	if authLimiter != nil {
		auth.Use(authLimiter.Middleware())
	}
	{
		auth.POST("/signup", handlers.Auth.SignUp)
		auth.POST("/signin", handlers.Auth.SignIn)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/verify", handlers.Auth.VerifyOTP)
		auth.POST("/password-reset/request", handlers.Auth.RequestPasswordReset)
		auth.POST("/password-reset/confirm", handlers.Auth.ConfirmPasswordReset)
		auth.POST("/signout", handlers.Auth.SignOut)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Canvas Proxy Group ─────────────────────────────────────────
	canvasAPI := router.Group("/canvas")
	{
		canvasAPI.GET("/user/information", handlers.Canvas.GetUserInformation)

		canvasAPI.GET("/courses", handlers.Canvas.ListCourses)
		// Flexible modules route: must precede in reading order but Gin
		// resolves the static "modules" segment over :course_id itself.
		canvasAPI.GET("/courses/modules", handlers.Canvas.ListModulesFlexible)
		canvasAPI.GET("/courses/:course_id", handlers.Canvas.GetCourse)
		canvasAPI.GET("/courses/:course_id/modules", handlers.Canvas.ListCourseModules)
		canvasAPI.GET("/courses/:course_id/modules/:module_id/items", handlers.Canvas.ListModuleItems)
		canvasAPI.GET("/modules/:module_id/items", handlers.Canvas.ListModuleItemsByQuery)

		canvasAPI.GET("/courses/:course_id/assignments", handlers.Canvas.ListAssignments)
		canvasAPI.GET("/courses/:course_id/assignments/:assignment_id", handlers.Canvas.GetAssignment)
		canvasAPI.GET("/courses/:course_id/quizzes", handlers.Canvas.ListQuizzes)
		canvasAPI.GET("/courses/:course_id/quizzes/:quiz_id", handlers.Canvas.GetQuiz)
		canvasAPI.GET("/courses/:course_id/files", handlers.Canvas.ListFiles)
		canvasAPI.GET("/courses/:course_id/pages", handlers.Canvas.ListPages)
	}

	// ─── 3. Projects Group (Auth Required) ─────────────────────────────
	projects := router.Group("/projects")
	projects.Use(middleware.RequireAuth(authService))
	{
		projects.GET("", handlers.Project.ListProjects)
		projects.POST("", handlers.Project.CreateProject)
		projects.PATCH("/:project_id", handlers.Project.UpdateProject)
		projects.DELETE("/:project_id", handlers.Project.DeleteProject)
	}

	// ─── 4. Log Ingestion ──────────────────────────────────────────────
	logs := router.Group("/logs")
	{
		logs.GET("/health", handlers.Log.Health)
		logs.POST("", handlers.Log.Ingest)
		logs.POST("/", handlers.Log.Ingest)
	}

	return router
}
