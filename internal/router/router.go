package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/handler"
	"github.com/stemsi/portfolio-backend/internal/middleware"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stemsi/portfolio-backend/internal/response"
	"github.com/stemsi/portfolio-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	StudentRecord *handler.StudentRecordHandler
	Submission    *handler.SubmissionHandler
	WS            *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// authLimiter may be nil, in which case auth routes are not rate limited.
func SetupRouter(
	guard *service.SessionGuard,
	handlers *Handlers,
	authLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.MaxMultipartMemory = 8 << 20

	// Stored files are content-addressed by UUID, so they can be cached for a year.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// ─── 1. Accounts (Public) ──────────────────────────────────────────
	authRoutes := api.Group("")
	if authLimiter != nil {
		authRoutes.Use(authLimiter.Middleware())
	}
	{
		authRoutes.POST("/signup", handlers.Auth.Signup)
		authRoutes.POST("/login", handlers.Auth.Login)
	}
	api.GET("/admins", handlers.Auth.ListAdmins)

	// ─── 2. Student Records (Public) ───────────────────────────────────
	api.POST("/students", handlers.StudentRecord.Create)
	api.GET("/students", handlers.StudentRecord.List)

	// ─── 3. Session (Any Role) ─────────────────────────────────────────
	anySession := middleware.RequireSession(guard, "")
	api.GET("/session", anySession, handlers.Auth.Session)
	api.POST("/logout", anySession, handlers.Auth.Logout)

	// ─── 4. Student Group ──────────────────────────────────────────────
	studentAPI := api.Group("/student")
	studentAPI.Use(middleware.RequireSession(guard, model.RoleStudent))
	{
		studentAPI.POST("/projects", handlers.Submission.Submit)
		studentAPI.GET("/projects", handlers.Submission.ListMine)
		studentAPI.PUT("/projects/file", handlers.Submission.UpdateFile)
		studentAPI.DELETE("/projects", handlers.Submission.Delete)
	}

	// ─── 5. Admin Group ────────────────────────────────────────────────
	adminAPI := api.Group("/admin")
	adminAPI.Use(middleware.RequireSession(guard, model.RoleAdmin))
	{
		adminAPI.GET("/projects", handlers.Submission.ListAssigned)
		adminAPI.PUT("/projects/grade", handlers.Submission.Grade)
	}

	// ─── 6. WebSocket ──────────────────────────────────────────────────
	// The feed authenticates itself so it can keep re-checking the session.
	router.GET("/ws/projects", handlers.WS.ProjectFeed)

	return router
}
