package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/config"
	"github.com/eduverse/eduverse-backend/internal/handler"
	"github.com/eduverse/eduverse-backend/internal/middleware"
	"github.com/eduverse/eduverse-backend/internal/response"
	"github.com/eduverse/eduverse-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth   *handler.AuthHandler
	Staff  *handler.StaffHandler
	Course *handler.CourseHandler
	Page   *handler.PageHandler
	WS     *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	snapshots *authz.SnapshotProvider,
	registry *authz.Registry,
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
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService, snapshots), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService, snapshots), handlers.Auth.Me)
		auth.GET("/can-access", middleware.RequireAuth(authService, snapshots), handlers.Auth.CanAccessRoute)
	}

	// ─── 2. Authorization Probes (JWT) ─────────────────────────────────
	authzAPI := router.Group("/api/v1/authz")
	authzAPI.Use(middleware.RequireAuth(authService, snapshots))
	{
		authzAPI.POST("/decision", handlers.Page.Decision)
	}

	// ─── 3. Page Group (JWT + Route Guard) ─────────────────────────────
	// Every application page is served behind its mapped permission; the
	// route map is the single source of truth for what gets registered.
	pagesAPI := router.Group("/api/v1/pages")
	pagesAPI.Use(middleware.RequireAuth(authService, snapshots))
	{
		for _, route := range registry.Routes() {
			pagesAPI.GET(route,
				middleware.RequireRoute(registry, route),
				handlers.Page.Serve(route),
			)
		}
	}

	// ─── 4. Course Group (JWT + Permission Guards) ─────────────────────
	coursesAPI := router.Group("/api/v1/courses")
	coursesAPI.Use(middleware.RequireAuth(authService, snapshots))
	{
		coursesAPI.GET("",
			middleware.RequirePermission(registry, "courses", "view_enrolled"),
			handlers.Course.ListCourses,
		)
		coursesAPI.GET("/enrollments",
			middleware.RequirePermission(registry, "courses", "view_enrolled"),
			handlers.Course.MyEnrollments,
		)
		coursesAPI.POST("/:course_id/enroll",
			middleware.RequirePermission(registry, "courses", "enroll"),
			handlers.Course.Enroll,
		)
	}

	// ─── 5. WebSocket Group (JWT + Permission Guard) ───────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAuth(authService, snapshots))
	{
		ws.GET("/courses/:course_id/chat",
			middleware.RequirePermission(registry, "groups", "participate"),
			handlers.WS.CourseChatStream,
		)
	}

	// ─── 6. Admin Group (JWT + Permission Guards) ──────────────────────
	// Department heads hold admin:manage_teachers; system administrators
	// reach the same screens through users:manage_all.
	manageStaff := middleware.RequireAny(registry,
		authz.Pair{Resource: "admin", Action: "manage_teachers"},
		authz.Pair{Resource: "users", Action: "manage_all"},
	)

	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAuth(authService, snapshots))
	{
		adminAPI.GET("/teachers", manageStaff, handlers.Staff.ListTeachers)
		adminAPI.GET("/roles", manageStaff, handlers.Staff.ListRoles)
		adminAPI.GET("/permissions", manageStaff, handlers.Staff.ListPermissions)
		adminAPI.POST("/teachers/assign-role", manageStaff, handlers.Staff.AssignRole)
		adminAPI.PUT("/teachers/status", manageStaff, handlers.Staff.SetTeacherStatus)
		adminAPI.GET("/teachers/:teacher_id/assignments", manageStaff, handlers.Staff.AssignmentHistory)
	}

	return router
}
