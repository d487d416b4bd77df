package routes

import (
	"net/http"
	"time"

	"shiftnote-backend/firebase"
	"shiftnote-backend/handlers"
	"shiftnote-backend/invitation"
	"shiftnote-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Options carries everything the handlers are built from.
type Options struct {
	DB          *gorm.DB
	Registry    *invitation.Registry
	Storage     firebase.StorageClient
	DefaultWage int
	FrontendURL string

	// Metrics and Gatherer are optional; /metrics is served only when Gatherer is set.
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
}

// SetupRoutes registers the API on r. The returned limiter guards the unauthenticated auth
// endpoints and must be stopped on shutdown.
func SetupRoutes(r *gin.Engine, opts Options) *middleware.RateLimiter {
	authHandler := &handlers.AuthHandler{DB: opts.DB, Registry: opts.Registry}
	allowedNameHandler := &handlers.AllowedNameHandler{Registry: opts.Registry}
	userHandler := &handlers.UserHandler{DB: opts.DB, FrontendURL: opts.FrontendURL}
	workLogHandler := &handlers.WorkLogHandler{DB: opts.DB}
	salaryHandler := &handlers.SalaryHandler{DB: opts.DB, DefaultWage: opts.DefaultWage}
	exportHandler := &handlers.ExportHandler{DB: opts.DB}
	scheduleHandler := &handlers.ScheduleHandler{DB: opts.DB}
	noticeHandler := &handlers.NoticeHandler{DB: opts.DB, Storage: opts.Storage}

	// 10 attempts per minute per IP on register, login and code checks
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	if opts.Metrics != nil {
		authLimiter.OnReject = opts.Metrics.CountRateLimited
	}

	// Public routes
	api := r.Group("/api")
	{
		public := api.Group("/auth")
		public.Use(authLimiter.Middleware())
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
		public.POST("/code/check", authHandler.CheckCode)
	}

	var sessions middleware.SessionChecker
	if opts.Registry != nil {
		sessions = opts.Registry
	}

	// Any signed-in role
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(sessions))
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/password", authHandler.ChangePassword)
		protected.DELETE("/auth/me", authHandler.Withdraw)

		protected.DELETE("/work-logs/:id", workLogHandler.DeleteWorkLog)

		protected.GET("/schedules", scheduleHandler.ListSchedules)
		protected.GET("/schedules/comments", scheduleHandler.ListComments)
		protected.POST("/schedules/comments", scheduleHandler.AddComment)

		protected.GET("/notices", noticeHandler.ListNotices)
	}

	// Daily log and salary
	staff := protected.Group("")
	staff.Use(middleware.RequireRoles("worker", "manager"))
	{
		staff.POST("/work-logs", workLogHandler.CreateWorkLog)
		staff.GET("/work-logs", workLogHandler.ListMyWorkLogs)
		staff.GET("/salary", salaryHandler.GetSalary)
	}

	managers := protected.Group("")
	managers.Use(middleware.RequireRoles("manager", "boss", "admin"))
	{
		managers.GET("/admin/work-logs", workLogHandler.ListAllWorkLogs)
		managers.GET("/admin/export/work-logs", exportHandler.ExportWorkLogs)

		managers.POST("/schedules/upload", scheduleHandler.UploadSchedules)
		managers.DELETE("/schedules/:id", scheduleHandler.DeleteSchedule)

		managers.POST("/notices", noticeHandler.CreateNotice)
		managers.DELETE("/notices/:id", noticeHandler.DeleteNotice)
	}

	owners := protected.Group("/allowed-names")
	owners.Use(middleware.RequireRoles("boss", "admin"))
	{
		owners.GET("", allowedNameHandler.ListAllowedNames)
		owners.POST("", allowedNameHandler.AddAllowedName)
		owners.POST("/:name/regenerate", allowedNameHandler.RegenerateCode)
		owners.DELETE("/:name", allowedNameHandler.RemoveAllowedName)
	}

	admin := protected.Group("/admin/users")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("", userHandler.ListUsers)
		admin.POST("", userHandler.CreateUser)
		admin.DELETE("/:id", userHandler.DeleteUser)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return authLimiter
}
