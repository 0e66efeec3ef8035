package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jobboard-dev/jobboard/internal/handlers"
	"github.com/jobboard-dev/jobboard/internal/middleware"
	"github.com/jobboard-dev/jobboard/internal/models"
	"github.com/jobboard-dev/jobboard/internal/services"
	"github.com/jobboard-dev/jobboard/internal/types"
	"gorm.io/gorm"
)

func NewRouter(conn *gorm.DB, resumes *services.ResumeStore) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.NewHandler(conn, resumes)

	requireAuth := middleware.AuthMiddleware(conn)
	optionalAuth := middleware.OptionalAuthMiddleware(conn)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", optionalAuth, h.Register)
			auth.POST("/login", optionalAuth, h.Login)
			auth.POST("/logout", requireAuth, h.Logout)
			auth.GET("/me", requireAuth, h.Me)
		}

		api.GET("/dashboard", requireAuth, h.Dashboard)

		jobs := api.Group("/jobs")
		{
			jobs.GET("", optionalAuth, h.SearchJobs)
			jobs.GET("/:job_id", optionalAuth, h.JobDetail)
			jobs.POST("", requireAuth, middleware.RequireRoles(models.RoleEmployer, models.RoleAdmin), h.CreateJob)
			jobs.PUT("/:job_id", requireAuth, h.UpdateJob)
			jobs.GET("/:job_id/applicants", requireAuth, h.ListApplicants)
			jobs.POST("/:job_id/apply", requireAuth, middleware.RequireRoles(models.RoleJobSeeker), h.ApplyJob)
		}

		api.GET("/uploads/:filename", requireAuth, h.DownloadResume)

		admin := api.Group("/admin", requireAuth, middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("", h.AdminDashboard)
			admin.DELETE("/users/:user_id", h.DeleteUser)
			admin.DELETE("/jobs/:job_id", h.DeleteJob)
		}
	}

	return r
}
