package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/handler"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/middleware"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/service"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/config"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/logger"
	corsmiddleware "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/middleware/cors"
	reqidmiddleware "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/middleware/requestid"
)

type handlerDeps struct {
	auth       *handler.AuthHandler
	student    *handler.StudentHandler
	company    *handler.CompanyHandler
	department *handler.DepartmentHandler
	downloads  *handler.DownloadHandler
	metrics    *handler.MetricsHandler
}

func newRouter(ctx context.Context, cfg *config.Config, logr *zap.Logger, sessions middleware.Authenticator, metrics *service.MetricsService, audit middleware.AuditRecorder, h handlerDeps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.AuthPerSecond, cfg.RateLimit.AuthBurst)
	go sweepLimiter(ctx, limiter)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	session := middleware.Session(sessions)

	auth := api.Group("/auth")
	{
		throttled := auth.Group("", middleware.RateLimit(limiter))
		throttled.POST("/login/:role", middleware.Audit(audit, models.AuditActionLogin, "session"), h.auth.Login)
		throttled.POST("/register/company", middleware.Audit(audit, models.AuditActionRegister, "company"), h.auth.RegisterCompany)
		throttled.POST("/forgot-password", h.auth.ForgotPassword)
		throttled.PUT("/reset-password/:token", middleware.Audit(audit, models.AuditActionPasswordReset, "session"), h.auth.ResetPassword)
		auth.GET("/verify-company/:nationalId", h.auth.VerifyCompany)
		auth.GET("/me", session, h.auth.Me)
		auth.POST("/logout", session, middleware.Audit(audit, models.AuditActionLogout, "session"), h.auth.Logout)
	}

	api.GET("/downloads/:token", h.downloads.Download)

	student := api.Group("/student", session, middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/posts", h.student.Posts)
		student.POST("/posts/:id/apply", middleware.Audit(audit, models.AuditActionApply, "training_post"), h.student.Apply)
		student.POST("/posts/:id/retry", middleware.Audit(audit, models.AuditActionApply, "training_post"), h.student.Retry)
		student.GET("/applications", h.student.Applications)
		student.PUT("/applications/:id/select", middleware.Audit(audit, models.AuditActionSelect, "application"), h.student.Select)
		student.POST("/training/report", middleware.Audit(audit, models.AuditActionReportUpload, "student_report"), h.student.FinalReport)
	}

	company := api.Group("/company", session, middleware.RequireRoles(models.RoleCompany))
	{
		company.GET("/posts", h.company.ListPosts)
		company.POST("/posts", middleware.Audit(audit, models.AuditActionPostCreate, "training_post"), h.company.CreatePost)
		company.PUT("/posts/:id", middleware.Audit(audit, models.AuditActionPostUpdate, "training_post"), h.company.UpdatePost)
		company.DELETE("/posts/:id", middleware.Audit(audit, models.AuditActionPostDelete, "training_post"), h.company.DeletePost)
		company.GET("/applications", h.company.Requests)
		company.PUT("/applications/:id", middleware.Audit(audit, models.AuditActionReview, "application"), h.company.Review)
		company.POST("/applications/:id/activity", middleware.Audit(audit, models.AuditActionReportUpload, "weekly_report"), h.company.WeeklyReport)
		company.POST("/applications/:id/final-report", middleware.Audit(audit, models.AuditActionReportUpload, "company_report"), h.company.FinalReport)
		company.GET("/trainees", h.company.Trainees)
		company.GET("/trainees/:id", h.company.Trainee)
		company.GET("/profile", h.company.Profile)
		company.PUT("/profile", middleware.Audit(audit, models.AuditActionProfileUpdate, "company"), h.company.UpdateProfile)
	}

	department := api.Group("/department", session, middleware.RequireRoles(models.RoleDepartmentHead))
	{
		department.GET("/students", h.department.Students)
		department.GET("/students/:id", h.department.Student)
		department.GET("/applications/pending", h.department.Pending)
		department.POST("/applications/:id/document", middleware.Audit(audit, models.AuditActionDocumentUpload, "application"), h.department.UploadDocument)
		department.GET("/roster", h.department.Roster)
		department.GET("/audit-logs", h.department.AuditLogs)
		department.GET("/metrics", h.metrics.Summary)
	}

	return r
}

func sweepLimiter(ctx context.Context, limiter *middleware.IPRateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
