package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/luct-reporting/reporting-api/internal/handler"
	"github.com/luct-reporting/reporting-api/internal/middleware"
	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/repository"
	"github.com/luct-reporting/reporting-api/internal/service"
	"github.com/luct-reporting/reporting-api/pkg/cache"
	"github.com/luct-reporting/reporting-api/pkg/config"
	"github.com/luct-reporting/reporting-api/pkg/database"
	"github.com/luct-reporting/reporting-api/pkg/logger"
	corsmiddleware "github.com/luct-reporting/reporting-api/pkg/middleware/cors"
	reqidmiddleware "github.com/luct-reporting/reporting-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()
	repository.SetQueryTimeout(cfg.Database.QueryTimeout)

	var cacheRepo *repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Monitoring.CacheTTL, logr, cfg.Monitoring.CacheEnabled)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	monitoringRepo := repository.NewMonitoringRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, courseRepo, userRepo, validate, logr)
	reportSvc := service.NewReportService(reportRepo, courseRepo, cacheSvc, validate, logr)
	ratingSvc := service.NewRatingService(ratingRepo, courseRepo, cfg.Ratings.OnePerCourse, validate, logr)
	monitoringSvc := service.NewMonitoringService(monitoringRepo, cacheSvc, cfg.Monitoring.CacheTTL, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	monitoringHandler := handler.NewMonitoringHandler(monitoringSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/users", middleware.JWT(authSvc), middleware.RequireRoles(models.RolePL), authHandler.ListUsers)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	protected.GET("/students", middleware.RequireRoles(models.RolePL, models.RolePRL), authHandler.ListStudents)

	protected.GET("/courses", courseHandler.List)
	protected.POST("/courses", middleware.RequireRoles(models.RolePL), courseHandler.Create)
	protected.GET("/courses/available", middleware.RequireRoles(models.RoleStudent), courseHandler.Available)
	protected.GET("/classes", middleware.RequireRoles(models.RoleLecturer, models.RolePRL, models.RolePL), courseHandler.Classes)

	protected.GET("/enrollments/my", middleware.RequireRoles(models.RoleStudent), enrollmentHandler.ListOwn)
	protected.POST("/enrollments", middleware.RequireRoles(models.RoleStudent), enrollmentHandler.Enroll)
	protected.DELETE("/enrollments/:courseId", middleware.RequireRoles(models.RoleStudent), enrollmentHandler.Unenroll)

	protected.GET("/assignments", middleware.RequireRoles(models.RolePL), assignmentHandler.List)
	protected.POST("/assignments", middleware.RequireRoles(models.RolePL), assignmentHandler.Create)
	protected.DELETE("/assignments/:id", middleware.RequireRoles(models.RolePL), assignmentHandler.Delete)

	protected.GET("/reports", reportHandler.List)
	protected.POST("/reports", middleware.RequireRoles(models.RoleLecturer), reportHandler.Create)
	protected.GET("/reports/export", reportHandler.Export)
	protected.GET("/reports/:id", reportHandler.Get)
	protected.PUT("/reports/:id/feedback", middleware.RequireRoles(models.RolePRL), reportHandler.Feedback)

	protected.GET("/ratings", ratingHandler.List)
	protected.POST("/ratings", middleware.RequireRoles(models.RoleStudent), ratingHandler.Create)

	protected.GET("/monitoring", monitoringHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
