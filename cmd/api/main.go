package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/crmdash/student-crm-api/api/swagger"
	"github.com/crmdash/student-crm-api/internal/handler"
	"github.com/crmdash/student-crm-api/internal/middleware"
	"github.com/crmdash/student-crm-api/internal/repository"
	"github.com/crmdash/student-crm-api/internal/service"
	"github.com/crmdash/student-crm-api/pkg/cache"
	"github.com/crmdash/student-crm-api/pkg/config"
	"github.com/crmdash/student-crm-api/pkg/database"
	"github.com/crmdash/student-crm-api/pkg/logger"
	corsmiddleware "github.com/crmdash/student-crm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/crmdash/student-crm-api/pkg/middleware/requestid"
)

// @title Student CRM API
// @version 1.0.0
// @description Student relationship management core: roster, bulk import/export, analytics
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, redisClient != nil)

	studentRepo := repository.NewStudentRepository(db)
	timelineRepo := repository.NewTimelineRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	candidateValidator := service.NewValidator()
	structValidator := validator.New()
	authSvc := service.NewAuthService(cfg.JWT.Secret)
	studentSvc := service.NewStudentService(studentRepo, candidateValidator, cacheSvc, logr)
	importSvc := service.NewImportService(studentRepo, candidateValidator, cacheSvc, metricsSvc, logr, service.ImportServiceConfig{
		MaxBatchSize: cfg.Import.MaxBatchSize,
	})
	exportSvc := service.NewExportService(studentRepo, metricsSvc, logr, service.ExportServiceConfig{
		MaxRows: cfg.Export.MaxRows,
	})
	analyticsSvc := service.NewAnalyticsService(studentRepo, cacheSvc, metricsSvc, logr, service.AnalyticsServiceConfig{
		CacheTTL: cfg.Analytics.CacheTTL,
	})
	timelineSvc := service.NewTimelineService(timelineRepo, studentRepo, structValidator, logr)
	taskSvc := service.NewTaskService(taskRepo, structValidator, logr)
	reminderSvc := service.NewReminderService(reminderRepo, structValidator, logr)
	dashboardSvc := service.NewDashboardService(studentRepo, reminderRepo, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	studentHandler := handler.NewStudentHandler(studentSvc)
	bulkHandler := handler.NewImportExportHandler(importSvc, exportSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	timelineHandler := handler.NewTimelineHandler(timelineSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	reminderHandler := handler.NewReminderHandler(reminderSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/students/register", studentHandler.Register)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/students", studentHandler.List)
		protected.POST("/students", studentHandler.Create)
		protected.POST("/students/validate", studentHandler.Validate)
		protected.POST("/students/search", studentHandler.Search)
		protected.POST("/students/bulk/import", bulkHandler.Import)
		protected.POST("/students/bulk/export", bulkHandler.Export)
		protected.GET("/students/analytics", analyticsHandler.Snapshot)
		protected.GET("/students/analytics/report", analyticsHandler.Report)
		protected.GET("/students/:id", studentHandler.Get)
		protected.PUT("/students/:id", studentHandler.Update)
		protected.DELETE("/students/:id", studentHandler.Delete)
		protected.GET("/students/:id/timeline", timelineHandler.List)
		protected.POST("/students/:id/notes", timelineHandler.AddNote)
		protected.POST("/students/:id/communications", timelineHandler.AddCommunication)
		protected.POST("/students/:id/interactions", timelineHandler.AddInteraction)

		protected.GET("/tasks", taskHandler.List)
		protected.POST("/tasks", taskHandler.Create)
		protected.PUT("/tasks/:id", taskHandler.Update)
		protected.DELETE("/tasks/:id", taskHandler.Delete)

		protected.GET("/reminders", reminderHandler.List)
		protected.GET("/reminders/upcoming", reminderHandler.Upcoming)
		protected.POST("/reminders", reminderHandler.Create)
		protected.POST("/reminders/:id/complete", reminderHandler.Complete)
		protected.DELETE("/reminders/:id", reminderHandler.Delete)

		protected.GET("/dashboard/stats", dashboardHandler.Stats)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
