package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadhub/acadhub-api/api/swagger"
	"github.com/acadhub/acadhub-api/internal/handler"
	"github.com/acadhub/acadhub-api/internal/middleware"
	"github.com/acadhub/acadhub-api/internal/repository"
	"github.com/acadhub/acadhub-api/internal/service"
	"github.com/acadhub/acadhub-api/pkg/cache"
	"github.com/acadhub/acadhub-api/pkg/config"
	"github.com/acadhub/acadhub-api/pkg/database"
	"github.com/acadhub/acadhub-api/pkg/export"
	"github.com/acadhub/acadhub-api/pkg/jobs"
	"github.com/acadhub/acadhub-api/pkg/logger"
	corsmiddleware "github.com/acadhub/acadhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadhub/acadhub-api/pkg/middleware/requestid"
)

// @title AcadHub API
// @version 1.0.0
// @description Personal academic ledger: attendance tracking, bunk-guard projections, grades and timetable reconciliation
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
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	cacheEnabled := err == nil
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	subjectRepo := repository.NewSubjectRepository(db)
	eventRepo := repository.NewEventRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	resultRepo := repository.NewResultRepository(db)

	// Services.
	metricsSvc := service.NewMetricsService()
	var cacheSvc *service.CacheService
	if cacheEnabled {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
	}

	auditSvc := service.NewLedgerAuditService(subjectRepo, eventRepo, metricsSvc, logr, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
		RetryDelay: cfg.Audit.RetryDelay,
	})
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	authSvc := service.NewAuthService(cfg.JWT, logr)
	ledgerSvc := service.NewLedgerService(subjectRepo, eventRepo, cacheSvc, metricsSvc, auditSvc, nil, logr)
	streakSvc := service.NewStreakService(eventRepo, holidayRepo, cfg.Streak.LookbackDays, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, cacheSvc, nil, logr)
	dashboardSvc := service.NewDashboardService(subjectRepo, cacheSvc, cfg.BunkGuard.DefaultTargetPercent, cfg.Dashboard.CacheTTL, logr)
	gradeSvc := service.NewGradeService(resultRepo, nil, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, eventRepo, subjectRepo, nil, logr)
	holidaySvc := service.NewHolidayService(holidayRepo, nil, logr)
	exportSvc := service.NewExportService(subjectRepo, resultRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	// Handlers.
	attendanceHandler := handler.NewAttendanceHandler(ledgerSvc, streakSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, subjectSvc)
	resultsHandler := handler.NewResultsHandler(gradeSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	holidayHandler := handler.NewHolidayHandler(holidaySvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	api.Use(middleware.WithResponseMeta())
	{
		api.POST("/attendance/events", attendanceHandler.Mark)
		api.GET("/attendance/events", attendanceHandler.List)
		api.PATCH("/attendance/events/:id", attendanceHandler.Edit)
		api.DELETE("/attendance/events/:id", attendanceHandler.Delete)
		api.GET("/attendance/streak", attendanceHandler.Streak)

		api.GET("/subjects", subjectHandler.List)
		api.POST("/subjects", subjectHandler.Create)
		api.GET("/subjects/:id", subjectHandler.Get)
		api.PATCH("/subjects/:id", subjectHandler.Update)
		api.PATCH("/subjects/:id/progress", subjectHandler.Progress)
		api.DELETE("/subjects/:id", subjectHandler.Delete)

		api.GET("/dashboard", dashboardHandler.Dashboard)
		api.GET("/dashboard/overview", dashboardHandler.Overview)

		api.POST("/results", resultsHandler.Save)
		api.GET("/results", resultsHandler.List)
		api.GET("/results/:semester", resultsHandler.Get)
		api.DELETE("/results/:semester", resultsHandler.Delete)

		api.GET("/timetable", timetableHandler.Get)
		api.PUT("/timetable", timetableHandler.Save)
		api.GET("/timetable/classes", timetableHandler.Classes)

		api.GET("/holidays", holidayHandler.List)
		api.POST("/holidays", holidayHandler.Add)
		api.DELETE("/holidays/:id", holidayHandler.Delete)

		api.POST("/ledger/audit", auditHandler.Run)
		api.POST("/ledger/audit/:id", auditHandler.RunSubject)

		api.GET("/metrics/snapshot", metricsHandler.Snapshot)

		if cfg.Exports.Enabled {
			api.GET("/exports/attendance", exportHandler.Attendance)
			api.GET("/exports/results", exportHandler.Results)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
