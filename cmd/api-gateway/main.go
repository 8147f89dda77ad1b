package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campusgrid/scheduler-api/api/swagger"
	"github.com/campusgrid/scheduler-api/internal/handler"
	"github.com/campusgrid/scheduler-api/internal/middleware"
	"github.com/campusgrid/scheduler-api/internal/repository"
	"github.com/campusgrid/scheduler-api/internal/service"
	"github.com/campusgrid/scheduler-api/pkg/cache"
	"github.com/campusgrid/scheduler-api/pkg/config"
	"github.com/campusgrid/scheduler-api/pkg/database"
	"github.com/campusgrid/scheduler-api/pkg/jobs"
	"github.com/campusgrid/scheduler-api/pkg/logger"
	corsmiddleware "github.com/campusgrid/scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusgrid/scheduler-api/pkg/middleware/requestid"
)

// @title CampusGrid Scheduler API
// @version 1.0.0
// @description Scheduling conflict detection, resolution, and feasibility engine
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Matrix.HeatmapCacheTTL, logr, redisClient != nil)

	slotRepo := repository.NewSlotRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRequestRepository(db)
	outcomeRepo := repository.NewOutcomeRepository(db)

	validate := validator.New()

	detector := service.NewConflictDetectorService(slotRepo, roomRepo, metrics, logr)
	matrix := service.NewConflictMatrixService(enrollmentRepo, courseRepo, cacheSvc, metrics, cfg.Matrix, logr)
	resolver := service.NewResolutionService(slotRepo, roomRepo, teacherRepo, outcomeRepo, detector, metrics, cfg.Engine, logr)
	feasibility := service.NewFeasibilityService(courseRepo, roomRepo, assignmentRepo, slotRepo, cfg.Engine, logr)

	warmCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := resolver.WarmHistory(warmCtx); err != nil {
		logr.Warn("failed to warm resolution history", zap.Error(err))
	}
	cancel()

	rebuildQueue := jobs.NewQueue("matrix-rebuild", func(ctx context.Context, job jobs.Job) error {
		year, ok := job.Payload.(int)
		if !ok {
			return fmt.Errorf("matrix rebuild job %s: unexpected payload %T", job.ID, job.Payload)
		}
		_, err := matrix.Build(ctx, year)
		return err
	}, jobs.QueueConfig{Workers: 1, MaxRetries: 2, Logger: logr})
	rebuildQueue.Start(context.Background())
	defer rebuildQueue.Stop()

	conflictHandler := handler.NewConflictHandler(detector, resolver, validate)
	matrixHandler := handler.NewMatrixHandler(matrix, rebuildQueue)
	feasibilityHandler := handler.NewFeasibilityHandler(feasibility, validate)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/schedules/:id/conflicts", conflictHandler.Detect)
		api.GET("/schedules/:id/conflicts/priority", conflictHandler.Prioritize)
		api.POST("/schedules/:id/auto-resolve", conflictHandler.AutoResolve)
		api.POST("/slots/:id/check-move", conflictHandler.CheckMove)
		api.POST("/conflicts/suggestions", conflictHandler.Suggest)
		api.POST("/conflicts/apply", conflictHandler.Apply)

		api.POST("/conflict-matrix/:year/rebuild", matrixHandler.Rebuild)
		api.GET("/conflict-matrix/:year/heatmap", matrixHandler.Heatmap)
		api.GET("/conflict-matrix/:year/singletons", matrixHandler.Singletons)
		api.GET("/conflict-matrix/pair", matrixHandler.PairStats)

		api.POST("/courses/:id/rooms/validate", feasibilityHandler.ValidateRooms)
		api.GET("/courses/:id/rooms/effective", feasibilityHandler.EffectiveRooms)
		api.GET("/courses/:id/rooms/:roomId/compatibility", feasibilityHandler.Compatibility)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
