package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/scholars-edge/academy-api/api/swagger"
	"github.com/scholars-edge/academy-api/internal/handler"
	"github.com/scholars-edge/academy-api/internal/middleware"
	"github.com/scholars-edge/academy-api/internal/repository"
	"github.com/scholars-edge/academy-api/internal/service"
	"github.com/scholars-edge/academy-api/pkg/cache"
	"github.com/scholars-edge/academy-api/pkg/config"
	"github.com/scholars-edge/academy-api/pkg/database"
	"github.com/scholars-edge/academy-api/pkg/logger"
	corsmiddleware "github.com/scholars-edge/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/scholars-edge/academy-api/pkg/middleware/requestid"
	"github.com/scholars-edge/academy-api/pkg/scheduler"
)

// @title Academy API
// @version 1.0.0
// @description Enrollment and contact backend for the academy website
// @BasePath /
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

	if err := database.Migrate(cfg.Database); err != nil {
		logr.Sugar().Fatalw("migrations failed", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, course cache disabled", "error", err)
			redisClient = nil
		}
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	contactRepo := repository.NewContactRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	validate := validator.New()

	authSvc := service.NewAuthService(userRepo, sessionRepo, validate, logr, cfg.Session.TTL, repository.IsUniqueViolation)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, validate, logr)
	contactSvc := service.NewContactService(contactRepo, validate, logr)

	var courseCache *repository.CacheRepository
	if redisClient != nil {
		courseCache = repository.NewCacheRepository(redisClient)
		defer courseCache.Close()
	}
	var courseSvc *service.CourseService
	if courseCache != nil {
		courseSvc = service.NewCourseService(courseRepo, courseCache, cfg.Cache.CourseTTL, validate, logr)
	} else {
		courseSvc = service.NewCourseService(courseRepo, nil, cfg.Cache.CourseTTL, validate, logr)
	}

	metricsSvc := service.NewMetricsService()

	sweep := scheduler.New("session-sweep", authSvc.SweepExpiredSessions, scheduler.Config{
		Interval: cfg.Session.CleanupInterval,
		Logger:   logr,
	})
	sweep.Start(context.Background())
	defer sweep.Stop()

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

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, routeDeps{
		auth:        handler.NewAuthHandler(authSvc, handler.CookieSettings{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure}),
		enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
		contact:     handler.NewContactHandler(contactSvc),
		courses:     handler.NewCourseHandler(courseSvc),
		metrics:     handler.NewMetricsHandler(metricsSvc),
		gate:        middleware.RequireSession(authSvc, cfg.Session.CookieName),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
