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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/adilevy/guide-roster-api/api/swagger"
	"github.com/adilevy/guide-roster-api/internal/generator"
	"github.com/adilevy/guide-roster-api/internal/handler"
	"github.com/adilevy/guide-roster-api/internal/middleware"
	"github.com/adilevy/guide-roster-api/internal/repository"
	"github.com/adilevy/guide-roster-api/internal/service"
	"github.com/adilevy/guide-roster-api/pkg/cache"
	"github.com/adilevy/guide-roster-api/pkg/config"
	"github.com/adilevy/guide-roster-api/pkg/database"
	"github.com/adilevy/guide-roster-api/pkg/logger"
	corsmiddleware "github.com/adilevy/guide-roster-api/pkg/middleware/cors"
	reqidmiddleware "github.com/adilevy/guide-roster-api/pkg/middleware/requestid"
)

// @title Guide Roster API
// @version 0.1.0
// @description Shift scheduling and validation for residential facility guides
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	guideRepo := repository.NewGuideRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	vacationRepo := repository.NewVacationRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	weekendRepo := repository.NewWeekendRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "guide-roster-api",
	})
	guideSvc := service.NewGuideService(guideRepo, constraintRepo, vacationRepo, ruleRepo, weekendRepo, validate, logr)

	rosterDeps := service.RosterServiceDeps{
		Guides:      guideRepo,
		Constraints: constraintRepo,
		Vacations:   vacationRepo,
		Rules:       ruleRepo,
		Weekends:    weekendRepo,
		Schedule:    scheduleRepo,
		Cache:       cacheRepo,
		Metrics:     metricsSvc,
		Validator:   validate,
		Logger:      logr,
		RosterCfg:   cfg.Roster,
		GenCfg:      cfg.Generator,
	}
	if cfg.Generator.Enabled {
		rosterDeps.Generator = generator.NewHTTPClient(cfg.Generator, logr)
	}
	rosterSvc := service.NewRosterService(rosterDeps)
	exportSvc := service.NewExportService(rosterSvc, guideRepo, cfg.Export.FacilityName, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	guideHandler := handler.NewGuideHandler(guideSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc, exportSvc)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/guides", guideHandler.List)
	authed.POST("/guides", guideHandler.Create)
	authed.GET("/guides/:id", guideHandler.Get)
	authed.PUT("/guides/:id", guideHandler.Update)
	authed.DELETE("/guides/:id", guideHandler.Deactivate)
	authed.GET("/guides/:id/constraints", guideHandler.ListPersonalConstraints)
	authed.GET("/guides/:id/vacations", guideHandler.ListVacations)

	authed.POST("/constraints/personal", guideHandler.AddPersonalConstraint)
	authed.DELETE("/constraints/personal/:id", guideHandler.RemovePersonalConstraint)
	authed.GET("/constraints/fixed", guideHandler.ListFixedConstraints)
	authed.POST("/constraints/fixed", guideHandler.AddFixedConstraint)
	authed.DELETE("/constraints/fixed/:id", guideHandler.RemoveFixedConstraint)

	authed.POST("/vacations", guideHandler.RequestVacation)
	authed.PUT("/vacations/:id/status", guideHandler.ReviewVacation)

	authed.GET("/rules", guideHandler.ListRules)
	authed.POST("/rules", guideHandler.AddRule)
	authed.PUT("/rules/:id/active", guideHandler.SetRuleActive)

	authed.GET("/weekends/:year/:month", guideHandler.ListWeekends)
	authed.PUT("/weekends", guideHandler.SetWeekendStatus)

	authed.GET("/roster/:year/:month", rosterHandler.Month)
	authed.POST("/roster/:year/:month/assemble", rosterHandler.Assemble)
	authed.POST("/roster/:year/:month/validate", rosterHandler.Validate)
	authed.POST("/roster/:year/:month/generate", rosterHandler.Generate)
	authed.GET("/roster/:year/:month/balance", rosterHandler.Balance)
	authed.GET("/roster/:year/:month/export/csv", rosterHandler.ExportCSV)
	authed.GET("/roster/:year/:month/export/pdf", rosterHandler.ExportPDF)
	authed.PUT("/roster/manual", rosterHandler.SetManual)
	authed.DELETE("/roster/manual/:date", rosterHandler.ClearManual)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	if redisClient != nil {
		redisClient.Close() //nolint:errcheck
	}
}
