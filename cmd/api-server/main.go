package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scenehub/database"
	"scenehub/internal/cache"
	"scenehub/internal/config"
	"scenehub/internal/ingestion/anilist"
	"scenehub/internal/logger"
	"scenehub/internal/microservices/http-api/handler"
	"scenehub/internal/microservices/http-api/middleware"
	"scenehub/internal/microservices/http-api/repository"
	"scenehub/internal/microservices/http-api/service"
	"scenehub/internal/trending"
)

func main() {
	cfg, err := config.LoadConfig(true)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lg := logger.Setup(cfg.LogLevel, cfg.LogFormat, "api-server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, lg)
	if err != nil {
		lg.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// Redis is optional; without it rankings and catalog lookups are computed on every request.
	var rc *cache.Cache
	if cfg.RedisURL != "" {
		rc, err = cache.Connect(ctx, cfg.RedisURL, cfg.RedisPassword, cache.Options{
			TrendingTTL: cfg.TrendingCacheTTL,
			CatalogTTL:  cfg.CatalogCacheTTL(),
			Logger:      lg,
		})
		if err != nil {
			lg.Warn("redis unavailable, continuing without cache", "error", err)
			rc = nil
		} else {
			defer rc.Close()
		}
	}

	catalogClient := anilist.NewClient(anilist.ClientConfig{
		APIURL:        cfg.AniListAPIURL,
		RatePerSecond: cfg.AniListRatePerSecond,
		Logger:        lg,
	})

	// Repositories
	sceneRepo := repository.NewSceneRepository(db)
	tagRepo := repository.NewTagRepository(db)
	animeRepo := repository.NewAnimeRepository(db)
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	socialRepo := repository.NewSocialRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	ranking := trending.NewEngine(service.NewSceneSource(sceneRepo), trending.WithCache(rc), trending.WithLogger(lg))
	sceneService := service.NewSceneService(sceneRepo, tagRepo, animeRepo, userRepo, ranking, rc, lg)
	commentService := service.NewCommentService(commentRepo, sceneRepo, userRepo)
	socialService := service.NewSocialService(socialRepo, sceneRepo, userRepo)
	reportService := service.NewReportService(reportRepo, sceneRepo, userRepo)
	catalogService := service.NewCatalogService(tagRepo, animeRepo, catalogClient, rc, lg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics())

	r.GET("/check-conn", func(c *gin.Context) {
		if err := db.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "API is alive and database connected",
			"catalog": catalogClient.BreakerState(),
		})
	})
	if cfg.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	verifier := middleware.NewTokenVerifier(cfg.JWTSecret)
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(verifier))
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(verifier))

	handler.NewSceneHandler(sceneService).RegisterRoutes(api, protected)
	handler.NewCommentHandler(commentService).RegisterRoutes(api, protected)
	handler.NewSocialHandler(socialService).RegisterRoutes(protected)
	handler.NewReportHandler(reportService).RegisterRoutes(api, protected)
	handler.NewCatalogHandler(catalogService).RegisterRoutes(api)

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("server running", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(srv, lg)
}

func shutdown(srv *http.Server, lg *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("graceful shutdown failed", "error", err)
		return
	}
	lg.Info("server stopped")
}
