// Package main runs the casino listing HTTP API with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/casinohub/backend/config"
	"github.com/casinohub/backend/internal/auth"
	"github.com/casinohub/backend/internal/banners"
	"github.com/casinohub/backend/internal/casinos"
	"github.com/casinohub/backend/internal/giveaways"
	"github.com/casinohub/backend/internal/media"
	"github.com/casinohub/backend/internal/middleware"
	"github.com/casinohub/backend/pkg/database"
	"github.com/casinohub/backend/pkg/queue"
	"github.com/casinohub/backend/pkg/redis"
	"github.com/casinohub/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	if err := database.Migrate(cfg.Database.DSN(), logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	files, err := media.FromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("media", zap.Error(err))
	}
	logger.Info("media backend ready", zap.String("backend", cfg.Media.Backend))

	// Media removal goes through the worker when the queue is enabled; otherwise it runs inline.
	cleaner := media.NewCleaner(files, nil, logger)
	if cfg.Redis.QueueEnabled {
		rdb, err := redis.Connect(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer func(c *goredis.Client) { _ = c.Close() }(rdb)
		cleaner = media.NewCleaner(files, queue.NewQueue(rdb, logger), logger)
	}

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)
	authn := auth.NewAuthenticator(jwtService, authRepo)

	// Catalog
	casinoHandler := casinos.NewHandler(casinos.NewRepository(pool), files, cleaner, cfg.Media.MaxBytes, logger)
	bannerHandler := banners.NewHandler(banners.NewRepository(pool), files, cleaner, cfg.Media.MaxBytes, logger)
	giveawayHandler := giveaways.NewHandler(giveaways.NewRepository(pool), files, cleaner, cfg.Media.MaxBytes, logger)

	router := gin.New()
	router.MaxMultipartMemory = cfg.Media.MaxBytes
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	if local, ok := files.(*media.LocalStore); ok {
		router.Static(local.Prefix(), local.Dir())
	}

	router.GET("/health", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			response.ServiceUnavailable(c, "database unavailable")
			return
		}
		response.OK(c, gin.H{"status": "ok"})
	})

	protect := middleware.Auth(authn, logger)
	admin := middleware.RequireAdmin()
	optional := middleware.OptionalAuth(authn, logger)

	api := router.Group(cfg.Server.APIPrefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/profile", protect, authHandler.Profile)
		authGroup.POST("/register", protect, admin, authHandler.Register)
	}

	casinoGroup := api.Group("/casinos")
	{
		casinoGroup.GET("", optional, casinoHandler.List)
		casinoGroup.PUT("/reorder", protect, admin, casinoHandler.Reorder)
		casinoGroup.GET("/:id", optional, casinoHandler.GetByID)
		casinoGroup.POST("", protect, admin, casinoHandler.Create)
		casinoGroup.PUT("/:id", protect, admin, casinoHandler.Update)
		casinoGroup.DELETE("/:id", protect, admin, casinoHandler.Delete)
	}

	bannerGroup := api.Group("/banners")
	{
		bannerGroup.GET("", optional, bannerHandler.List)
		bannerGroup.GET("/positions", bannerHandler.Positions)
		bannerGroup.GET("/:id", optional, bannerHandler.GetByID)
		bannerGroup.POST("", protect, admin, bannerHandler.Create)
		bannerGroup.PUT("/:id", protect, admin, bannerHandler.Update)
		bannerGroup.DELETE("/:id", protect, admin, bannerHandler.Delete)
	}

	giveawayGroup := api.Group("/giveaways")
	{
		giveawayGroup.GET("", optional, giveawayHandler.List)
		giveawayGroup.GET("/:id", optional, giveawayHandler.GetByID)
		giveawayGroup.POST("", protect, admin, giveawayHandler.Create)
		giveawayGroup.PUT("/:id", protect, admin, giveawayHandler.Update)
		giveawayGroup.DELETE("/:id", protect, admin, giveawayHandler.Delete)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("api_prefix", cfg.Server.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
