package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "ecomstore/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"ecomstore/internal/auth"
	"ecomstore/internal/cache"
	"ecomstore/internal/config"
	"ecomstore/internal/db"
	"ecomstore/internal/handler"
	"ecomstore/internal/logger"
	"ecomstore/internal/middleware"
	"ecomstore/internal/repository"
	"ecomstore/internal/router"
	"ecomstore/internal/service"
	"ecomstore/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title E-commerce Store API
// @version 1.0
// @description Catalog, accounts and product reviews with cookie based JWT sessions.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @description Session token set by POST /auth/login.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.IsDevelopment(), os.Stdout)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gormDB, err := db.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatal().Err(err).Msg("database migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, caching degraded to misses")
	}
	defer cacheClient.Close()

	images, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload storage init")
	}

	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authMW := middleware.NewAuthMiddleware(jwtService)

	// Initialize services
	authService := service.NewAuthService(store, jwtService, auth.NewBcryptHasher())
	userService := service.NewUserService(store, images, cacheClient, log)
	productService := service.NewProductService(store, cacheClient)
	reviewService := service.NewReviewService(store, cacheClient)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, log, authMW, router.Handlers{
		Auth: handler.NewAuthHandler(authService, userService, handler.AuthOptions{
			CookieSecure:  cfg.CookieSecure,
			PublicBaseURL: cfg.PublicBaseURL,
		}),
		User:    handler.NewUserHandler(userService),
		Product: handler.NewProductHandler(productService),
		Review:  handler.NewReviewHandler(reviewService),
	})

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	log.Info().Str("url", "http://"+swaggerHost+"/swagger/index.html").Msg("swagger documentation available")

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
