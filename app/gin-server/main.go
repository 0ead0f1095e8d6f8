package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/devconnect/config"
	"github.com/yoockh/devconnect/internal/api/handlers"
	"github.com/yoockh/devconnect/internal/api/middleware"
	"github.com/yoockh/devconnect/internal/api/routes"
	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/cache"
	"github.com/yoockh/devconnect/internal/logger"
	"github.com/yoockh/devconnect/internal/providers/github"
	mongorepo "github.com/yoockh/devconnect/internal/repositories/mongo"
	"github.com/yoockh/devconnect/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	log := logger.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init MongoDB
	mongoClient, err := config.NewMongoClient(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	db := mongoClient.Database(cfg.Mongo.DB)
	if err := config.EnsureMongoIndexes(ctx, db); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	// Init Redis
	var profileCache cache.Cache = cache.Nop{}
	rdb, err := config.NewRedisClient(ctx, cfg)
	switch {
	case err != nil:
		log.WithError(err).Fatal("Redis init error")
	case rdb == nil:
		log.Warn("REDIS_ADDR not set, profile cache disabled")
	default:
		defer rdb.Close()
		profileCache = cache.NewRedisCache(rdb, cfg.Cache.Prefix)
		log.Info("Redis connected")
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan, cfg.Auth.Issuer)

	profileRepo := mongorepo.NewProfileRepo(db)
	userRepo := mongorepo.NewUserRepo(db)

	gh := github.New(github.Config{
		BaseURL:       cfg.GitHub.BaseURL,
		ClientID:      cfg.GitHub.ClientID,
		ClientSecret:  cfg.GitHub.ClientSecret,
		Token:         cfg.GitHub.Token,
		UserAgent:     cfg.GitHub.UserAgent,
		Timeout:       cfg.GitHub.Timeout,
		MaxConcurrent: cfg.GitHub.MaxConcurrent,
	}, nil)

	profileSvc := services.NewProfileService(profileRepo, userRepo, profileCache, cfg.Cache.TTL, log)
	userSvc := services.NewUserService(userRepo, tokens, cfg.Auth.BcryptCost)
	githubSvc := services.NewGitHubService(gh, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.RegisterRoutes(r, routes.Deps{
		Tokens:  tokens,
		Users:   handlers.NewUserHandler(userSvc),
		Profile: handlers.NewProfileHandler(profileSvc),
		GitHub:  handlers.NewGitHubHandler(githubSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
