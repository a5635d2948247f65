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
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/config"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/logging"
	"github.com/taskhive-dev/taskhive/internal/monitors"
	"github.com/taskhive-dev/taskhive/internal/ratelimit"
	"github.com/taskhive-dev/taskhive/internal/router"
	"github.com/taskhive-dev/taskhive/internal/scheduler"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/telemetry"
	"github.com/taskhive-dev/taskhive/internal/types"
)

const (
	shutdownTimeout = 15 * time.Second
	healthInterval  = 30 * time.Second
	statsInterval   = time.Minute
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logging.NewLogger("taskhive", cfg.Log.Level)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := telemetry.InitSentry(cfg.Sentry.DSN, cfg.Env, cfg.Release); err != nil {
		log.WithError(err).Warn("Sentry disabled")
	}
	defer telemetry.Flush()

	conn, err := db.Connect(cfg.Database.Driver, cfg.Database.URL, log.WithField("component", "gorm"))

	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	defer func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := db.Setup(conn); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	if err != nil {
		log.WithError(err).Fatal("Failed to configure JWT")
	}

	deps := handlers.Deps{
		Services: services.New(conn),
		JWT:      jwtManager,
		DB:       conn,
		Cookie:   handlers.CookieConfig{Domain: cfg.Cookie.Domain, Secure: cfg.Cookie.Secure},
		Frontend: handlers.FrontendConfig{
			Origin:            cfg.Frontend.Origin,
			GoogleCallbackURL: cfg.Frontend.GoogleCallbackURL,
		},
		Log: log,
	}

	if cfg.Redis.URL != "" {
		opts, err := goredis.ParseURL(cfg.Redis.URL)

		if err != nil {
			log.WithError(err).Fatal("Invalid REDIS_URL")
		}

		client := goredis.NewClient(opts)
		defer client.Close()

		deps.Redis = client
		deps.Revocations = auth.NewRedisRevocationStore(client)
		deps.Limiter = ratelimit.New(ratelimit.NewRedisStore(client), cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
	} else {
		log.Warn("REDIS_URL not set, token revocation and login rate limiting are disabled")
	}

	if cfg.GoogleEnabled() {
		deps.Google = auth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL)
	}

	jobs := scheduler.NewScheduler(log.WithField("component", "scheduler"))
	defer jobs.Stop()

	for _, job := range []scheduler.Job{
		scheduler.DependencyHealthJob(monitors.Dependencies(conn, deps.Redis), healthInterval),
		scheduler.TaskStatsJob(deps.Services.Tasks, statsInterval),
	} {
		if err := jobs.Add(job); err != nil {
			log.WithError(err).Fatal("Failed to schedule job")
		}
	}

	origins := types.AllowedOrigins(cfg.Frontend.Origin, cfg.Frontend.ExtraAllowedOrigins)
	deps.Hub = handlers.NewHub(origins, log.WithField("component", "ws"))

	r := router.NewRouter(handlers.New(deps), router.Options{AllowedOrigins: origins})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shut down")
	}
}
