// Package app boots the API server: configuration, database, collaborators
// and route registration.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/communityhub-io/communityhub/internal/config"
	"github.com/communityhub-io/communityhub/internal/credentials"
	"github.com/communityhub-io/communityhub/internal/db"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	adminapi "github.com/communityhub-io/communityhub/internal/http/api/admin"
	"github.com/communityhub-io/communityhub/internal/http/api/front"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/logging"
	"github.com/communityhub-io/communityhub/internal/notify"
	"github.com/communityhub-io/communityhub/internal/ratelimit"
	"github.com/communityhub-io/communityhub/internal/settings"
	"github.com/communityhub-io/communityhub/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate opens the database and runs migrations plus the super-admin seed.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Logging)
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	return db.SeedSuperAdmin(conn)
}

// RunServer boots the HTTP API with database-backed components.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Logging)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSeed := db.SeedSuperAdmin(conn); errSeed != nil {
		return errSeed
	}
	if errSettings := settings.Refresh(ctx, conn); errSettings != nil {
		return errSettings
	}

	gate := lifecycle.NewGate(cfg.Server.Environment)
	store := buildObjectStore(ctx, cfg)
	limiter := buildLimiter(cfg)
	notifier := notify.LogNotifier{}

	workflow := credentials.Workflow{
		DB: conn,
		Tokens: credentials.TokenConfig{
			Secret:    cfg.JWT.Secret,
			AccessTTL: cfg.JWT.AccessTTL(),
			ResetTTL:  cfg.JWT.ResetTTL(),
		},
		Notify:  notifier,
		Limiter: limiter,
	}

	engine := buildEngine(cfg, conn, workflow, gate, store, notifier)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s (%s)", cfg.Server.Addr, cfg.Server.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errServe == http.ErrServerClosed {
			return nil
		}
		return errServe
	}
}

// buildEngine assembles the gin engine with both route trees mounted.
func buildEngine(cfg config.Config, conn *gorm.DB, workflow credentials.Workflow, gate lifecycle.Gate, store storage.ObjectStore, notifier notify.Notifier) *gin.Engine {
	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), webhttp.RequestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	adminapi.RegisterAdminRoutes(engine, conn, workflow, gate, store, notifier)
	front.RegisterFrontRoutes(engine, conn, workflow, store)
	return engine
}

// buildObjectStore returns the S3 store when a bucket is configured and a
// noop store otherwise. An S3 setup failure degrades to noop with a warning
// so image removal never blocks the API.
func buildObjectStore(ctx context.Context, cfg config.Config) storage.ObjectStore {
	if cfg.Storage.Bucket == "" {
		return storage.Noop{}
	}
	store, errStore := storage.NewS3Store(ctx, cfg.Storage.Bucket, cfg.Storage.Region)
	if errStore != nil {
		log.Warnf("s3 store unavailable, falling back to noop: %v", errStore)
		return storage.Noop{}
	}
	return store
}

// buildLimiter returns the redis-backed forgot-password limiter when redis
// is configured and an unlimited limiter otherwise.
func buildLimiter(cfg config.Config) ratelimit.Limiter {
	if cfg.Redis.Addr == "" {
		return ratelimit.Unlimited{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	return ratelimit.NewRedisLimiter(client, cfg.Redis.ForgotPasswordLimit, cfg.Redis.ForgotPasswordWindow())
}

