package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"snapgram/internal/app/config"
	"snapgram/internal/app/di"
	"snapgram/internal/app/router"
	"snapgram/internal/feature/auth/authctx"
	authhandler "snapgram/internal/feature/auth/transport/handler"
	infradb "snapgram/internal/platform/db"
	healthhandler "snapgram/internal/platform/http/handler"
	jwtmw "snapgram/internal/platform/jwt"
	infraredis "snapgram/internal/platform/redis"
	"snapgram/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load(".env")
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []healthhandler.Check

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Falling back to SQL state store.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
		checks = append(checks, healthhandler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	// db（Redisがない場合のみ）
	var db *gorm.DB
	if rdb == nil {
		var err error
		db, err = infradb.OpenDB(cfg.DB, cfg.DBConnectTimeout, cfg.RunMigrations)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close DB", "error", err)
			}
		}()
		checks = append(checks, healthhandler.Check{Name: "db", Ping: sqlDB.PingContext})
	}

	// Repository
	stateRepo := di.NewStateRepository(rdb, db, cfg.StateTTL)

	// Usecase
	client := di.NewAppwriteClient(cfg.Appwrite)
	authUC := di.NewAuthUsecase(client, cfg.Appwrite)

	// Auth state
	provider := authctx.NewProvider(authUC, stateRepo, cfg.StoreIdleTTL).WithStateTTL(cfg.StateTTL)
	go provider.Run(ctx, cfg.SweepInterval)
	stores := di.StoreFunc(provider)

	// Handler
	authH := authhandler.NewAuthHandler(stores)
	layoutH := authhandler.NewLayoutHandler(stores, cfg.SideImageURL)

	var rateLimit gin.HandlerFunc
	if cfg.AuthRateLimit > 0 {
		rateLimit = ratelimiter.Middleware(ratelimiter.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow))
	}

	// ルータ生成
	gen := jwtmw.NewGenerator(cfg.JWTSecret, cfg.ClientTokenTTL)
	r := router.NewRouter(router.Handlers{
		Auth:      authH,
		Layout:    layoutH,
		Health:    healthhandler.Health(checks...),
		RateLimit: rateLimit,
	}, jwtmw.ClientIdentity(gen, jwtmw.CookieOptions{
		MaxAge: int(cfg.ClientTokenTTL.Seconds()),
		Secure: cfg.CookieSecure,
	}), router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
