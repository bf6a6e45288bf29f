package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"claims-platform/internal/routes"
	"claims-platform/internal/services"
	"claims-platform/pkg/config"
	"claims-platform/pkg/customvalidator"
	"claims-platform/pkg/database/postgresql"
	"claims-platform/pkg/eventbus"
	"claims-platform/pkg/logger"
)

func main() {
	cfg := config.New()
	log := logger.NewLogger()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgresql.Migrate(cfg.Postgres.DSN, "db/migrations"); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, settings cache disabled", zap.Error(err))
	}
	defer redisClient.Close()

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		log.Fatal("registering validations failed", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = customvalidator.NewEchoValidator(v)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	bus := eventbus.New(log)
	engine := routes.InitRoutes(e, pool, redisClient, bus, cfg, log)

	go runBroadcastSweep(ctx, engine.Coordinator, cfg.Dispatch.BroadcastSweepInterval, log)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			log.Info("http server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
}

// runBroadcastSweep retires timed-out broadcasts until the process stops.
func runBroadcastSweep(ctx context.Context, coordinator services.BroadcastCoordinatorInterface, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if expired := coordinator.ExpireDue(ctx, now); expired > 0 {
				log.Info("expired broadcasts swept", zap.Int("count", expired))
			}
		}
	}
}
