package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/app"
	"github.com/Freeeeeet/slot_scheduler/internal/cache"
	"github.com/Freeeeeet/slot_scheduler/internal/config"
	"github.com/Freeeeeet/slot_scheduler/internal/controller"
	"github.com/Freeeeeet/slot_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/slot_scheduler/internal/controller/httpapi"
	"github.com/Freeeeeet/slot_scheduler/internal/service"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Scheduler stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting slot scheduler",
		zap.String("storage", cfg.Storage),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("timezone", cfg.Location.String()),
		zap.Bool("bot", cfg.BotEnabled()),
		zap.Bool("cache", cfg.CacheEnabled()),
	)

	clock := timeutil.SystemClock{}

	store, closeStore, err := app.OpenStore(ctx, cfg, clock, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Кэш доступности опционален
	var availabilityCache service.AvailabilityCache
	if cfg.CacheEnabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, availability cache disabled", zap.Error(err))
		} else {
			availabilityCache = cache.NewAvailabilityCache(client, cfg.AvailabilityCacheTTL)
		}
	}

	booker := service.NewSlotBooker(clock, logger)
	events := service.NewEventService(
		store,
		service.NewEventValidator(booker),
		service.NewSlotGenerator(logger),
		booker,
		availabilityCache,
		cfg.Location,
		logger,
	)
	availability := service.NewAvailabilityService(store, availabilityCache, clock, cfg.Location, logger)

	// Прогрев имеет смысл только с кэшем
	if availabilityCache != nil {
		scheduler := app.NewScheduler(availability, clock, cfg.Location, cfg.AvailabilityCacheTTL, logger)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	if cfg.BotEnabled() {
		botController, err := controller.NewBotController(
			cfg.TelegramToken,
			handlers.NewHandlers(events, availability, cfg.Location, logger),
			logger,
		)
		if err != nil {
			return err
		}
		if err := botController.RegisterHandlers(ctx); err != nil {
			return err
		}
		go botController.Start(ctx)
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandlers(events, availability, cfg.Location, logger), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
