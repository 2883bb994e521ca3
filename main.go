package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptotracker/src/api"
	apicontrollers "cryptotracker/src/api/controllers"
	apihandlers "cryptotracker/src/api/handlers"
	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/config"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"
	aws_handler "cryptotracker/src/utils/aws"
	"cryptotracker/src/utils/metrics"
	redis_utils "cryptotracker/src/utils/redis"
	"cryptotracker/src/worker"
	workercontrollers "cryptotracker/src/worker/controllers"
	workerhandlers "cryptotracker/src/worker/handlers"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine outside of local development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error while loading config:", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.Logging.Level, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("Error while running")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	client, err := tracker.NewClient(cfg)
	if err != nil {
		return err
	}
	recorder := metrics.NewRecorder()

	var cache utils.CacheHandlerI = utils.NewMemoryCacheHandler()
	var broker services.AlertBroker = services.NewMemoryAlertBroker()
	if cfg.Databases.Redis.Enabled() {
		redisHandler, err := redis_utils.NewRedisHandler(ctx, cfg)
		if err != nil {
			return err
		}
		defer redisHandler.Close()
		cache = redisHandler
		broker = services.NewRedisAlertBroker(redisHandler, cfg.Portfolio.AlertsTTL)
		logger.Info("using Redis for caching and alert fan-out")
	}

	var httpServer *http.Server
	var onShutdown func(context.Context)
	switch cfg.Service.Type {
	case config.WORKER:
		controller, err := newWorkerController(cfg, client, cache, broker, recorder, logger)
		if err != nil {
			return err
		}
		if err := controller.ScheduleSweep(); err != nil {
			return fmt.Errorf("invalid worker schedule %q: %w", cfg.Worker.Schedule, err)
		}
		onShutdown = controller.StopSweep

		server := worker.NewServer(workerhandlers.NewHandler(controller), recorder, logger)
		httpServer = worker.NewHTTPServer(server, cfg.Service.Port)
	default:
		controller := apicontrollers.NewController(cfg, client, cache, broker, recorder)
		server := api.NewServer(apihandlers.NewHandler(controller), recorder, logger)
		httpServer = api.NewHTTPServer(server, cfg.Service.Port)
	}

	errC := make(chan error, 1)
	go func() {
		logger.Infof("Starting %s server on port %s", cfg.Service.Type, cfg.Service.Port)

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}
	return httpServer.Shutdown(shutdownCtx)
}

func newWorkerController(cfg *config.Config, client tracker.TrackerServiceClientI, cache utils.CacheHandlerI, broker services.AlertBroker, recorder *metrics.Recorder, logger *logrus.Logger) (*workercontrollers.Controller, error) {
	portfolioCfg := cfg.Portfolio
	holdings := services.NewHoldingsService(client, portfolioCfg.HoldingsCacheTTL)
	resolver := services.NewPriceResolver(client, cache, portfolioCfg.PriceCacheTTL, portfolioCfg.MaxConcurrency, recorder)
	portfolio := services.NewPortfolioService(holdings, resolver, broker, recorder, portfolioCfg.HoldingsCacheTTL)

	var secrets workercontrollers.SecretGetter
	if cfg.Worker.PasswordSecretID != "" {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		secrets = awsHandler.SecretManager
	}
	return workercontrollers.NewController(cfg, client, portfolio, secrets, logger), nil
}
