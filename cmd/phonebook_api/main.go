package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aradsms/phonebook_api/internal/platform/cache"
	"github.com/aradsms/phonebook_api/internal/platform/config"
	"github.com/aradsms/phonebook_api/internal/platform/database"
	"github.com/aradsms/phonebook_api/internal/platform/logger"
	"github.com/aradsms/phonebook_api/internal/platform/messagebroker"

	grpcAdapter "github.com/aradsms/phonebook_api/internal/phonebook_service/adapters/grpc"
	phonebookApp "github.com/aradsms/phonebook_api/internal/phonebook_service/app"
	"github.com/aradsms/phonebook_api/internal/phonebook_service/domain"
	"github.com/aradsms/phonebook_api/internal/phonebook_service/referencedata"
	"github.com/aradsms/phonebook_api/internal/phonebook_service/repository/postgres"
	httpTransport "github.com/aradsms/phonebook_api/internal/phonebook_service/transport/http"
	"github.com/aradsms/phonebook_api/internal/phonebook_service/validation"
)

const serviceName = "phonebook_api"

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel).With("service", serviceName)
	appLogger.Info("Starting service...")
	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"http_port", cfg.HTTPPort,
		"grpc_health_port", cfg.GRPCHealthPort,
		"postgres_dsn_present", cfg.PostgresDSN != "",
		"redis_enabled", cfg.RedisURL != "",
		"nats_enabled", cfg.NATSURL != "",
		"reference_api", cfg.ReferenceAPIBaseURL,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	checks := map[string]httpTransport.HealthCheck{
		"database": dbPool.Ping,
	}

	var store cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(mainCtx, cfg.RedisURL, "")
		if err != nil {
			appLogger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
		checks["cache"] = redisStore.Health
		appLogger.Info("Reference cache backed by Redis")
	} else {
		store = cache.NewMemoryStore()
		appLogger.Info("REDIS_URL not configured, using in-memory reference cache")
	}

	// Events are optional; a NATS outage at startup does not stop the API.
	var publisher domain.EventPublisher
	if cfg.NATSURL != "" {
		natsClient, err := messagebroker.NewNatsClient(cfg.NATSURL, serviceName, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to NATS, item events disabled", "url", cfg.NATSURL, "error", err)
		} else {
			defer natsClient.Close()
			publisher = natsClient
			appLogger.Info("NATS client connected", "url", cfg.NATSURL)
		}
	} else {
		appLogger.Info("NATS URL not configured, item events disabled")
	}

	repo := postgres.NewPgPhonebookItemRepository(dbPool, appLogger)
	refClient := referencedata.NewClient(appLogger, cfg.ReferenceAPIBaseURL, cfg.ReferenceAPITimeout, nil)
	refProvider := referencedata.NewProvider(appLogger, refClient, store, cfg.ReferenceCacheTTL)
	validator := validation.New(refProvider, repo)

	application := phonebookApp.NewApplication(repo, validator, publisher, appLogger,
		phonebookApp.WithMaxPageSize(cfg.MaxPageSize),
	)

	itemHandler := httpTransport.NewPhonebookItemHandler(application, validator, appLogger, cfg.DefaultPageSize)
	healthHandler := httpTransport.NewHealthHandler(checks, 2*time.Second)
	router := httpTransport.NewRouter(itemHandler, healthHandler, httpTransport.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}, appLogger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed", "error", err)
			return fmt.Errorf("http server: %w", err)
		}
		appLogger.Info("HTTP server stopped.")
		return nil
	})

	if cfg.GRPCHealthPort > 0 {
		healthServer := grpcAdapter.NewHealthServer(healthHandler, 15*time.Second, appLogger)

		g.Go(func() error {
			listenAddress := fmt.Sprintf(":%d", cfg.GRPCHealthPort)
			lis, err := net.Listen("tcp", listenAddress)
			if err != nil {
				return fmt.Errorf("failed to listen for gRPC on %s: %w", listenAddress, err)
			}
			appLogger.Info("gRPC health server starting", "address", listenAddress)
			return healthServer.Serve(lis)
		})
		g.Go(func() error {
			healthServer.Watch(groupCtx)
			return nil
		})
		g.Go(func() error {
			<-groupCtx.Done()
			healthServer.GracefulStop()
			appLogger.Info("gRPC health server stopped.")
			return nil
		})
	}

	g.Go(func() error {
		stopSignal := make(chan os.Signal, 1)
		signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stopSignal)
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
			mainCancel()
		case <-groupCtx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Initiating graceful shutdown of HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown error", "error", err)
			return err
		}
		return nil
	})

	appLogger.Info("Service is ready and running.")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Service group encountered an error", "error", err)
	}
	appLogger.Info("Service shutdown complete.")
}
