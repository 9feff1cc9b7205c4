package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
	"github.com/Shaikat-CSE/goldennicheims/internal/event"
	"github.com/Shaikat-CSE/goldennicheims/internal/http"
	"github.com/Shaikat-CSE/goldennicheims/internal/log"
	"github.com/Shaikat-CSE/goldennicheims/internal/relay"
	"github.com/Shaikat-CSE/goldennicheims/internal/repository"
	"github.com/Shaikat-CSE/goldennicheims/internal/service"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/mq"
	"github.com/Shaikat-CSE/goldennicheims/internal/telemetry"
	"github.com/Shaikat-CSE/goldennicheims/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		HTTP     config.HTTP
		Store    config.Store
		Redis    config.Redis
		Postgres config.Postgres
		Ledger   config.Ledger
		Events   config.Events
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	var pgxPool *pgxpool.Pool
	if cfg.Events.Enabled || cfg.Store.Backend == config.StoreBackendPostgres {
		pgxPool, err = db.NewPgxPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("error creating pgx pool: %w", err)
		}
		defer pgxPool.Close()
	}

	store, closeStore, err := newStore(ctx, cfg.Store, cfg.Redis, pgxPool)
	if err != nil {
		return fmt.Errorf("error creating %s store: %w", cfg.Store.Backend, err)
	}
	defer closeStore()

	logger.InfoContext(ctx, "ledger store ready", slog.String("backend", cfg.Store.Backend.String()))

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	events := service.NewNoopSink()
	if cfg.Events.Enabled {
		dbClient := db.NewClient(pgxPool)
		outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)
		events = service.NewOutboxSink(outboxMsgRepository)

		kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
		if err != nil {
			return fmt.Errorf("error creating kafka producer: %w", err)
		}
		defer kafkaProducer.Close()

		kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("error creating kafka consumer: %w", err)
		}

		wg.Go(func() {
			svc := event.New(logger, kafkaConsumer)
			cleanup, err := svc.Run(ctx)
			if err != nil {
				panic(fmt.Errorf("error running event service: %w", err))
			}
			logger.InfoContext(ctx, "event service started")

			<-interruptChan

			logger.InfoContext(ctx, "event service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "event service is stopped", slog.Int64("low_stock_alerts", svc.LowStockAlerts()))
		})

		wg.Go(func() {
			svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
			cleanup := svc.Run(ctx)
			logger.InfoContext(ctx, "relay service started")

			<-interruptChan

			logger.InfoContext(ctx, "relay service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "relay service is stopped")
		})
	}

	registry := service.NewLedgerRegistry(store, cfg.Ledger, logger)
	stockService := service.NewStockService(logger, registry, events)

	httpService := http.New(cfg.HTTP, logger, stockService)
	if hc, ok := store.(db.HealthChecker); ok {
		httpService.AddHealthCheck("store", hc)
	}
	if cfg.Events.Enabled {
		httpService.AddHealthCheck("postgres", db.NewClient(pgxPool))
	}

	wg.Go(func() {
		cleanup, err := httpService.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}
