package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/BMustafa97/serverless-snacks/internal/config"
	"github.com/BMustafa97/serverless-snacks/internal/delivery/events"
	orderRepository "github.com/BMustafa97/serverless-snacks/internal/repository/order"
	orderProcessingService "github.com/BMustafa97/serverless-snacks/internal/services/order/process"
	"github.com/BMustafa97/serverless-snacks/pkg/brokers/kafka/consumer"
	"github.com/BMustafa97/serverless-snacks/pkg/databases/postgres"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

func main() {
	cfg := config.InitConfig()

	log := logger.NewSlogLogger(logger.SlogEnvironment(cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, log, postgresDSN(&cfg.Postgres))
	if err != nil {
		panic(fmt.Sprintf("failed to connect to postgres: %v", err))
	}

	repo := orderRepository.NewRepository(log, db.GetDB())

	processSvc := orderProcessingService.New(log, repo)

	handler := events.NewHandler(log, processSvc)

	kafkaConsumer, err := consumer.New(log, cfg.Kafka, handler)
	if err != nil {
		panic(fmt.Sprintf("failed to create kafka consumer: %v", err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return kafkaConsumer.Run(gctx)
	})

	log.Info("order processor started")

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", logger.String("error", err.Error()))
	}

	if err = kafkaConsumer.Close(); err != nil {
		log.Error("failed to close kafka consumer", logger.String("error", err.Error()))
	}

	if err = db.Close(); err != nil {
		log.Error("failed to close postgres", logger.String("error", err.Error()))
	}

	log.Info("order processor stopped")
}

func postgresDSN(psqlCfg *config.PostgresConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		psqlCfg.Host, psqlCfg.Port, psqlCfg.User, psqlCfg.DbName, psqlCfg.Pwd, psqlCfg.SslMode)
}
