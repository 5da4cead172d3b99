package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/golang-lru/v2/expirable"

	httpapp "github.com/BMustafa97/serverless-snacks/internal/app/http"
	"github.com/BMustafa97/serverless-snacks/internal/config"
	createHandler "github.com/BMustafa97/serverless-snacks/internal/delivery/http/order/create"
	getHandler "github.com/BMustafa97/serverless-snacks/internal/delivery/http/order/get"
	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	orderRepository "github.com/BMustafa97/serverless-snacks/internal/repository/order"
	orderCreationService "github.com/BMustafa97/serverless-snacks/internal/services/order/create"
	orderRetrievalService "github.com/BMustafa97/serverless-snacks/internal/services/order/get"
	"github.com/BMustafa97/serverless-snacks/pkg/brokers/kafka/producer"
	"github.com/BMustafa97/serverless-snacks/pkg/databases/postgres"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

// Run wires and runs the order ingress: HTTP in, Postgres write, Kafka
// event out. All dependencies are constructed here and handed down
// explicitly; nothing reaches for ambient state.
func Run() {
	cfg := config.InitConfig()

	log := logger.NewSlogLogger(logger.SlogEnvironment(cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := setupDatabase(ctx, log, &cfg)

	repo := orderRepository.NewRepository(log, db.GetDB())

	events, err := producer.New(log, cfg.Kafka.BrokerList, cfg.Kafka.OrderEventTopic)
	if err != nil {
		panic(fmt.Sprintf("failed to create kafka producer: %v", err))
	}

	orderCreationSvc := orderCreationService.New(log, repo, events)
	orderRetrievalSvc := orderRetrievalService.New(log, setupCache(&cfg.Cache), repo)

	httpServer := httpapp.NewApp(
		log,
		createHandler.NewHandler(log, orderCreationSvc),
		getHandler.NewHandler(log, orderRetrievalSvc),
		cfg.HTTP.Port,
	)

	go httpServer.RunWithPanic()

	log.Info("http server started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	log.Info("stopping ingress")

	if err = httpServer.Stop(); err != nil {
		panic(fmt.Sprintf("failed to shutdown http server: %v", err))
	}

	if err = events.Close(); err != nil {
		panic(fmt.Sprintf("failed to close kafka producer: %v", err))
	}

	if err = db.Close(); err != nil {
		panic(fmt.Sprintf("failed to close postgres: %v", err))
	}

	log.Info("ingress stopped")
}

func postgresDSN(psqlCfg *config.PostgresConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		psqlCfg.Host, psqlCfg.Port, psqlCfg.User, psqlCfg.DbName, psqlCfg.Pwd, psqlCfg.SslMode)
}

func setupDatabase(ctx context.Context, log logger.Logger, cfg *config.Config) *postgres.PgDB {
	postgresDB, err := postgres.NewPostgresDB(ctx, log, postgresDSN(&cfg.Postgres))
	if err != nil {
		panic(fmt.Sprintf("failed to connect to postgres: %v", err))
	}

	return postgresDB
}

func setupCache(cfg *config.CacheConfig) *expirable.LRU[string, *models.Order] {
	return expirable.NewLRU[string, *models.Order](cfg.Size, nil, cfg.TTL)
}
