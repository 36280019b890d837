package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	httpdelivery "github.com/LavaJover/shvark-escrow-service/internal/delivery/http"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/clock"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/events"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/ledger"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.EscrowDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.EscrowDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Events go to the durable outbox first, then to kafka.
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	kafkaPublisher := kafka.NewKafkaEventPublisher(brokers, cfg.KafkaService.Topic)
	defer kafkaPublisher.Close()
	outbox := logger.NewPGEventOutbox(db)
	publisher := events.NewFanoutPublisher(outbox, kafkaPublisher)

	// Init ledger client
	ledgerClient, err := ledger.NewHTTPLedgerClient(fmt.Sprintf("%s:%s", cfg.LedgerService.Host, cfg.LedgerService.Port))
	if err != nil {
		log.Fatalf("failed to init ledger client: %v", err)
	}

	systemClock := clock.SystemClock{}
	escrowMetrics := metrics.NewEscrowMetrics()

	// Init repos
	escrowRepo := repository.NewDefaultEscrowRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)
	arbiterRepo := repository.NewDefaultArbiterRepository(db)
	statsRepo := repository.NewDefaultStatsRepository(db)

	// Init usecases
	escrowUsecase := usecase.NewDefaultEscrowUsecase(
		escrowRepo,
		statsRepo,
		ledgerClient,
		systemClock,
		publisher,
		escrowMetrics,
		cfg.Protocol.OwnerAddress,
		cfg.Protocol.CustodyAddress,
	)
	disputeUsecase := usecase.NewDefaultDisputeUsecase(
		escrowRepo,
		disputeRepo,
		arbiterRepo,
		statsRepo,
		ledgerClient,
		systemClock,
		publisher,
		escrowMetrics,
		cfg.Protocol.OwnerAddress,
		cfg.Protocol.CustodyAddress,
		cfg.Protocol.EscalationPeriod,
	)
	arbiterUsecase := usecase.NewDefaultArbiterUsecase(
		arbiterRepo,
		systemClock,
		publisher,
		cfg.Protocol.OwnerAddress,
	)
	statsUsecase := usecase.NewDefaultStatsUsecase(statsRepo)

	router := httpdelivery.NewRouter(
		handlers.NewEscrowHandler(escrowUsecase),
		handlers.NewDisputeHandler(disputeUsecase),
		handlers.NewArbiterHandler(arbiterUsecase),
		handlers.NewStatsHandler(statsUsecase),
		cfg.Protocol.JWTSecret,
	)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("escrow service started on %s\n", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
