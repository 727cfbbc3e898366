package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/owlpay/settlement-service/internal/app/background"
	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/infrastructure/gateway"
	publisher "github.com/owlpay/settlement-service/internal/infrastructure/kafka"
	"github.com/owlpay/settlement-service/internal/infrastructure/metrics"
	"github.com/owlpay/settlement-service/internal/infrastructure/migrate"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/repository"
	accountinguc "github.com/owlpay/settlement-service/internal/usecase/accounting"
	payoutuc "github.com/owlpay/settlement-service/internal/usecase/payout"
	transferuc "github.com/owlpay/settlement-service/internal/usecase/transfer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if err := migrate.RunMigrations(db, cfg.SettlementDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers, publisher.Topics{
		Settlement: cfg.KafkaService.SettlementTopic,
		Payout:     cfg.KafkaService.PayoutTopic,
	})
	defer pub.Close()

	settlementMetrics := metrics.NewSettlementMetrics()

	// Init repos
	transferRepo := repository.NewDefaultTransferRepository(db)
	orderRepo := repository.NewDefaultOrderRepository(db)
	accountingRepo := repository.NewDefaultAccountingRepository(db)
	payoutRepo := repository.NewDefaultPayoutRepository(db)
	appRepo := repository.NewDefaultApplicationRepository(db)

	// Init payout gateways
	gatewayRegistry := gateway.NewRegistry(
		gateway.NewSandboxGateway(),
		gateway.NewCathayGateway(cfg.Gateways.Cathay),
		gateway.NewCRBGateway(cfg.Gateways.CRB),
		gateway.NewFiservGateway(cfg.Gateways.Fiserv),
		gateway.NewTinkGateway(cfg.Gateways.Tink),
		gateway.NewNiumGateway(cfg.Gateways.Nium),
		gateway.NewVisaGateway(cfg.Gateways.Visa),
	)

	// Init usecases
	transferUC := transferuc.NewDefaultTransferUsecase(transferRepo, orderRepo, appRepo, pub, settlementMetrics)
	accountingUC := accountinguc.NewDefaultAccountingUsecase(accountingRepo, appRepo, payoutRepo, gatewayRegistry, pub, settlementMetrics)
	payoutUC := payoutuc.NewDefaultPayoutUsecase(payoutRepo, appRepo, pub, settlementMetrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background workers
	tasks := background.NewBackgroundTasks(transferUC, accountingUC, payoutUC, cfg.Background)
	tasks.StartAll(ctx)

	// Metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: mux,
	}

	go func() {
		log.Printf("settlement-service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	os.Exit(0)
}
