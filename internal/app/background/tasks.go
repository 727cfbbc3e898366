package background

import (
	"context"
	"log"
	"time"

	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/usecase/accounting"
	"github.com/owlpay/settlement-service/internal/usecase/payout"
	"github.com/owlpay/settlement-service/internal/usecase/transfer"
)

type BackgroundTasks struct {
	TransferUsecase   transfer.TransferUsecase
	AccountingUsecase accounting.AccountingUsecase
	PayoutUsecase     payout.PayoutUsecase
	Cfg               config.BackgroundConfig
}

func NewBackgroundTasks(
	transferUC transfer.TransferUsecase,
	accountingUC accounting.AccountingUsecase,
	payoutUC payout.PayoutUsecase,
	cfg config.BackgroundConfig) *BackgroundTasks {

	return &BackgroundTasks{
		TransferUsecase:   transferUC,
		AccountingUsecase: accountingUC,
		PayoutUsecase:     payoutUC,
		Cfg:               cfg,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startAutoPack(ctx)
	go bt.startExpirySweep(ctx)
	go bt.startStuckPayoutMonitor(ctx)
}

func (bt *BackgroundTasks) startAutoPack(ctx context.Context) {
	ticker := time.NewTicker(bt.Cfg.PackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.TransferUsecase.PackAllApplications(ctx); err != nil {
				log.Printf("Auto-pack error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startExpirySweep(ctx context.Context) {
	ticker := time.NewTicker(bt.Cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.AccountingUsecase.SweepScheduled(ctx, time.Now()); err != nil {
				log.Printf("Expiry sweep error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startStuckPayoutMonitor(ctx context.Context) {
	ticker := time.NewTicker(bt.Cfg.StuckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.PayoutUsecase.ReportStuckPayouts(ctx, bt.Cfg.StuckPayoutAge); err != nil {
				log.Printf("Stuck payout check error: %v\n", err)
			}
		}
	}
}
