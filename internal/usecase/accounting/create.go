package accounting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

func (uc *DefaultAccountingUsecase) Create(ctx context.Context, applicationID, gateway string, scheduleDate time.Time) (*domain.Accounting, []*domain.Payout, error) {
	app, err := uc.AppRepo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if gateway == "" {
		gateway = app.DefaultGateway
	}

	accounting, payouts, err := uc.AccountingRepo.CreateAccounting(ctx, applicationID, gateway, scheduleDate)
	if err != nil {
		uc.Metrics.RecordError("accounting_create")
		return nil, nil, err
	}

	slog.Info("accounting created",
		"accounting_id", accounting.ID,
		"application_id", applicationID,
		"gateway", gateway,
		"payouts", len(payouts),
	)

	return accounting, payouts, nil
}

func (uc *DefaultAccountingUsecase) Finish(ctx context.Context, accountingID string) (*domain.Accounting, error) {
	payouts, err := uc.PayoutRepo.ListPayoutsByAccounting(ctx, accountingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanFinishAccounting(payouts) {
		return nil, fmt.Errorf("accounting %s: %w", accountingID, domain.ErrAccountingUnfinished)
	}

	accounting, err := uc.AccountingRepo.FinishAccounting(ctx, accountingID)
	if err != nil {
		uc.Metrics.RecordError("accounting_finish")
		return nil, err
	}

	slog.Info("accounting finished", "accounting_id", accounting.ID, "application_id", accounting.ApplicationID)
	return accounting, nil
}
