package accounting

import (
	"context"
	"log/slog"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/notifier"
)

func (uc *DefaultAccountingUsecase) ExecutePayouts(ctx context.Context, accountingID, overrideGateway string) (*domain.PayoutRun, error) {
	accounting, err := uc.AccountingRepo.GetAccountingByID(ctx, accountingID)
	if err != nil {
		return nil, err
	}
	app, err := uc.AppRepo.GetApplicationByID(ctx, accounting.ApplicationID)
	if err != nil {
		return nil, err
	}

	gw, err := uc.Gateways.Resolve(app, accounting, overrideGateway)
	if err != nil {
		uc.Metrics.RecordError("payout_execute")
		return nil, err
	}

	// Execution date in the tenant's local time, formatted per the gateway's
	// own contract.
	now := time.Now()
	if loc, locErr := time.LoadLocation(app.Timezone); locErr != nil {
		slog.Warn("bad tenant timezone, using server time for execution date",
			"application_id", app.ID,
			"timezone", app.Timezone,
			"error", locErr.Error(),
		)
	} else {
		now = now.In(loc)
	}
	executeDate := now.Format(gw.DateFormat())

	start := time.Now()
	submitted := make(map[string]*domain.Payout)
	run, err := uc.AccountingRepo.ExecutePayouts(ctx, accountingID, func(acc *domain.Accounting, payouts []*domain.Payout) ([]domain.PayoutResult, error) {
		for _, p := range payouts {
			submitted[p.ID] = p
		}
		results, err := gw.SubmitBatch(ctx, acc, payouts, executeDate)
		if err != nil {
			return nil, err
		}
		acc.PayoutDate = executeDate
		return results, nil
	})
	if err != nil {
		uc.Metrics.RecordError("payout_execute")
		slog.Error("payout batch execution failed",
			"accounting_id", accountingID,
			"gateway", gw.Name(),
			"error", err.Error(),
		)
		return nil, err
	}
	run.Gateway = gw.Name()

	uc.Metrics.RecordPayoutBatchDuration(gw.Name(), time.Since(start).Seconds())

	events := make([]domain.SettlementEvent, 0, len(submitted)+len(run.Results))
	for _, p := range submitted {
		events = append(events, domain.SettlementEvent{
			Type:          domain.EventPayoutSubmitted,
			ApplicationID: accounting.ApplicationID,
			AccountingID:  accounting.ID,
			PayoutID:      p.ID,
			Total:         p.Total,
			Currency:      p.Currency,
			OccurredAt:    time.Now(),
		})
	}
	for _, res := range run.Results {
		eventType := domain.EventPayoutSucceeded
		if res.Status == domain.PayoutFailed {
			eventType = domain.EventPayoutFailed
		}
		event := domain.SettlementEvent{
			Type:          eventType,
			ApplicationID: accounting.ApplicationID,
			AccountingID:  accounting.ID,
			PayoutID:      res.PayoutID,
			Reason:        res.Reason,
			OccurredAt:    time.Now(),
		}
		if p, ok := submitted[res.PayoutID]; ok {
			event.Total = p.Total
			event.Currency = p.Currency
			if res.Status == domain.PayoutFinish {
				uc.Metrics.RecordPayoutAmount(accounting.ApplicationID, gw.Name(), p.Currency, p.Total)
			}
		}
		events = append(events, event)
		uc.Metrics.RecordPayoutExecuted(accounting.ApplicationID, gw.Name(), string(res.Status))
	}

	// Published before returning so the admin command cannot exit with the
	// terminal events still unsent.
	if err := uc.Publisher.PublishSettlement(ctx, events...); err != nil {
		uc.Metrics.RecordError("payout_execute")
		slog.Error("failed to publish payout events", "accounting_id", accountingID, "error", err.Error())
	}

	if app.CallbackURL != "" {
		for _, res := range run.Results {
			payload := notifier.CallbackPayload{
				Event:        "payout.status_changed",
				AccountingID: accounting.ID,
				PayoutID:     res.PayoutID,
				Status:       string(res.Status),
				Reason:       res.Reason,
			}
			if p, ok := submitted[res.PayoutID]; ok {
				payload.Total = p.Total
				payload.Currency = p.Currency
			}
			notifier.SendCallback(app.CallbackURL, payload)
		}
	}

	slog.Info("payout batch executed",
		"accounting_id", accountingID,
		"gateway", gw.Name(),
		"payout_date", executeDate,
		"payouts", len(run.Results),
	)

	return run, nil
}
