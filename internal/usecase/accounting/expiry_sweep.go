package accounting

import (
	"context"
	"log/slog"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

func (uc *DefaultAccountingUsecase) SweepScheduled(ctx context.Context, now time.Time) (*SweepSummary, error) {
	apps, err := uc.AppRepo.ListApplications(ctx)
	if err != nil {
		return nil, err
	}

	summary := &SweepSummary{}
	var events []domain.SettlementEvent

	for _, app := range apps {
		atMidnight, err := domain.AtLocalMidnight(app.Timezone, now)
		if err != nil {
			slog.Error("sweep skipped tenant", "application_id", app.ID, "error", err.Error())
			uc.Metrics.RecordError("expiry_sweep")
			continue
		}
		if !atMidnight {
			continue
		}

		loc, _ := time.LoadLocation(app.Timezone)
		today := now.In(loc)

		accountings, err := uc.AccountingRepo.ListScheduledAccountings(ctx, app.ID)
		if err != nil {
			slog.Error("sweep failed to list accountings", "application_id", app.ID, "error", err.Error())
			uc.Metrics.RecordError("expiry_sweep")
			continue
		}

		for _, acc := range accountings {
			switch domain.ClassifySchedule(acc.ScheduleDate, today) {
			case domain.ScheduleDue:
				summary.Approaching = append(summary.Approaching, acc.ID)
				events = append(events, domain.SettlementEvent{
					Type:          domain.EventAccountingApproaching,
					ApplicationID: app.ID,
					AccountingID:  acc.ID,
					OccurredAt:    now,
				})
				uc.Metrics.RecordAccountingApproaching(app.ID)

			case domain.ScheduleExpired:
				if err := uc.AccountingRepo.DeleteAccounting(ctx, acc.ID); err != nil {
					slog.Error("failed to delete expired accounting", "accounting_id", acc.ID, "error", err.Error())
					uc.Metrics.RecordError("expiry_sweep")
					continue
				}
				summary.Expired = append(summary.Expired, acc.ID)
				events = append(events, domain.SettlementEvent{
					Type:          domain.EventAccountingExpired,
					ApplicationID: app.ID,
					AccountingID:  acc.ID,
					OccurredAt:    now,
				})
				uc.Metrics.RecordAccountingExpired(app.ID)

			case domain.ScheduleUpcoming:
				// Still in the future, leave untouched
			}
		}
	}

	if len(events) > 0 {
		if err := uc.Publisher.PublishSettlement(ctx, events...); err != nil {
			slog.Error("failed to publish sweep events", "error", err.Error())
		}
	}

	slog.Info("scheduled accounting sweep done",
		"approaching_ids", summary.Approaching,
		"expired_ids", summary.Expired,
	)

	return summary, nil
}
