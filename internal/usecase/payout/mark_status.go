package payout

import (
	"context"
	"log/slog"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/notifier"
)

func (uc *DefaultPayoutUsecase) MarkPayoutStatus(ctx context.Context, status domain.PayoutStatus, applicationID, payoutID string) (*domain.SettlementEvent, error) {
	if status != domain.PayoutFinish && status != domain.PayoutFailed {
		return nil, domain.ErrPayoutBadStatus
	}

	p, err := uc.PayoutRepo.GetPayoutByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if p.ApplicationID != applicationID {
		return nil, domain.ErrPayoutWrongTenant
	}
	if p.Status != domain.PayoutInProcess {
		return nil, domain.ErrPayoutNotInProcess
	}

	eventType := domain.EventPayoutSucceeded
	if status == domain.PayoutFailed {
		eventType = domain.EventPayoutFailed
	}

	event := domain.SettlementEvent{
		Type:          eventType,
		ApplicationID: applicationID,
		AccountingID:  p.AccountingID,
		PayoutID:      p.ID,
		Total:         p.Total,
		Currency:      p.Currency,
		Reason:        "manual status correction",
		OccurredAt:    time.Now(),
	}

	if err := uc.Publisher.PublishSettlement(ctx, event); err != nil {
		uc.Metrics.RecordError("payout_mark_status")
		return nil, err
	}

	if app, err := uc.AppRepo.GetApplicationByID(ctx, applicationID); err == nil && app.CallbackURL != "" {
		notifier.SendCallback(app.CallbackURL, notifier.CallbackPayload{
			Event:        string(eventType),
			AccountingID: p.AccountingID,
			PayoutID:     p.ID,
			Status:       string(status),
			Total:        p.Total,
			Currency:     p.Currency,
			Reason:       event.Reason,
		})
	}

	slog.Info("payout status corrected manually",
		"payout_id", payoutID,
		"application_id", applicationID,
		"status", status,
	)

	return &event, nil
}
