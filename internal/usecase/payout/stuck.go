package payout

import (
	"context"
	"log/slog"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

func (uc *DefaultPayoutUsecase) ReportStuckPayouts(ctx context.Context, olderThan time.Duration) ([]*domain.Payout, error) {
	stuck, err := uc.PayoutRepo.FindStuckPayouts(ctx, olderThan)
	if err != nil {
		uc.Metrics.RecordError("stuck_monitor")
		return nil, err
	}

	perApp := make(map[string]int)
	for _, p := range stuck {
		perApp[p.ApplicationID]++
	}
	for appID, count := range perApp {
		uc.Metrics.RecordStuckPayouts(appID, count)
		slog.Warn("payouts stuck in_process",
			"application_id", appID,
			"count", count,
			"older_than", olderThan.String(),
		)
	}

	return stuck, nil
}
