package transfer

import (
	"context"
	"log/slog"

	"github.com/owlpay/settlement-service/internal/domain"
)

func (uc *DefaultTransferUsecase) PackOrders(ctx context.Context, applicationID string) ([]*domain.OrderTransfer, error) {
	transfers, err := uc.TransferRepo.PackOrders(ctx, applicationID)
	if err != nil {
		uc.Metrics.RecordError("pack")
		return nil, err
	}
	if len(transfers) == 0 {
		return nil, nil
	}

	ids := make([]string, len(transfers))
	for i, t := range transfers {
		ids[i] = t.ID
	}
	slog.Info("orders packed into transfers", "application_id", applicationID, "transfer_ids", ids)

	uc.Metrics.RecordTransfersPacked(applicationID, len(transfers))

	return transfers, nil
}

func (uc *DefaultTransferUsecase) PackAllApplications(ctx context.Context) error {
	apps, err := uc.AppRepo.ListApplications(ctx)
	if err != nil {
		return err
	}

	for _, app := range apps {
		if _, err := uc.PackOrders(ctx, app.ID); err != nil {
			slog.Error("auto-pack failed", "application_id", app.ID, "error", err.Error())
		}
	}

	return nil
}
