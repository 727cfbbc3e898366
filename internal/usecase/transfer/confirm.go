package transfer

import (
	"context"
	"log/slog"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

func (uc *DefaultTransferUsecase) Confirm(ctx context.Context, transferID string) (*domain.OrderTransfer, error) {
	transfer, err := uc.TransferRepo.ConfirmTransfer(ctx, transferID)
	if err != nil {
		uc.Metrics.RecordError("confirm")
		return nil, err
	}

	event := domain.SettlementEvent{
		Type:          domain.EventTransferConfirmed,
		ApplicationID: transfer.ApplicationID,
		TransferID:    transfer.ID,
		Total:         transfer.Total,
		Currency:      transfer.Currency,
		OccurredAt:    time.Now(),
	}
	if err := uc.Publisher.PublishSettlement(ctx, event); err != nil {
		uc.Metrics.RecordError("confirm")
		slog.Error("failed to publish transfer confirmed event", "transfer_id", transferID, "error", err.Error())
	}

	uc.Metrics.RecordTransferConfirmed(transfer.ApplicationID)

	return transfer, nil
}
