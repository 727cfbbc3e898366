package transfer

import (
	"context"
	"log/slog"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

func (uc *DefaultTransferUsecase) UndoConfirm(ctx context.Context, transferID string) (*domain.TransferRevert, error) {
	revert, err := uc.TransferRepo.RevertTransfer(ctx, transferID)
	if err != nil {
		uc.Metrics.RecordError("undo_confirm")
		return nil, err
	}

	// Audit trail: before/after status per detail row
	for _, a := range revert.Audit {
		slog.Info("transfer detail reverted",
			"transfer_id", revert.Transfer.ID,
			"order_id", a.OrderID,
			"from", a.From,
			"to", a.To,
		)
	}

	// Published before returning so short-lived callers cannot exit with the
	// event still unsent.
	event := domain.SettlementEvent{
		Type:          domain.EventTransferReverted,
		ApplicationID: revert.Transfer.ApplicationID,
		TransferID:    revert.Transfer.ID,
		Total:         revert.Transfer.Total,
		Currency:      revert.Transfer.Currency,
		OccurredAt:    time.Now(),
	}
	if err := uc.Publisher.PublishSettlement(ctx, event); err != nil {
		uc.Metrics.RecordError("undo_confirm")
		slog.Error("failed to publish transfer reverted event", "transfer_id", transferID, "error", err.Error())
	}

	uc.Metrics.RecordTransferReverted(revert.Transfer.ApplicationID)

	return revert, nil
}
