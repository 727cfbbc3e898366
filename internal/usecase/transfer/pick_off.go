package transfer

import (
	"context"
	"log/slog"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

func (uc *DefaultTransferUsecase) PickOff(ctx context.Context, transferID, orderID string) (*domain.PickOffResult, error) {
	result, err := uc.TransferRepo.PickOffOrder(ctx, transferID, orderID)
	if err != nil {
		uc.Metrics.RecordError("pick_off")
		return nil, err
	}

	slog.Info("order picked off transfer",
		"transfer_id", result.Transfer.ID,
		"order_id", result.Order.ID,
		"new_total", result.Transfer.Total,
	)

	event := domain.SettlementEvent{
		Type:          domain.EventOrderPickedOff,
		ApplicationID: result.Transfer.ApplicationID,
		TransferID:    result.Transfer.ID,
		OrderID:       result.Order.ID,
		Total:         result.Order.Total,
		Currency:      result.Order.Currency,
		OccurredAt:    time.Now(),
	}
	if err := uc.Publisher.PublishSettlement(ctx, event); err != nil {
		uc.Metrics.RecordError("pick_off")
		slog.Error("failed to publish pick-off event", "order_id", orderID, "error", err.Error())
	}

	uc.Metrics.RecordOrderPickedOff(result.Transfer.ApplicationID)

	return result, nil
}
