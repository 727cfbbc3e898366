package transfer

import (
	"context"

	"github.com/owlpay/settlement-service/internal/domain"
)

func (uc *DefaultTransferUsecase) Inspect(ctx context.Context, transferID string) (*domain.OrderTransfer, []*domain.Order, error) {
	t, err := uc.TransferRepo.GetTransferByID(ctx, transferID)
	if err != nil {
		return nil, nil, err
	}
	orders, err := uc.OrderRepo.GetOrdersByTransferID(transferID)
	if err != nil {
		return nil, nil, err
	}
	return t, orders, nil
}
