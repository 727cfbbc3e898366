package transfer

import (
	"context"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/metrics"
)

type TransferUsecase interface {
	// UndoConfirm reverts a mistakenly confirmed transfer back to an editable
	// state, together with its member orders and detail rows.
	UndoConfirm(ctx context.Context, transferID string) (*domain.TransferRevert, error)

	// PickOff removes one order from an in-flight transfer without reverting
	// the whole batch.
	PickOff(ctx context.Context, transferID, orderID string) (*domain.PickOffResult, error)

	// Confirm settles a transfer and approves its detail rows.
	Confirm(ctx context.Context, transferID string) (*domain.OrderTransfer, error)

	// PackOrders groups an application's loose unconfirmed orders into new
	// transfers.
	PackOrders(ctx context.Context, applicationID string) ([]*domain.OrderTransfer, error)

	// PackAllApplications runs PackOrders for every tenant. Used by the
	// auto-pack background task.
	PackAllApplications(ctx context.Context) error

	// Inspect loads a transfer together with its member orders.
	Inspect(ctx context.Context, transferID string) (*domain.OrderTransfer, []*domain.Order, error)
}

type DefaultTransferUsecase struct {
	TransferRepo domain.TransferRepository
	OrderRepo    domain.OrderRepository
	AppRepo      domain.ApplicationRepository
	Publisher    domain.EventPublisher
	Metrics      *metrics.SettlementMetrics
}

func NewDefaultTransferUsecase(
	transferRepo domain.TransferRepository,
	orderRepo domain.OrderRepository,
	appRepo domain.ApplicationRepository,
	eventPublisher domain.EventPublisher,
	settlementMetrics *metrics.SettlementMetrics) *DefaultTransferUsecase {

	return &DefaultTransferUsecase{
		TransferRepo: transferRepo,
		OrderRepo:    orderRepo,
		AppRepo:      appRepo,
		Publisher:    eventPublisher,
		Metrics:      settlementMetrics,
	}
}
