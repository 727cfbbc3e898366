package payout

import (
	"context"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/metrics"
)

type PayoutUsecase interface {
	// MarkPayoutStatus records a manual status correction for a payout that a
	// gateway callback never resolved. It publishes the matching event only;
	// the stored row is left untouched.
	MarkPayoutStatus(ctx context.Context, status domain.PayoutStatus, applicationID, payoutID string) (*domain.SettlementEvent, error)

	// ReportStuckPayouts surfaces payouts still in_process past olderThan.
	ReportStuckPayouts(ctx context.Context, olderThan time.Duration) ([]*domain.Payout, error)
}

type DefaultPayoutUsecase struct {
	PayoutRepo domain.PayoutRepository
	AppRepo    domain.ApplicationRepository
	Publisher  domain.EventPublisher
	Metrics    *metrics.SettlementMetrics
}

func NewDefaultPayoutUsecase(
	payoutRepo domain.PayoutRepository,
	appRepo domain.ApplicationRepository,
	eventPublisher domain.EventPublisher,
	settlementMetrics *metrics.SettlementMetrics) *DefaultPayoutUsecase {

	return &DefaultPayoutUsecase{
		PayoutRepo: payoutRepo,
		AppRepo:    appRepo,
		Publisher:  eventPublisher,
		Metrics:    settlementMetrics,
	}
}
