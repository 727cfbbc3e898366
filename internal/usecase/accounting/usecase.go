package accounting

import (
	"context"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/metrics"
)

// GatewayResolver picks the concrete payout gateway for a run. Satisfied by
// gateway.Registry.
type GatewayResolver interface {
	Resolve(app *domain.Application, accounting *domain.Accounting, override string) (domain.PayoutGateway, error)
}

type AccountingUsecase interface {
	// Create builds a draft accounting from the application's settled
	// transfers and generates its payouts.
	Create(ctx context.Context, applicationID, gateway string, scheduleDate time.Time) (*domain.Accounting, []*domain.Payout, error)

	// ExecutePayouts drives an accounting's scan-passed payouts through the
	// resolved gateway. overrideGateway may name an explicit rail.
	ExecutePayouts(ctx context.Context, accountingID, overrideGateway string) (*domain.PayoutRun, error)

	// Finish marks the accounting in_finish; refuses while payouts remain
	// in_process.
	Finish(ctx context.Context, accountingID string) (*domain.Accounting, error)

	// SweepScheduled notifies owners of scheduled accountings whose date has
	// arrived and deletes the ones whose date has passed. Tenants are only
	// processed at their local midnight.
	SweepScheduled(ctx context.Context, now time.Time) (*SweepSummary, error)
}

// SweepSummary lists the accountings affected by one expiry sweep run.
type SweepSummary struct {
	Approaching []string
	Expired     []string
}

type DefaultAccountingUsecase struct {
	AccountingRepo domain.AccountingRepository
	AppRepo        domain.ApplicationRepository
	PayoutRepo     domain.PayoutRepository
	Gateways       GatewayResolver
	Publisher      domain.EventPublisher
	Metrics        *metrics.SettlementMetrics
}

func NewDefaultAccountingUsecase(
	accountingRepo domain.AccountingRepository,
	appRepo domain.ApplicationRepository,
	payoutRepo domain.PayoutRepository,
	gateways GatewayResolver,
	eventPublisher domain.EventPublisher,
	settlementMetrics *metrics.SettlementMetrics) *DefaultAccountingUsecase {

	return &DefaultAccountingUsecase{
		AccountingRepo: accountingRepo,
		AppRepo:        appRepo,
		PayoutRepo:     payoutRepo,
		Gateways:       gateways,
		Publisher:      eventPublisher,
		Metrics:        settlementMetrics,
	}
}
