package gateway

import (
	"context"

	"github.com/owlpay/settlement-service/internal/domain"
)

// SandboxGateway finishes every payout synchronously without touching any
// external rail. Used for sandbox tenants and test accountings.
type SandboxGateway struct{}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{}
}

func (g *SandboxGateway) Name() string {
	return "sandbox"
}

func (g *SandboxGateway) DateFormat() string {
	return "2006-01-02"
}

func (g *SandboxGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	results := make([]domain.PayoutResult, len(payouts))
	for i, p := range payouts {
		results[i] = domain.PayoutResult{
			PayoutID:          p.ID,
			Status:            domain.PayoutFinish,
			ExternalPaymentID: "sandbox-" + p.ID,
		}
	}
	return results, nil
}
