package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlpay/settlement-service/internal/domain"
)

type namedGateway struct {
	name string
}

func (g *namedGateway) Name() string       { return g.name }
func (g *namedGateway) DateFormat() string { return "2006-01-02" }

func (g *namedGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	return nil, nil
}

func newTestRegistry() *Registry {
	return NewRegistry(
		NewSandboxGateway(),
		&namedGateway{name: "cathay"},
		&namedGateway{name: "tink"},
	)
}

func TestResolveSandboxTenantAlwaysGetsSandbox(t *testing.T) {
	r := newTestRegistry()
	app := &domain.Application{ID: "app-1", Environment: domain.EnvironmentSandbox, DefaultGateway: "cathay"}
	accounting := &domain.Accounting{ID: "acc-1", Gateway: "tink"}

	gw, err := r.Resolve(app, accounting, "cathay")
	require.NoError(t, err)
	assert.Equal(t, "sandbox", gw.Name())
}

func TestResolveTestAccountingGetsSandbox(t *testing.T) {
	r := newTestRegistry()
	app := &domain.Application{ID: "app-1", Environment: "production", DefaultGateway: "cathay"}
	accounting := &domain.Accounting{ID: "acc-1", IsTest: true}

	gw, err := r.Resolve(app, accounting, "")
	require.NoError(t, err)
	assert.Equal(t, "sandbox", gw.Name())
}

func TestResolvePrecedence(t *testing.T) {
	r := newTestRegistry()
	app := &domain.Application{ID: "app-1", Environment: "production", DefaultGateway: "cathay"}

	t.Run("override wins", func(t *testing.T) {
		accounting := &domain.Accounting{ID: "acc-1", Gateway: "cathay"}
		gw, err := r.Resolve(app, accounting, "tink")
		require.NoError(t, err)
		assert.Equal(t, "tink", gw.Name())
	})

	t.Run("accounting gateway next", func(t *testing.T) {
		accounting := &domain.Accounting{ID: "acc-1", Gateway: "tink"}
		gw, err := r.Resolve(app, accounting, "")
		require.NoError(t, err)
		assert.Equal(t, "tink", gw.Name())
	})

	t.Run("application default last", func(t *testing.T) {
		accounting := &domain.Accounting{ID: "acc-1"}
		gw, err := r.Resolve(app, accounting, "")
		require.NoError(t, err)
		assert.Equal(t, "cathay", gw.Name())
	})
}

func TestResolveUnknownGatewayRefused(t *testing.T) {
	r := newTestRegistry()
	app := &domain.Application{ID: "app-1", Environment: "production", DefaultGateway: "cathay"}
	accounting := &domain.Accounting{ID: "acc-1"}

	_, err := r.Resolve(app, accounting, "western-union")
	require.ErrorIs(t, err, domain.ErrUnknownGateway)
}

func TestSandboxGatewayFinishesEverything(t *testing.T) {
	gw := NewSandboxGateway()
	payouts := []*domain.Payout{
		{ID: "p1", Status: domain.PayoutInProcess},
		{ID: "p2", Status: domain.PayoutInProcess},
	}

	results, err := gw.SubmitBatch(context.Background(), &domain.Accounting{ID: "acc-1"}, payouts, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, domain.PayoutFinish, res.Status)
		assert.NotEmpty(t, res.ExternalPaymentID)
	}
}
