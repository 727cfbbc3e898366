package gateway

import (
	"fmt"

	"github.com/owlpay/settlement-service/internal/domain"
)

// Registry resolves the concrete gateway for a payout run. Sandbox tenants
// and test accountings always get the sandbox gateway, an explicit override
// must name a registered gateway, otherwise the accounting's own gateway or
// the application default is used.
type Registry struct {
	gateways map[string]domain.PayoutGateway
	sandbox  domain.PayoutGateway
}

func NewRegistry(sandbox domain.PayoutGateway, gateways ...domain.PayoutGateway) *Registry {
	byName := make(map[string]domain.PayoutGateway, len(gateways))
	for _, gw := range gateways {
		byName[gw.Name()] = gw
	}
	return &Registry{gateways: byName, sandbox: sandbox}
}

func (r *Registry) Resolve(app *domain.Application, accounting *domain.Accounting, override string) (domain.PayoutGateway, error) {
	if app.Environment == domain.EnvironmentSandbox || accounting.IsTest {
		return r.sandbox, nil
	}

	name := override
	if name == "" {
		name = accounting.Gateway
	}
	if name == "" {
		name = app.DefaultGateway
	}

	gw, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("gateway %q: %w", name, domain.ErrUnknownGateway)
	}
	return gw, nil
}
