package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/metrics"
)

var testMetrics = metrics.NewSettlementMetrics()

type stubTransferRepo struct {
	revert     *domain.TransferRevert
	pickOff    *domain.PickOffResult
	confirmed  *domain.OrderTransfer
	packed     []*domain.OrderTransfer
	err        error
	packedApps []string
}

func (s *stubTransferRepo) GetTransferByID(ctx context.Context, transferID string) (*domain.OrderTransfer, error) {
	return nil, s.err
}

func (s *stubTransferRepo) RevertTransfer(ctx context.Context, transferID string) (*domain.TransferRevert, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.revert, nil
}

func (s *stubTransferRepo) PickOffOrder(ctx context.Context, transferID, orderID string) (*domain.PickOffResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pickOff, nil
}

func (s *stubTransferRepo) ConfirmTransfer(ctx context.Context, transferID string) (*domain.OrderTransfer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.confirmed, nil
}

func (s *stubTransferRepo) PackOrders(ctx context.Context, applicationID string) ([]*domain.OrderTransfer, error) {
	s.packedApps = append(s.packedApps, applicationID)
	if s.err != nil {
		return nil, s.err
	}
	return s.packed, nil
}

type stubOrderRepo struct {
	orders []*domain.Order
}

func (s *stubOrderRepo) GetOrderByID(orderID string) (*domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, errors.New("order not found")
}

func (s *stubOrderRepo) GetOrdersByTransferID(transferID string) ([]*domain.Order, error) {
	return s.orders, nil
}

func (s *stubOrderRepo) GetUnpackedOrders(applicationID string) ([]*domain.Order, error) {
	return s.orders, nil
}

type stubAppRepo struct {
	apps []*domain.Application
	err  error
}

func (s *stubAppRepo) GetApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	for _, app := range s.apps {
		if app.ID == applicationID {
			return app, nil
		}
	}
	return nil, errors.New("application not found")
}

func (s *stubAppRepo) ListApplications(ctx context.Context) ([]*domain.Application, error) {
	return s.apps, s.err
}

type recordingPublisher struct {
	events []domain.SettlementEvent
	err    error
}

func (p *recordingPublisher) PublishSettlement(ctx context.Context, events ...domain.SettlementEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

func TestUndoConfirmPublishesRevertEvent(t *testing.T) {
	repo := &stubTransferRepo{
		revert: &domain.TransferRevert{
			Transfer: &domain.OrderTransfer{
				ID:            "tr-1",
				ApplicationID: "app-1",
				Status:        domain.TransferUnconfirm,
				Total:         250,
				Currency:      "USD",
			},
			Audit: []domain.DetailAudit{
				{OrderID: "o1", From: domain.DetailApproved, To: domain.DetailChecking},
			},
		},
	}
	pub := &recordingPublisher{}
	uc := NewDefaultTransferUsecase(repo, &stubOrderRepo{}, &stubAppRepo{}, pub, testMetrics)

	revert, err := uc.UndoConfirm(context.Background(), "tr-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransferUnconfirm, revert.Transfer.Status)
	require.Len(t, revert.Audit, 1)

	// event is on the wire before the call returns, so a caller that exits
	// immediately afterwards cannot lose it
	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, domain.EventTransferReverted, event.Type)
	assert.Equal(t, "app-1", event.ApplicationID)
	assert.Equal(t, "tr-1", event.TransferID)
	assert.Equal(t, 250.0, event.Total)
}

func TestUndoConfirmPropagatesRepoError(t *testing.T) {
	repo := &stubTransferRepo{err: domain.ErrTransferNotRevertible}
	pub := &recordingPublisher{}
	uc := NewDefaultTransferUsecase(repo, &stubOrderRepo{}, &stubAppRepo{}, pub, testMetrics)

	_, err := uc.UndoConfirm(context.Background(), "tr-1")
	require.ErrorIs(t, err, domain.ErrTransferNotRevertible)
	assert.Empty(t, pub.events)
}

func TestConfirmPublishesBeforeReturning(t *testing.T) {
	repo := &stubTransferRepo{
		confirmed: &domain.OrderTransfer{
			ID:            "tr-1",
			ApplicationID: "app-1",
			Status:        domain.TransferSettled,
			Total:         300,
			Currency:      "USD",
		},
	}
	pub := &recordingPublisher{}
	uc := NewDefaultTransferUsecase(repo, &stubOrderRepo{}, &stubAppRepo{}, pub, testMetrics)

	transfer, err := uc.Confirm(context.Background(), "tr-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransferSettled, transfer.Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventTransferConfirmed, pub.events[0].Type)
	assert.Equal(t, "tr-1", pub.events[0].TransferID)
}

func TestPickOffPublishesOrderEvent(t *testing.T) {
	repo := &stubTransferRepo{
		pickOff: &domain.PickOffResult{
			Transfer: &domain.OrderTransfer{ID: "tr-1", ApplicationID: "app-1", Total: 100, Currency: "USD"},
			Order:    &domain.Order{ID: "o2", Status: domain.OrderCancelled, Total: 50, Currency: "USD"},
		},
	}
	pub := &recordingPublisher{}
	uc := NewDefaultTransferUsecase(repo, &stubOrderRepo{}, &stubAppRepo{}, pub, testMetrics)

	result, err := uc.PickOff(context.Background(), "tr-1", "o2")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, result.Order.Status)

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, domain.EventOrderPickedOff, event.Type)
	assert.Equal(t, "o2", event.OrderID)
	assert.Equal(t, 50.0, event.Total)
}

func TestPackAllApplicationsContinuesAfterTenantError(t *testing.T) {
	repo := &stubTransferRepo{err: errors.New("deadlock detected")}
	apps := &stubAppRepo{apps: []*domain.Application{
		{ID: "app-1"},
		{ID: "app-2"},
	}}
	uc := NewDefaultTransferUsecase(repo, &stubOrderRepo{}, apps, &recordingPublisher{}, testMetrics)

	err := uc.PackAllApplications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app-1", "app-2"}, repo.packedApps)
}
