package payout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/metrics"
)

var testMetrics = metrics.NewSettlementMetrics()

type stubPayoutRepo struct {
	payouts map[string]*domain.Payout
	stuck   []*domain.Payout
	err     error
}

func (s *stubPayoutRepo) GetPayoutByID(ctx context.Context, payoutID string) (*domain.Payout, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.payouts[payoutID]
	if !ok {
		return nil, domain.ErrPayoutNotInProcess
	}
	return p, nil
}

func (s *stubPayoutRepo) ListPayoutsByAccounting(ctx context.Context, accountingID string) ([]*domain.Payout, error) {
	return nil, nil
}

func (s *stubPayoutRepo) FindStuckPayouts(ctx context.Context, olderThan time.Duration) ([]*domain.Payout, error) {
	return s.stuck, s.err
}

type stubAppRepo struct {
	apps []*domain.Application
}

func (s *stubAppRepo) GetApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	for _, app := range s.apps {
		if app.ID == applicationID {
			return app, nil
		}
	}
	return nil, domain.ErrPayoutWrongTenant
}

func (s *stubAppRepo) ListApplications(ctx context.Context) ([]*domain.Application, error) {
	return s.apps, nil
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

func TestMarkPayoutStatusPublishesEventOnly(t *testing.T) {
	p := &domain.Payout{
		ID:            "p1",
		AccountingID:  "acc-1",
		ApplicationID: "app-1",
		Total:         75,
		Currency:      "USD",
		Status:        domain.PayoutInProcess,
	}
	repo := &stubPayoutRepo{payouts: map[string]*domain.Payout{"p1": p}}
	pub := &recordingPublisher{}
	uc := NewDefaultPayoutUsecase(repo, &stubAppRepo{}, pub, testMetrics)

	event, err := uc.MarkPayoutStatus(context.Background(), domain.PayoutFinish, "app-1", "p1")
	require.NoError(t, err)

	assert.Equal(t, domain.EventPayoutSucceeded, event.Type)
	assert.Equal(t, "acc-1", event.AccountingID)
	assert.Equal(t, 75.0, event.Total)
	require.Len(t, pub.events, 1)

	// the stored payout is untouched, only the event stream moves
	assert.Equal(t, domain.PayoutInProcess, p.Status)
}

func TestMarkPayoutStatusFailedMapsToFailureEvent(t *testing.T) {
	p := &domain.Payout{ID: "p1", ApplicationID: "app-1", Status: domain.PayoutInProcess}
	repo := &stubPayoutRepo{payouts: map[string]*domain.Payout{"p1": p}}
	pub := &recordingPublisher{}
	uc := NewDefaultPayoutUsecase(repo, &stubAppRepo{}, pub, testMetrics)

	event, err := uc.MarkPayoutStatus(context.Background(), domain.PayoutFailed, "app-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventPayoutFailed, event.Type)
}

func TestMarkPayoutStatusRefusals(t *testing.T) {
	terminal := &domain.Payout{ID: "p-done", ApplicationID: "app-1", Status: domain.PayoutFinish}
	inProcess := &domain.Payout{ID: "p-live", ApplicationID: "app-1", Status: domain.PayoutInProcess}
	repo := &stubPayoutRepo{payouts: map[string]*domain.Payout{
		"p-done": terminal,
		"p-live": inProcess,
	}}
	pub := &recordingPublisher{}
	uc := NewDefaultPayoutUsecase(repo, &stubAppRepo{}, pub, testMetrics)

	t.Run("terminal payout", func(t *testing.T) {
		_, err := uc.MarkPayoutStatus(context.Background(), domain.PayoutFinish, "app-1", "p-done")
		assert.ErrorIs(t, err, domain.ErrPayoutNotInProcess)
	})

	t.Run("wrong tenant", func(t *testing.T) {
		_, err := uc.MarkPayoutStatus(context.Background(), domain.PayoutFinish, "app-2", "p-live")
		assert.ErrorIs(t, err, domain.ErrPayoutWrongTenant)
	})

	t.Run("non-terminal target status", func(t *testing.T) {
		_, err := uc.MarkPayoutStatus(context.Background(), domain.PayoutInProcess, "app-1", "p-live")
		assert.ErrorIs(t, err, domain.ErrPayoutBadStatus)
	})

	assert.Empty(t, pub.events)
}

func TestReportStuckPayoutsGroupsByTenant(t *testing.T) {
	repo := &stubPayoutRepo{stuck: []*domain.Payout{
		{ID: "p1", ApplicationID: "app-1", Status: domain.PayoutInProcess},
		{ID: "p2", ApplicationID: "app-1", Status: domain.PayoutInProcess},
		{ID: "p3", ApplicationID: "app-2", Status: domain.PayoutInProcess},
	}}
	uc := NewDefaultPayoutUsecase(repo, &stubAppRepo{}, &recordingPublisher{}, testMetrics)

	stuck, err := uc.ReportStuckPayouts(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, stuck, 3)
}
