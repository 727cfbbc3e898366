package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/metrics"
)

var testMetrics = metrics.NewSettlementMetrics()

type stubAccountingRepo struct {
	accountings map[string]*domain.Accounting
	scheduled   map[string][]*domain.Accounting
	payouts     []*domain.Payout

	deleted    []string
	listedApps []string
	payoutDate string

	executeErr error
}

func (s *stubAccountingRepo) GetAccountingByID(ctx context.Context, accountingID string) (*domain.Accounting, error) {
	acc, ok := s.accountings[accountingID]
	if !ok {
		return nil, domain.ErrAccountingNotDue
	}
	return acc, nil
}

func (s *stubAccountingRepo) ListScheduledAccountings(ctx context.Context, applicationID string) ([]*domain.Accounting, error) {
	s.listedApps = append(s.listedApps, applicationID)
	return s.scheduled[applicationID], nil
}

func (s *stubAccountingRepo) DeleteAccounting(ctx context.Context, accountingID string) error {
	s.deleted = append(s.deleted, accountingID)
	return nil
}

func (s *stubAccountingRepo) CreateAccounting(ctx context.Context, applicationID, gateway string, scheduleDate time.Time) (*domain.Accounting, []*domain.Payout, error) {
	acc := &domain.Accounting{
		ID:            "acc-new",
		ApplicationID: applicationID,
		Status:        domain.AccountingDraft,
		Gateway:       gateway,
		ScheduleDate:  scheduleDate,
	}
	return acc, s.payouts, nil
}

func (s *stubAccountingRepo) ExecutePayouts(ctx context.Context, accountingID string, submit func(*domain.Accounting, []*domain.Payout) ([]domain.PayoutResult, error)) (*domain.PayoutRun, error) {
	if s.executeErr != nil {
		return nil, s.executeErr
	}
	acc := s.accountings[accountingID]
	results, err := submit(acc, s.payouts)
	if err != nil {
		return nil, err
	}
	s.payoutDate = acc.PayoutDate
	acc.Status = domain.AccountingInProcess
	return &domain.PayoutRun{Accounting: acc, Results: results}, nil
}

func (s *stubAccountingRepo) FinishAccounting(ctx context.Context, accountingID string) (*domain.Accounting, error) {
	acc := s.accountings[accountingID]
	acc.Status = domain.AccountingInFinish
	return acc, nil
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
	return nil, errors.New("application not found")
}

func (s *stubAppRepo) ListApplications(ctx context.Context) ([]*domain.Application, error) {
	return s.apps, nil
}

type stubPayoutRepo struct {
	payouts []*domain.Payout
}

func (s *stubPayoutRepo) GetPayoutByID(ctx context.Context, payoutID string) (*domain.Payout, error) {
	for _, p := range s.payouts {
		if p.ID == payoutID {
			return p, nil
		}
	}
	return nil, domain.ErrPayoutNotInProcess
}

func (s *stubPayoutRepo) ListPayoutsByAccounting(ctx context.Context, accountingID string) ([]*domain.Payout, error) {
	return s.payouts, nil
}

func (s *stubPayoutRepo) FindStuckPayouts(ctx context.Context, olderThan time.Duration) ([]*domain.Payout, error) {
	return nil, nil
}

type stubGateway struct {
	name    string
	results []domain.PayoutResult
	err     error
}

func (g *stubGateway) Name() string       { return g.name }
func (g *stubGateway) DateFormat() string { return "20060102" }

func (g *stubGateway) SubmitBatch(ctx context.Context, accounting *domain.Accounting, payouts []*domain.Payout, executeDate string) ([]domain.PayoutResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.results, nil
}

type stubResolver struct {
	gw  domain.PayoutGateway
	err error
}

func (r *stubResolver) Resolve(app *domain.Application, accounting *domain.Accounting, override string) (domain.PayoutGateway, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.gw, nil
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

func (p *recordingPublisher) eventsOfType(eventType domain.EventType) []domain.SettlementEvent {
	var matched []domain.SettlementEvent
	for _, e := range p.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

func TestSweepScheduledClassifiesByTenantCalendar(t *testing.T) {
	// 16:30 UTC on Jan 9 is 00:30 on Jan 10 in Taipei, so only the Taipei
	// tenant is swept.
	now := time.Date(2024, 1, 9, 16, 30, 0, 0, time.UTC)

	repo := &stubAccountingRepo{
		scheduled: map[string][]*domain.Accounting{
			"app-taipei": {
				{ID: "acc-due", ApplicationID: "app-taipei", Status: domain.AccountingScheduled,
					ScheduleDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
				{ID: "acc-expired", ApplicationID: "app-taipei", Status: domain.AccountingScheduled,
					ScheduleDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
				{ID: "acc-upcoming", ApplicationID: "app-taipei", Status: domain.AccountingScheduled,
					ScheduleDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
	}
	apps := &stubAppRepo{apps: []*domain.Application{
		{ID: "app-taipei", Timezone: "Asia/Taipei"},
		{ID: "app-utc", Timezone: "UTC"},
	}}
	pub := &recordingPublisher{}
	uc := NewDefaultAccountingUsecase(repo, apps, nil, &stubResolver{}, pub, testMetrics)

	summary, err := uc.SweepScheduled(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, []string{"acc-due"}, summary.Approaching)
	assert.Equal(t, []string{"acc-expired"}, summary.Expired)
	assert.Equal(t, []string{"acc-expired"}, repo.deleted)

	// only the tenant at local midnight was scanned
	assert.Equal(t, []string{"app-taipei"}, repo.listedApps)

	require.Len(t, pub.events, 2)
	assert.Len(t, pub.eventsOfType(domain.EventAccountingApproaching), 1)
	assert.Len(t, pub.eventsOfType(domain.EventAccountingExpired), 1)
}

func TestSweepScheduledExpiresWaitExecuteAccounting(t *testing.T) {
	now := time.Date(2024, 1, 11, 16, 30, 0, 0, time.UTC)
	repo := &stubAccountingRepo{
		scheduled: map[string][]*domain.Accounting{
			"app-taipei": {
				{ID: "acc-wait", ApplicationID: "app-taipei", Status: domain.AccountingWaitExecute,
					ScheduleDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
			},
		},
	}
	apps := &stubAppRepo{apps: []*domain.Application{{ID: "app-taipei", Timezone: "Asia/Taipei"}}}
	pub := &recordingPublisher{}
	uc := NewDefaultAccountingUsecase(repo, apps, nil, &stubResolver{}, pub, testMetrics)

	summary, err := uc.SweepScheduled(context.Background(), now)
	require.NoError(t, err)

	// a wait_execute accounting past its date is expired like a scheduled one
	assert.Equal(t, []string{"acc-wait"}, summary.Expired)
	assert.Equal(t, []string{"acc-wait"}, repo.deleted)
	require.Len(t, pub.eventsOfType(domain.EventAccountingExpired), 1)
}

func TestSweepScheduledLeavesUpcomingUntouched(t *testing.T) {
	now := time.Date(2024, 1, 9, 16, 30, 0, 0, time.UTC)
	repo := &stubAccountingRepo{
		scheduled: map[string][]*domain.Accounting{
			"app-taipei": {
				{ID: "acc-upcoming", ApplicationID: "app-taipei", Status: domain.AccountingScheduled,
					ScheduleDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
	}
	apps := &stubAppRepo{apps: []*domain.Application{{ID: "app-taipei", Timezone: "Asia/Taipei"}}}
	pub := &recordingPublisher{}
	uc := NewDefaultAccountingUsecase(repo, apps, nil, &stubResolver{}, pub, testMetrics)

	summary, err := uc.SweepScheduled(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, summary.Approaching)
	assert.Empty(t, summary.Expired)
	assert.Empty(t, repo.deleted)
	assert.Empty(t, pub.events)
}

func TestExecutePayoutsSetsPayoutDateAndPublishes(t *testing.T) {
	repo := &stubAccountingRepo{
		accountings: map[string]*domain.Accounting{
			"acc-1": {ID: "acc-1", ApplicationID: "app-1", Status: domain.AccountingWaitExecute},
		},
		payouts: []*domain.Payout{
			{ID: "p1", AccountingID: "acc-1", ApplicationID: "app-1", VendorID: "v1", Total: 100, Currency: "USD", Status: domain.PayoutInProcess, ScanPassed: true},
			{ID: "p2", AccountingID: "acc-1", ApplicationID: "app-1", VendorID: "v2", Total: 50, Currency: "USD", Status: domain.PayoutInProcess, ScanPassed: true},
		},
	}
	apps := &stubAppRepo{apps: []*domain.Application{{ID: "app-1", Timezone: "UTC"}}}
	gw := &stubGateway{
		name: "cathay",
		results: []domain.PayoutResult{
			{PayoutID: "p1", Status: domain.PayoutFinish, ExternalPaymentID: "ext-1"},
			{PayoutID: "p2", Status: domain.PayoutFailed, Reason: "account closed"},
		},
	}
	pub := &recordingPublisher{}
	uc := NewDefaultAccountingUsecase(repo, apps, nil, &stubResolver{gw: gw}, pub, testMetrics)

	run, err := uc.ExecutePayouts(context.Background(), "acc-1", "")
	require.NoError(t, err)

	assert.Equal(t, "cathay", run.Gateway)
	require.Len(t, run.Results, 2)
	assert.Equal(t, time.Now().UTC().Format("20060102"), repo.payoutDate)

	// a submission event per payout plus a terminal event per result, all
	// delivered before the call returns
	require.Len(t, pub.events, 4)
	assert.Len(t, pub.eventsOfType(domain.EventPayoutSubmitted), 2)

	succeeded := pub.eventsOfType(domain.EventPayoutSucceeded)
	require.Len(t, succeeded, 1)
	assert.Equal(t, "p1", succeeded[0].PayoutID)
	assert.Equal(t, 100.0, succeeded[0].Total)

	failed := pub.eventsOfType(domain.EventPayoutFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "p2", failed[0].PayoutID)
	assert.Equal(t, "account closed", failed[0].Reason)
}

func TestExecutePayoutsGatewayErrorRollsBack(t *testing.T) {
	repo := &stubAccountingRepo{
		accountings: map[string]*domain.Accounting{
			"acc-1": {ID: "acc-1", ApplicationID: "app-1", Status: domain.AccountingWaitExecute},
		},
		payouts: []*domain.Payout{
			{ID: "p1", AccountingID: "acc-1", ApplicationID: "app-1", Status: domain.PayoutInProcess, ScanPassed: true},
		},
	}
	apps := &stubAppRepo{apps: []*domain.Application{{ID: "app-1", Timezone: "UTC"}}}
	gw := &stubGateway{name: "cathay", err: assert.AnError}
	pub := &recordingPublisher{}
	uc := NewDefaultAccountingUsecase(repo, apps, nil, &stubResolver{gw: gw}, pub, testMetrics)

	_, err := uc.ExecutePayouts(context.Background(), "acc-1", "")
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, repo.payoutDate)
	assert.Empty(t, pub.events)
}

func TestExecutePayoutsUnknownGatewayRefused(t *testing.T) {
	repo := &stubAccountingRepo{
		accountings: map[string]*domain.Accounting{
			"acc-1": {ID: "acc-1", ApplicationID: "app-1", Status: domain.AccountingWaitExecute},
		},
	}
	apps := &stubAppRepo{apps: []*domain.Application{{ID: "app-1", Timezone: "UTC"}}}
	uc := NewDefaultAccountingUsecase(repo, apps, nil, &stubResolver{err: domain.ErrUnknownGateway}, &recordingPublisher{}, testMetrics)

	_, err := uc.ExecutePayouts(context.Background(), "acc-1", "no-such-rail")
	require.ErrorIs(t, err, domain.ErrUnknownGateway)
}

func TestCreateDefaultsToApplicationGateway(t *testing.T) {
	repo := &stubAccountingRepo{
		payouts: []*domain.Payout{{ID: "p1", Status: domain.PayoutInProcess}},
	}
	apps := &stubAppRepo{apps: []*domain.Application{{ID: "app-1", DefaultGateway: "fiserv"}}}
	uc := NewDefaultAccountingUsecase(repo, apps, nil, &stubResolver{}, &recordingPublisher{}, testMetrics)

	acc, payouts, err := uc.Create(context.Background(), "app-1", "", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "fiserv", acc.Gateway)
	assert.Len(t, payouts, 1)
}

func TestFinishRefusesWhilePayoutsInProcess(t *testing.T) {
	repo := &stubAccountingRepo{
		accountings: map[string]*domain.Accounting{
			"acc-1": {ID: "acc-1", ApplicationID: "app-1", Status: domain.AccountingInProcess},
		},
	}
	payoutRepo := &stubPayoutRepo{payouts: []*domain.Payout{
		{ID: "p1", Status: domain.PayoutFinish},
		{ID: "p2", Status: domain.PayoutInProcess},
	}}
	uc := NewDefaultAccountingUsecase(repo, &stubAppRepo{}, payoutRepo, &stubResolver{}, &recordingPublisher{}, testMetrics)

	_, err := uc.Finish(context.Background(), "acc-1")
	require.ErrorIs(t, err, domain.ErrAccountingUnfinished)
}

func TestFinishWithTerminalPayouts(t *testing.T) {
	repo := &stubAccountingRepo{
		accountings: map[string]*domain.Accounting{
			"acc-1": {ID: "acc-1", ApplicationID: "app-1", Status: domain.AccountingInProcess},
		},
	}
	payoutRepo := &stubPayoutRepo{payouts: []*domain.Payout{
		{ID: "p1", Status: domain.PayoutFinish},
		{ID: "p2", Status: domain.PayoutFailed},
	}}
	uc := NewDefaultAccountingUsecase(repo, &stubAppRepo{}, payoutRepo, &stubResolver{}, &recordingPublisher{}, testMetrics)

	acc, err := uc.Finish(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountingInFinish, acc.Status)
}
