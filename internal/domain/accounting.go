package domain

import (
	"context"
	"time"
)

type AccountingStatus string

const (
	AccountingDraft       AccountingStatus = "draft"
	AccountingWaitExecute AccountingStatus = "wait_execute"
	AccountingScheduled   AccountingStatus = "scheduled"
	AccountingInProcess   AccountingStatus = "in_process"
	AccountingInFinish    AccountingStatus = "in_finish"
)

// Accounting is a payout run grouping settled transfers of one application.
type Accounting struct {
	ID            string
	ApplicationID string
	Status        AccountingStatus
	Gateway       string
	ScheduleDate  time.Time
	PayoutDate    string
	IsTest        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Application is a platform tenant. Timezone drives the scheduled-expiry
// sweep, Environment selects sandbox vs production gateways.
type Application struct {
	ID             string
	Name           string
	Timezone       string
	Environment    string
	DefaultGateway string
	CallbackURL    string
}

const EnvironmentSandbox = "sandbox"

// PayoutRun is the outcome of executing an accounting's payout batch.
type PayoutRun struct {
	Accounting *Accounting
	Gateway    string
	Results    []PayoutResult
}

type AccountingRepository interface {
	GetAccountingByID(ctx context.Context, accountingID string) (*Accounting, error)
	ListScheduledAccountings(ctx context.Context, applicationID string) ([]*Accounting, error)
	DeleteAccounting(ctx context.Context, accountingID string) error

	// CreateAccounting builds a draft accounting from the application's
	// settled transfers and generates one in_process payout per vendor.
	CreateAccounting(ctx context.Context, applicationID, gateway string, scheduleDate time.Time) (*Accounting, []*Payout, error)

	// ExecutePayouts locks the accounting row for the whole transaction,
	// loads its scan-passed in_process payouts, hands them to submit and
	// applies the returned results. A submit error rolls everything back.
	ExecutePayouts(ctx context.Context, accountingID string, submit func(*Accounting, []*Payout) ([]PayoutResult, error)) (*PayoutRun, error)

	// FinishAccounting marks the accounting in_finish. Refuses while any of
	// its payouts is still in_process.
	FinishAccounting(ctx context.Context, accountingID string) (*Accounting, error)
}

type ApplicationRepository interface {
	GetApplicationByID(ctx context.Context, applicationID string) (*Application, error)
	ListApplications(ctx context.Context) ([]*Application, error)
}
