package domain

import (
	"context"
	"time"
)

type PayoutStatus string

const (
	PayoutInProcess PayoutStatus = "in_process"
	PayoutFinish    PayoutStatus = "finish"
	PayoutFailed    PayoutStatus = "failed"
)

// Payout is one money-movement instruction to a single vendor.
type Payout struct {
	ID                string
	AccountingID      string
	ApplicationID     string
	VendorID          string
	Total             float64
	Currency          string
	Status            PayoutStatus
	ExternalPaymentID string
	ScanPassed        bool
	FailReason        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Terminal reports whether the payout reached finish or failed. A terminal
// payout never changes status again.
func (p *Payout) Terminal() bool {
	return p.Status == PayoutFinish || p.Status == PayoutFailed
}

// PayoutResult is a gateway's verdict for one submitted payout.
type PayoutResult struct {
	PayoutID          string
	Status            PayoutStatus
	ExternalPaymentID string
	Reason            string
}

type PayoutRepository interface {
	GetPayoutByID(ctx context.Context, payoutID string) (*Payout, error)
	ListPayoutsByAccounting(ctx context.Context, accountingID string) ([]*Payout, error)
	FindStuckPayouts(ctx context.Context, olderThan time.Duration) ([]*Payout, error)
}

// PayoutGateway is a pluggable third-party payment rail. SubmitBatch marks
// each payout finish or failed via the returned results; the caller persists
// them and publishes the matching events.
type PayoutGateway interface {
	Name() string
	// DateFormat is the gateway's own contract for the payout execution date,
	// as a Go reference layout.
	DateFormat() string
	SubmitBatch(ctx context.Context, accounting *Accounting, payouts []*Payout, executeDate string) ([]PayoutResult, error)
}
