package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventTransferReverted      EventType = "order_transfer.reverted"
	EventTransferConfirmed     EventType = "order_transfer.confirmed"
	EventOrderPickedOff        EventType = "order_transfer.order_picked_off"
	EventAccountingApproaching EventType = "accounting.schedule_approaching"
	EventAccountingExpired     EventType = "accounting.schedule_expired"
	EventPayoutSubmitted       EventType = "payout.submitted"
	EventPayoutSucceeded       EventType = "payout.succeeded"
	EventPayoutFailed          EventType = "payout.failed"
)

// SettlementEvent is the typed outcome value the workflows hand to the
// dispatcher. Listeners outside this service perform the cascading state
// mutations (balances, notifications), keeping the transition logic here
// free of side effects.
type SettlementEvent struct {
	Type          EventType `json:"type"`
	ApplicationID string    `json:"application_id"`
	TransferID    string    `json:"transfer_id,omitempty"`
	AccountingID  string    `json:"accounting_id,omitempty"`
	PayoutID      string    `json:"payout_id,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	Total         float64   `json:"total,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishSettlement(ctx context.Context, events ...SettlementEvent) error
}
