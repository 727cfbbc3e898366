package domain

import (
	"fmt"
	"time"
)

// SumTransferTotal computes a transfer's total as the sum of its
// non-cancelled member orders.
func SumTransferTotal(orders []*Order) float64 {
	var total float64
	for _, o := range orders {
		if o.Status == OrderCancelled {
			continue
		}
		total += o.Total
	}
	return total
}

// RevertTransfer applies the undo-confirm transition in place: transfer back
// to unconfirm, member orders to unconfirmed, detail rows to checking.
// Returns the per-detail audit trail. Fails without mutating anything when
// the transfer is not in a revertible status.
func RevertTransfer(t *OrderTransfer, orders []*Order, details []*TransferDetail) ([]DetailAudit, error) {
	if t.Status != TransferSettled && t.Status != TransferInProcess {
		return nil, fmt.Errorf("transfer %s is %s: %w", t.ID, t.Status, ErrTransferNotRevertible)
	}

	audit := make([]DetailAudit, 0, len(details))
	for _, d := range details {
		audit = append(audit, DetailAudit{OrderID: d.OrderID, From: d.Status, To: DetailChecking})
		d.Status = DetailChecking
	}
	for _, o := range orders {
		o.Status = OrderUnconfirmed
	}
	t.Status = TransferUnconfirm

	return audit, nil
}

// PickOffOrder removes target from the transfer's members: the order is
// cancelled and the transfer total recomputed from the remaining orders,
// keeping the sum invariant intact. The caller deletes the detail row.
func PickOffOrder(t *OrderTransfer, orders []*Order, target *Order) error {
	if t.Status != TransferInProcess && t.Status != TransferUnconfirm {
		return fmt.Errorf("transfer %s is %s: %w", t.ID, t.Status, ErrTransferNotEditable)
	}
	if target.TransferID != t.ID {
		return fmt.Errorf("order %s: %w", target.ID, ErrOrderNotInTransfer)
	}

	target.Status = OrderCancelled
	target.TransferID = ""
	t.Total = SumTransferTotal(orders)
	return nil
}

// ConfirmTransfer settles the transfer: orders become confirmed, detail rows
// approved.
func ConfirmTransfer(t *OrderTransfer, orders []*Order, details []*TransferDetail) error {
	if t.Status != TransferInProcess && t.Status != TransferUnconfirm {
		return fmt.Errorf("transfer %s is %s: %w", t.ID, t.Status, ErrTransferNotEditable)
	}
	for _, o := range orders {
		o.Status = OrderConfirmed
	}
	for _, d := range details {
		d.Status = DetailApproved
	}
	t.Status = TransferSettled
	return nil
}

// MarkPayoutTerminal moves a payout from in_process to exactly one terminal
// state. Any other transition is refused.
func MarkPayoutTerminal(p *Payout, status PayoutStatus) error {
	if status != PayoutFinish && status != PayoutFailed {
		return fmt.Errorf("status %s is not terminal", status)
	}
	if p.Status != PayoutInProcess {
		return fmt.Errorf("payout %s is %s: %w", p.ID, p.Status, ErrPayoutNotInProcess)
	}
	p.Status = status
	return nil
}

// CanFinishAccounting reports whether all payouts of an accounting reached a
// terminal state.
func CanFinishAccounting(payouts []*Payout) bool {
	for _, p := range payouts {
		if !p.Terminal() {
			return false
		}
	}
	return true
}

// ScheduleVerdict classifies a scheduled accounting against the tenant-local
// calendar date.
type ScheduleVerdict int

const (
	ScheduleUpcoming ScheduleVerdict = iota
	ScheduleDue
	ScheduleExpired
)

// ClassifySchedule compares the schedule date with today, both truncated to
// calendar days. today is expected in the tenant's timezone.
func ClassifySchedule(scheduleDate, today time.Time) ScheduleVerdict {
	sy, sm, sd := scheduleDate.Date()
	ty, tm, td := today.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	switch {
	case t.Equal(s):
		return ScheduleDue
	case t.After(s):
		return ScheduleExpired
	default:
		return ScheduleUpcoming
	}
}

// AtLocalMidnight reports whether now falls in the 00 wall-clock hour of the
// given tenant timezone. The sweep runs against a tenant only then, so each
// tenant is scanned once per day.
func AtLocalMidnight(timezone string, now time.Time) (bool, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return false, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return now.In(loc).Hour() == 0, nil
}
