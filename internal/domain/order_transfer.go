package domain

import (
	"context"
	"time"
)

type TransferStatus string

const (
	TransferInProcess TransferStatus = "in_process"
	TransferUnconfirm TransferStatus = "unconfirm"
	TransferSettled   TransferStatus = "settled"
)

type DetailStatus string

const (
	DetailChecking DetailStatus = "checking"
	DetailApproved DetailStatus = "approved"
)

// OrderTransfer groups confirmed orders of one vendor for settlement.
// Total must always equal the sum of its non-cancelled member orders.
type OrderTransfer struct {
	ID            string
	ApplicationID string
	VendorID      string
	Status        TransferStatus
	Total         float64
	Currency      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransferDetail is the per-order membership row of an OrderTransfer.
type TransferDetail struct {
	ID         uint
	TransferID string
	OrderID    string
	Status     DetailStatus
}

// DetailAudit records a detail row status change for the revert audit log.
type DetailAudit struct {
	OrderID string
	From    DetailStatus
	To      DetailStatus
}

// TransferRevert is the outcome of an undo-confirm operation.
type TransferRevert struct {
	Transfer *OrderTransfer
	Audit    []DetailAudit
}

// PickOffResult is the outcome of removing a single order from a transfer.
type PickOffResult struct {
	Transfer *OrderTransfer
	Order    *Order
}

type TransferRepository interface {
	GetTransferByID(ctx context.Context, transferID string) (*OrderTransfer, error)

	// RevertTransfer atomically reverts a settled/in_process transfer back to
	// unconfirm, member orders to unconfirmed and detail rows to checking.
	RevertTransfer(ctx context.Context, transferID string) (*TransferRevert, error)

	// PickOffOrder removes one order from an in-flight transfer, cancels it
	// and recomputes the transfer total from the remaining members.
	PickOffOrder(ctx context.Context, transferID, orderID string) (*PickOffResult, error)

	// ConfirmTransfer moves a transfer to settled, member orders to confirmed
	// and detail rows to approved.
	ConfirmTransfer(ctx context.Context, transferID string) (*OrderTransfer, error)

	// PackOrders groups unconfirmed, unpacked orders of the application into
	// new in_process transfers, one per (vendor, currency).
	PackOrders(ctx context.Context, applicationID string) ([]*OrderTransfer, error)
}
