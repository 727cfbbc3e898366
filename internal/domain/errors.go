package domain

import "errors"

var (
	ErrTransferNotRevertible = errors.New("only settled/in_process transfers can revert")
	ErrTransferNotEditable   = errors.New("transfer is not editable")
	ErrOrderNotInTransfer    = errors.New("order does not belong to transfer")
	ErrPayoutNotInProcess    = errors.New("payout is not in_process")
	ErrPayoutWrongTenant     = errors.New("payout does not belong to application")
	ErrPayoutBadStatus       = errors.New("status must be finish or failed")
	ErrAccountingNotDue      = errors.New("accounting is not awaiting execution")
	ErrAccountingUnfinished  = errors.New("accounting has payouts still in_process")
	ErrUnknownGateway        = errors.New("unknown payout gateway")
)
