package models

import (
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

type OrderTransferModel struct {
	ID            string                `gorm:"primaryKey;type:uuid"`
	ApplicationID string                `gorm:"type:uuid;index:idx_transfers_application"`
	VendorID      string                `gorm:"type:uuid;index:idx_transfers_vendor"`
	Status        domain.TransferStatus `gorm:"index:idx_transfers_status"`
	AccountingID  string                `gorm:"index"`
	Total         float64               `gorm:"not null"`
	Currency      string                `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (OrderTransferModel) TableName() string {
	return "orders_transfer"
}

type OrderTransferDetailModel struct {
	ID         uint                `gorm:"primaryKey;autoIncrement"`
	TransferID string              `gorm:"column:order_transfer_id;type:uuid;index:idx_details_transfer"`
	OrderID    string              `gorm:"type:uuid;uniqueIndex:idx_details_order"`
	Status     domain.DetailStatus `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (OrderTransferDetailModel) TableName() string {
	return "orders_transfer_detail"
}
