package models

import (
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

type OrderModel struct {
	ID            string             `gorm:"primaryKey;type:uuid"`
	ApplicationID string             `gorm:"type:uuid;index:idx_orders_application"`
	VendorID      string             `gorm:"type:uuid;index:idx_orders_vendor"`
	Total         float64            `gorm:"not null"`
	Currency      string             `gorm:"not null"`
	Status        domain.OrderStatus `gorm:"index:idx_orders_status"`
	TransferID    string             `gorm:"column:order_transfer_id;index:idx_orders_transfer"`
	AccountingID  string             `gorm:"index"`
	PayoutID      string             `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
