package models

import (
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

type PayoutModel struct {
	ID                string              `gorm:"primaryKey;type:uuid"`
	AccountingID      string              `gorm:"index:idx_payouts_accounting"`
	ApplicationID     string              `gorm:"type:uuid;index:idx_payouts_application"`
	VendorID          string              `gorm:"type:uuid"`
	Total             float64             `gorm:"not null"`
	Currency          string              `gorm:"not null"`
	Status            domain.PayoutStatus `gorm:"index:idx_payouts_status"`
	ExternalPaymentID string              `gorm:"column:external_payment_uuid"`
	ScanPassed        bool                `gorm:"default:false"`
	FailReason        string
	CreatedAt         time.Time `gorm:"index:idx_payouts_created_at"`
	UpdatedAt         time.Time
}

func (PayoutModel) TableName() string {
	return "payouts"
}
