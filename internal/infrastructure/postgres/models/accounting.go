package models

import (
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
)

type AccountingModel struct {
	ID            string                  `gorm:"primaryKey;type:uuid"`
	ApplicationID string                  `gorm:"type:uuid;index:idx_accounting_application"`
	Status        domain.AccountingStatus `gorm:"index:idx_accounting_status"`
	Gateway       string
	ScheduleDate  time.Time `gorm:"type:date"`
	PayoutDate    string
	IsTest        bool `gorm:"default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (AccountingModel) TableName() string {
	return "accounting"
}

type ApplicationModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Name           string `gorm:"not null"`
	Timezone       string `gorm:"not null"`
	Environment    string `gorm:"not null;default:production"`
	DefaultGateway string
	CallbackURL    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ApplicationModel) TableName() string {
	return "applications"
}
