package mappers

import (
	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainPayout(m *models.PayoutModel) *domain.Payout {
	return &domain.Payout{
		ID:                m.ID,
		AccountingID:      m.AccountingID,
		ApplicationID:     m.ApplicationID,
		VendorID:          m.VendorID,
		Total:             m.Total,
		Currency:          m.Currency,
		Status:            m.Status,
		ExternalPaymentID: m.ExternalPaymentID,
		ScanPassed:        m.ScanPassed,
		FailReason:        m.FailReason,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
