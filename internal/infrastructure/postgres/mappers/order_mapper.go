package mappers

import (
	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(m *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		VendorID:      m.VendorID,
		Total:         m.Total,
		Currency:      m.Currency,
		Status:        m.Status,
		TransferID:    m.TransferID,
		AccountingID:  m.AccountingID,
		PayoutID:      m.PayoutID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
