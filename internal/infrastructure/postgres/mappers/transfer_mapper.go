package mappers

import (
	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainTransfer(m *models.OrderTransferModel) *domain.OrderTransfer {
	return &domain.OrderTransfer{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		VendorID:      m.VendorID,
		Status:        m.Status,
		Total:         m.Total,
		Currency:      m.Currency,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToDomainDetail(m *models.OrderTransferDetailModel) *domain.TransferDetail {
	return &domain.TransferDetail{
		ID:         m.ID,
		TransferID: m.TransferID,
		OrderID:    m.OrderID,
		Status:     m.Status,
	}
}
