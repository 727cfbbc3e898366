package mappers

import (
	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainAccounting(m *models.AccountingModel) *domain.Accounting {
	return &domain.Accounting{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		Status:        m.Status,
		Gateway:       m.Gateway,
		ScheduleDate:  m.ScheduleDate,
		PayoutDate:    m.PayoutDate,
		IsTest:        m.IsTest,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToDomainApplication(m *models.ApplicationModel) *domain.Application {
	return &domain.Application{
		ID:             m.ID,
		Name:           m.Name,
		Timezone:       m.Timezone,
		Environment:    m.Environment,
		DefaultGateway: m.DefaultGateway,
		CallbackURL:    m.CallbackURL,
	}
}
