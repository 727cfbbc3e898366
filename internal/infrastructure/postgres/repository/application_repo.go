package repository

import (
	"context"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultApplicationRepository struct {
	DB *gorm.DB
}

func NewDefaultApplicationRepository(db *gorm.DB) *DefaultApplicationRepository {
	return &DefaultApplicationRepository{DB: db}
}

func (r *DefaultApplicationRepository) GetApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	var app models.ApplicationModel
	if err := r.DB.WithContext(ctx).First(&app, "id = ?", applicationID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainApplication(&app), nil
}

func (r *DefaultApplicationRepository) ListApplications(ctx context.Context) ([]*domain.Application, error) {
	var appModels []models.ApplicationModel
	if err := r.DB.WithContext(ctx).Find(&appModels).Error; err != nil {
		return nil, err
	}

	apps := make([]*domain.Application, len(appModels))
	for i := range appModels {
		apps[i] = mappers.ToDomainApplication(&appModels[i])
	}

	return apps, nil
}
