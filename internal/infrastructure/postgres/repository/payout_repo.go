package repository

import (
	"context"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPayoutRepository struct {
	DB *gorm.DB
}

func NewDefaultPayoutRepository(db *gorm.DB) *DefaultPayoutRepository {
	return &DefaultPayoutRepository{DB: db}
}

func (r *DefaultPayoutRepository) GetPayoutByID(ctx context.Context, payoutID string) (*domain.Payout, error) {
	var payout models.PayoutModel
	if err := r.DB.WithContext(ctx).First(&payout, "id = ?", payoutID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainPayout(&payout), nil
}

func (r *DefaultPayoutRepository) ListPayoutsByAccounting(ctx context.Context, accountingID string) ([]*domain.Payout, error) {
	var payoutModels []models.PayoutModel
	if err := r.DB.WithContext(ctx).
		Where("accounting_id = ?", accountingID).
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}

	payouts := make([]*domain.Payout, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = mappers.ToDomainPayout(&payoutModels[i])
	}

	return payouts, nil
}

func (r *DefaultPayoutRepository) FindStuckPayouts(ctx context.Context, olderThan time.Duration) ([]*domain.Payout, error) {
	var payoutModels []models.PayoutModel
	if err := r.DB.WithContext(ctx).
		Where("status = ?", domain.PayoutInProcess).
		Where("created_at < ?", time.Now().Add(-olderThan)).
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}

	payouts := make([]*domain.Payout, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = mappers.ToDomainPayout(&payoutModels[i])
	}

	return payouts, nil
}
