package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAccountingRepository struct {
	DB *gorm.DB
}

func NewDefaultAccountingRepository(db *gorm.DB) *DefaultAccountingRepository {
	return &DefaultAccountingRepository{DB: db}
}

func (r *DefaultAccountingRepository) GetAccountingByID(ctx context.Context, accountingID string) (*domain.Accounting, error) {
	var accounting models.AccountingModel
	if err := r.DB.WithContext(ctx).First(&accounting, "id = ?", accountingID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainAccounting(&accounting), nil
}

func (r *DefaultAccountingRepository) ListScheduledAccountings(ctx context.Context, applicationID string) ([]*domain.Accounting, error) {
	// Both statuses are awaiting scheduled execution, so both are swept.
	var accountingModels []models.AccountingModel
	if err := r.DB.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Where("status IN ?", []domain.AccountingStatus{domain.AccountingScheduled, domain.AccountingWaitExecute}).
		Find(&accountingModels).Error; err != nil {
		return nil, err
	}

	accountings := make([]*domain.Accounting, len(accountingModels))
	for i := range accountingModels {
		accountings[i] = mappers.ToDomainAccounting(&accountingModels[i])
	}

	return accountings, nil
}

func (r *DefaultAccountingRepository) DeleteAccounting(ctx context.Context, accountingID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PayoutModel{}).
			Where("accounting_id = ? AND status = ?", accountingID, domain.PayoutInProcess).
			Update("accounting_id", "").Error; err != nil {
			return fmt.Errorf("detach payouts: %w", err)
		}
		return tx.Delete(&models.AccountingModel{}, "id = ?", accountingID).Error
	})
}

func (r *DefaultAccountingRepository) CreateAccounting(ctx context.Context, applicationID, gateway string, scheduleDate time.Time) (*domain.Accounting, []*domain.Payout, error) {
	idGenerator, err := nanoid.Standard(18)
	if err != nil {
		return nil, nil, err
	}

	var accounting *domain.Accounting
	var payouts []*domain.Payout

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var transferModels []models.OrderTransferModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ?", applicationID).
			Where("status = ?", domain.TransferSettled).
			Where("accounting_id = '' OR accounting_id IS NULL").
			Find(&transferModels).Error; err != nil {
			return err
		}
		if len(transferModels) == 0 {
			return gorm.ErrRecordNotFound
		}

		status := domain.AccountingDraft
		if !scheduleDate.IsZero() {
			status = domain.AccountingScheduled
		}
		accountingModel := models.AccountingModel{
			ID:            uuid.New().String(),
			ApplicationID: applicationID,
			Status:        status,
			Gateway:       gateway,
			ScheduleDate:  scheduleDate,
		}
		if err := tx.Create(&accountingModel).Error; err != nil {
			return fmt.Errorf("create accounting: %w", err)
		}

		// One payout per (vendor, currency) over the settled transfers
		type groupKey struct {
			vendorID string
			currency string
		}
		totals := make(map[groupKey]float64)
		for _, t := range transferModels {
			k := groupKey{vendorID: t.VendorID, currency: t.Currency}
			totals[k] += t.Total
		}

		for k, total := range totals {
			payoutModel := models.PayoutModel{
				ID:                uuid.New().String(),
				AccountingID:      accountingModel.ID,
				ApplicationID:     applicationID,
				VendorID:          k.vendorID,
				Total:             total,
				Currency:          k.currency,
				Status:            domain.PayoutInProcess,
				ExternalPaymentID: idGenerator(),
			}
			if err := tx.Create(&payoutModel).Error; err != nil {
				return fmt.Errorf("create payout: %w", err)
			}
			payouts = append(payouts, mappers.ToDomainPayout(&payoutModel))
		}

		for _, t := range transferModels {
			if err := tx.Model(&models.OrderTransferModel{}).
				Where("id = ?", t.ID).
				Update("accounting_id", accountingModel.ID).Error; err != nil {
				return fmt.Errorf("attach transfer: %w", err)
			}
			if err := tx.Model(&models.OrderModel{}).
				Where("order_transfer_id = ?", t.ID).
				Update("accounting_id", accountingModel.ID).Error; err != nil {
				return fmt.Errorf("attach orders: %w", err)
			}
		}

		accounting = mappers.ToDomainAccounting(&accountingModel)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return accounting, payouts, nil
}

func (r *DefaultAccountingRepository) ExecutePayouts(ctx context.Context, accountingID string, submit func(*domain.Accounting, []*domain.Payout) ([]domain.PayoutResult, error)) (*domain.PayoutRun, error) {
	var run *domain.PayoutRun

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Exclusive lock guards against a second concurrent execution of the
		// same batch.
		var accountingModel models.AccountingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&accountingModel, "id = ?", accountingID).Error; err != nil {
			return err
		}

		accounting := mappers.ToDomainAccounting(&accountingModel)
		if accounting.Status != domain.AccountingWaitExecute &&
			accounting.Status != domain.AccountingScheduled &&
			accounting.Status != domain.AccountingDraft {
			return fmt.Errorf("accounting %s is %s: %w", accounting.ID, accounting.Status, domain.ErrAccountingNotDue)
		}

		var payoutModels []models.PayoutModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("accounting_id = ?", accountingID).
			Where("status = ?", domain.PayoutInProcess).
			Where("scan_passed = ?", true).
			Find(&payoutModels).Error; err != nil {
			return err
		}

		payouts := make([]*domain.Payout, len(payoutModels))
		for i := range payoutModels {
			payouts[i] = mappers.ToDomainPayout(&payoutModels[i])
		}

		results, err := submit(accounting, payouts)
		if err != nil {
			return err
		}

		for _, res := range results {
			updates := map[string]interface{}{
				"status":      res.Status,
				"fail_reason": res.Reason,
			}
			if res.ExternalPaymentID != "" {
				updates["external_payment_uuid"] = res.ExternalPaymentID
			}
			if err := tx.Model(&models.PayoutModel{}).
				Where("id = ? AND status = ?", res.PayoutID, domain.PayoutInProcess).
				Updates(updates).Error; err != nil {
				return fmt.Errorf("apply payout result: %w", err)
			}
		}

		if err := tx.Model(&models.AccountingModel{}).
			Where("id = ?", accountingID).
			Updates(map[string]interface{}{
				"status":      domain.AccountingInProcess,
				"payout_date": accounting.PayoutDate,
			}).Error; err != nil {
			return fmt.Errorf("mark accounting in_process: %w", err)
		}

		run = &domain.PayoutRun{Accounting: accounting, Gateway: accounting.Gateway, Results: results}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return run, nil
}

func (r *DefaultAccountingRepository) FinishAccounting(ctx context.Context, accountingID string) (*domain.Accounting, error) {
	var finished *domain.Accounting

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var accountingModel models.AccountingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&accountingModel, "id = ?", accountingID).Error; err != nil {
			return err
		}

		var inProcess int64
		if err := tx.Model(&models.PayoutModel{}).
			Where("accounting_id = ? AND status = ?", accountingID, domain.PayoutInProcess).
			Count(&inProcess).Error; err != nil {
			return err
		}
		if inProcess > 0 {
			return fmt.Errorf("accounting %s: %w", accountingID, domain.ErrAccountingUnfinished)
		}

		if err := tx.Model(&models.AccountingModel{}).
			Where("id = ?", accountingID).
			Update("status", domain.AccountingInFinish).Error; err != nil {
			return err
		}

		accountingModel.Status = domain.AccountingInFinish
		finished = mappers.ToDomainAccounting(&accountingModel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return finished, nil
}
