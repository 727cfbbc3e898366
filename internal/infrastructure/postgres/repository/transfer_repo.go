package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultTransferRepository struct {
	DB *gorm.DB
}

func NewDefaultTransferRepository(db *gorm.DB) *DefaultTransferRepository {
	return &DefaultTransferRepository{DB: db}
}

func (r *DefaultTransferRepository) GetTransferByID(ctx context.Context, transferID string) (*domain.OrderTransfer, error) {
	var transfer models.OrderTransferModel
	if err := r.DB.WithContext(ctx).First(&transfer, "id = ?", transferID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainTransfer(&transfer), nil
}

// lockTransferMembers loads the transfer, its orders and its detail rows
// inside tx with SELECT ... FOR UPDATE on every row set.
func lockTransferMembers(tx *gorm.DB, transferID string) (*models.OrderTransferModel, []models.OrderModel, []models.OrderTransferDetailModel, error) {
	var transfer models.OrderTransferModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&transfer, "id = ?", transferID).Error; err != nil {
		return nil, nil, nil, err
	}

	var orders []models.OrderModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_transfer_id = ?", transferID).
		Find(&orders).Error; err != nil {
		return nil, nil, nil, err
	}

	var details []models.OrderTransferDetailModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_transfer_id = ?", transferID).
		Find(&details).Error; err != nil {
		return nil, nil, nil, err
	}

	return &transfer, orders, details, nil
}

func (r *DefaultTransferRepository) RevertTransfer(ctx context.Context, transferID string) (*domain.TransferRevert, error) {
	var revert *domain.TransferRevert

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transferModel, orderModels, detailModels, err := lockTransferMembers(tx, transferID)
		if err != nil {
			return err
		}

		transfer := mappers.ToDomainTransfer(transferModel)
		orders := make([]*domain.Order, len(orderModels))
		for i := range orderModels {
			orders[i] = mappers.ToDomainOrder(&orderModels[i])
		}
		details := make([]*domain.TransferDetail, len(detailModels))
		for i := range detailModels {
			details[i] = mappers.ToDomainDetail(&detailModels[i])
		}

		audit, err := domain.RevertTransfer(transfer, orders, details)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.OrderModel{}).
			Where("order_transfer_id = ?", transferID).
			Update("status", domain.OrderUnconfirmed).Error; err != nil {
			return fmt.Errorf("revert orders: %w", err)
		}
		if err := tx.Model(&models.OrderTransferDetailModel{}).
			Where("order_transfer_id = ?", transferID).
			Update("status", domain.DetailChecking).Error; err != nil {
			return fmt.Errorf("revert details: %w", err)
		}
		if err := tx.Model(&models.OrderTransferModel{}).
			Where("id = ?", transferID).
			Update("status", domain.TransferUnconfirm).Error; err != nil {
			return fmt.Errorf("revert transfer: %w", err)
		}

		revert = &domain.TransferRevert{Transfer: transfer, Audit: audit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return revert, nil
}

func (r *DefaultTransferRepository) PickOffOrder(ctx context.Context, transferID, orderID string) (*domain.PickOffResult, error) {
	var result *domain.PickOffResult

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transferModel, orderModels, _, err := lockTransferMembers(tx, transferID)
		if err != nil {
			return err
		}

		transfer := mappers.ToDomainTransfer(transferModel)
		var target *domain.Order
		orders := make([]*domain.Order, len(orderModels))
		for i := range orderModels {
			orders[i] = mappers.ToDomainOrder(&orderModels[i])
			if orders[i].ID == orderID {
				target = orders[i]
			}
		}
		if target == nil {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotInTransfer)
		}

		if err := domain.PickOffOrder(transfer, orders, target); err != nil {
			return err
		}

		if err := tx.
			Where("order_transfer_id = ? AND order_id = ?", transferID, orderID).
			Delete(&models.OrderTransferDetailModel{}).Error; err != nil {
			return fmt.Errorf("delete detail: %w", err)
		}
		if err := tx.Model(&models.OrderModel{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":            domain.OrderCancelled,
				"order_transfer_id": "",
			}).Error; err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		if err := tx.Model(&models.OrderTransferModel{}).
			Where("id = ?", transferID).
			Update("total", transfer.Total).Error; err != nil {
			return fmt.Errorf("recompute total: %w", err)
		}

		result = &domain.PickOffResult{Transfer: transfer, Order: target}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *DefaultTransferRepository) ConfirmTransfer(ctx context.Context, transferID string) (*domain.OrderTransfer, error) {
	var confirmed *domain.OrderTransfer

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transferModel, orderModels, detailModels, err := lockTransferMembers(tx, transferID)
		if err != nil {
			return err
		}

		transfer := mappers.ToDomainTransfer(transferModel)
		orders := make([]*domain.Order, len(orderModels))
		for i := range orderModels {
			orders[i] = mappers.ToDomainOrder(&orderModels[i])
		}
		details := make([]*domain.TransferDetail, len(detailModels))
		for i := range detailModels {
			details[i] = mappers.ToDomainDetail(&detailModels[i])
		}

		if err := domain.ConfirmTransfer(transfer, orders, details); err != nil {
			return err
		}

		if err := tx.Model(&models.OrderModel{}).
			Where("order_transfer_id = ?", transferID).
			Update("status", domain.OrderConfirmed).Error; err != nil {
			return fmt.Errorf("confirm orders: %w", err)
		}
		if err := tx.Model(&models.OrderTransferDetailModel{}).
			Where("order_transfer_id = ?", transferID).
			Update("status", domain.DetailApproved).Error; err != nil {
			return fmt.Errorf("approve details: %w", err)
		}
		if err := tx.Model(&models.OrderTransferModel{}).
			Where("id = ?", transferID).
			Update("status", domain.TransferSettled).Error; err != nil {
			return fmt.Errorf("settle transfer: %w", err)
		}

		confirmed = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}

	return confirmed, nil
}

func (r *DefaultTransferRepository) PackOrders(ctx context.Context, applicationID string) ([]*domain.OrderTransfer, error) {
	var created []*domain.OrderTransfer

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderModels []models.OrderModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ?", applicationID).
			Where("status = ?", domain.OrderUnconfirmed).
			Where("order_transfer_id = '' OR order_transfer_id IS NULL").
			Find(&orderModels).Error; err != nil {
			return err
		}
		if len(orderModels) == 0 {
			return nil
		}

		// One transfer per (vendor, currency)
		type groupKey struct {
			vendorID string
			currency string
		}
		groups := make(map[groupKey][]models.OrderModel)
		for _, o := range orderModels {
			k := groupKey{vendorID: o.VendorID, currency: o.Currency}
			groups[k] = append(groups[k], o)
		}

		for k, members := range groups {
			transferModel := models.OrderTransferModel{
				ID:            uuid.New().String(),
				ApplicationID: applicationID,
				VendorID:      k.vendorID,
				Status:        domain.TransferInProcess,
				Currency:      k.currency,
			}
			var total float64
			for _, m := range members {
				total += m.Total
			}
			transferModel.Total = total

			if err := tx.Create(&transferModel).Error; err != nil {
				return fmt.Errorf("create transfer: %w", err)
			}

			for _, m := range members {
				detail := models.OrderTransferDetailModel{
					TransferID: transferModel.ID,
					OrderID:    m.ID,
					Status:     domain.DetailChecking,
				}
				if err := tx.Create(&detail).Error; err != nil {
					return fmt.Errorf("create detail: %w", err)
				}
				if err := tx.Model(&models.OrderModel{}).
					Where("id = ?", m.ID).
					Update("order_transfer_id", transferModel.ID).Error; err != nil {
					return fmt.Errorf("attach order: %w", err)
				}
			}

			created = append(created, mappers.ToDomainTransfer(&transferModel))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
