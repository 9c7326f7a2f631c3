package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// Upsert relies on the unique index over transaction_id: the insert is attempted
// with ON CONFLICT DO NOTHING and a losing racer falls through to the status update.
func (r *transactionRepository) Upsert(ctx context.Context, params ports.UpsertTransactionParams) (ports.UpsertResult, error) {
	var result ports.UpsertResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := fromDomainTransaction(params.Row)
		inserted := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).Create(&rec)
		if inserted.Error != nil {
			return inserted.Error
		}

		if inserted.RowsAffected > 0 {
			result = ports.UpsertResult{Transaction: toDomainTransaction(rec), Created: true}
		} else {
			var existing transactionModel
			if err := tx.Where("transaction_id = ?", rec.TransactionID).Take(&existing).Error; err != nil {
				return err
			}
			previous := domain.TransactionStatus(existing.Status)
			if err := tx.Model(&transactionModel{}).
				Where("id = ?", existing.ID).
				Updates(map[string]any{
					"status":             rec.Status,
					"network_status":     rec.NetworkStatus,
					"network_updated_at": rec.NetworkUpdatedAt,
				}).Error; err != nil {
				return err
			}
			existing.Status = rec.Status
			existing.NetworkStatus = rec.NetworkStatus
			existing.NetworkUpdatedAt = rec.NetworkUpdatedAt
			result = ports.UpsertResult{Transaction: toDomainTransaction(existing), PreviousStatus: previous}
		}

		if params.Effects == nil {
			return nil
		}
		effects := params.Effects(result)
		if effects.Conversion != nil {
			if err := incrementConversions(tx, effects.Conversion.StoreID, effects.Conversion.Commission, rec.NetworkUpdatedAt); err != nil {
				return err
			}
		}
		if effects.Outbox != nil {
			outbox := toOutboxModel(*effects.Outbox)
			if err := tx.Create(&outbox).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ports.UpsertResult{}, err
	}
	return result, nil
}

func (r *transactionRepository) GetByExternalID(ctx context.Context, externalID string) (domain.Transaction, error) {
	var rec transactionModel
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", externalID).Take(&rec).Error; err != nil {
		return domain.Transaction{}, notFound(err)
	}
	return toDomainTransaction(rec), nil
}

func (r *transactionRepository) List(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&transactionModel{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.StoreID != uuid.Nil {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var rows []transactionModel
	if err := q.Order("created_at DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTransaction(row))
	}
	return out, nil
}
