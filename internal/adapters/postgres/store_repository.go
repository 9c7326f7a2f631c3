package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"gorm.io/gorm"
)

type storeRepository struct {
	db *gorm.DB
}

func (r *storeRepository) GetByID(ctx context.Context, storeID uuid.UUID) (domain.Store, error) {
	var rec storeModel
	if err := r.db.WithContext(ctx).Where("id = ?", storeID).Take(&rec).Error; err != nil {
		return domain.Store{}, notFound(err)
	}
	return toDomainStore(rec), nil
}

// incrementStoreClicks bumps total_clicks in a single statement on tx.
func incrementStoreClicks(tx *gorm.DB, storeID uuid.UUID, at time.Time) error {
	res := tx.Model(&storeModel{}).
		Where("id = ?", storeID).
		Updates(map[string]any{
			"total_clicks": gorm.Expr("total_clicks + 1"),
			"updated_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *storeRepository) UpdateCashbackRate(ctx context.Context, storeID uuid.UUID, rate decimal.Decimal, at time.Time) (domain.Store, error) {
	var out domain.Store
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&storeModel{}).
			Where("id = ?", storeID).
			Updates(map[string]any{
				"cashback_rate": rate,
				"updated_at":    at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		var rec storeModel
		if err := tx.Where("id = ?", storeID).Take(&rec).Error; err != nil {
			return notFound(err)
		}
		out = toDomainStore(rec)
		return nil
	})
	if err != nil {
		return domain.Store{}, err
	}
	return out, nil
}

// incrementConversions is the single-statement aggregate update applied after a
// transaction write.
func incrementConversions(tx *gorm.DB, storeID uuid.UUID, commission decimal.Decimal, at time.Time) error {
	res := tx.Model(&storeModel{}).
		Where("id = ?", storeID).
		Updates(map[string]any{
			"total_conversions":       gorm.Expr("total_conversions + 1"),
			"total_commission_earned": gorm.Expr("total_commission_earned + ?", commission),
			"updated_at":              at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUnknownStore
	}
	return nil
}
