package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/veeraceo-pixel/cashback/internal/domain"
	"gorm.io/gorm"
)

type clickRepository struct {
	db *gorm.DB
}

func (r *clickRepository) Create(ctx context.Context, row domain.Click) error {
	rec := clickModel{
		ID:        row.ID,
		UserID:    row.UserID,
		StoreID:   row.StoreID,
		ClickID:   row.ClickID,
		CreatedAt: row.CreatedAt,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		return incrementStoreClicks(tx, row.StoreID, time.Now().UTC())
	})
}

func (r *clickRepository) GetByClickID(ctx context.Context, clickID string) (domain.Click, error) {
	var rec clickModel
	if err := r.db.WithContext(ctx).Where("click_id = ?", strings.TrimSpace(clickID)).Take(&rec).Error; err != nil {
		return domain.Click{}, notFound(err)
	}
	return toDomainClick(rec), nil
}
