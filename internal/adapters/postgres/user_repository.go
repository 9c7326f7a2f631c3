package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Select("id", "is_admin").Where("id = ?", userID).Take(&rec).Error; err != nil {
		return false, notFound(err)
	}
	return rec.IsAdmin, nil
}
