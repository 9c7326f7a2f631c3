package postgres

import (
	"errors"

	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Clicks       ports.ClickRepository
	Stores       ports.StoreRepository
	Transactions ports.TransactionRepository
	Users        ports.AdminDirectory
	Outbox       ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Clicks:       &clickRepository{db: db},
		Stores:       &storeRepository{db: db},
		Transactions: &transactionRepository{db: db},
		Users:        &userRepository{db: db},
		Outbox:       &outboxRepository{db: db},
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
