package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

type Config struct {
	ServiceName string
	// CountRedeliveries makes every accepted event bump store aggregates, not only
	// the first one seen for an external transaction id.
	CountRedeliveries bool
	SyncLockTTL       time.Duration
	DefaultPageSize   int
	MaxPageSize       int
}

type IngestResult struct {
	TransactionID         uuid.UUID
	ExternalTransactionID string
	Status                domain.TransactionStatus
	Created               bool
}

type SyncReport struct {
	Network   domain.NetworkKind
	Fetched   int
	Processed int
	Failed    int
	Skipped   bool
}

// AdminSession is an authenticated caller whose profile carries the admin flag.
type AdminSession struct {
	UserID uuid.UUID
	Email  string
}

type ClickResult struct {
	Click       domain.Click
	TrackingURL string
}

type ListTransactionsInput struct {
	Status  string
	StoreID string
	Limit   int
	Offset  int
}

type UpdateStoreInput struct {
	StoreID      string
	CashbackRate decimal.Decimal
}
