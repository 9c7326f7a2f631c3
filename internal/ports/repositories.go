package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

type ClickRepository interface {
	// Create inserts the click and bumps its store's total_clicks in one
	// database transaction. A missing store yields domain.ErrNotFound and
	// nothing is written.
	Create(ctx context.Context, row domain.Click) error
	GetByClickID(ctx context.Context, clickID string) (domain.Click, error)
}

type StoreRepository interface {
	GetByID(ctx context.Context, storeID uuid.UUID) (domain.Store, error)
	UpdateCashbackRate(ctx context.Context, storeID uuid.UUID, rate decimal.Decimal, at time.Time) (domain.Store, error)
}

type TransactionRepository interface {
	// Upsert inserts row or, when its external transaction id already exists,
	// updates only status, network_status and network_updated_at. The effects
	// returned by params.Effects are committed in the same database transaction.
	Upsert(ctx context.Context, params UpsertTransactionParams) (UpsertResult, error)
	GetByExternalID(ctx context.Context, externalID string) (domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

type UpsertTransactionParams struct {
	Row     domain.Transaction
	Effects func(UpsertResult) UpsertEffects
}

type UpsertResult struct {
	Transaction    domain.Transaction
	Created        bool
	PreviousStatus domain.TransactionStatus
}

type UpsertEffects struct {
	Outbox     *OutboxEvent
	Conversion *StoreConversion
}

// StoreConversion is applied as total_conversions+1 and
// total_commission_earned+Commission in one statement.
type StoreConversion struct {
	StoreID    uuid.UUID
	Commission decimal.Decimal
}

type TransactionFilter struct {
	Status  domain.TransactionStatus
	StoreID uuid.UUID
	Limit   int
	Offset  int
}

// AdminDirectory answers the elevated-privilege question for an authenticated user.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	FirstSeenAt    time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

type OutboxRepository interface {
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}
