package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type storeModel struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name                  string          `gorm:"column:name"`
	Network               string          `gorm:"column:network"`
	AffiliateURL          string          `gorm:"column:affiliate_url"`
	CashbackRate          decimal.Decimal `gorm:"column:cashback_rate;type:numeric(7,4)"`
	TotalClicks           int64           `gorm:"column:total_clicks"`
	TotalConversions      int64           `gorm:"column:total_conversions"`
	TotalCommissionEarned decimal.Decimal `gorm:"column:total_commission_earned;type:numeric(14,2)"`
	CreatedAt             time.Time       `gorm:"column:created_at"`
	UpdatedAt             time.Time       `gorm:"column:updated_at"`
}

func (storeModel) TableName() string { return "stores" }

type clickModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid"`
	ClickID   string    `gorm:"column:click_id;uniqueIndex:idx_clicks_click_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (clickModel) TableName() string { return "clicks" }

type transactionModel struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"column:user_id;type:uuid"`
	StoreID          uuid.UUID       `gorm:"column:store_id;type:uuid"`
	ClickID          uuid.UUID       `gorm:"column:click_id;type:uuid"`
	TransactionID    string          `gorm:"column:transaction_id;uniqueIndex:idx_transactions_transaction_id"`
	OrderID          string          `gorm:"column:order_id"`
	OrderAmount      decimal.Decimal `gorm:"column:order_amount;type:numeric(12,2)"`
	CommissionRate   decimal.Decimal `gorm:"column:commission_rate;type:numeric"`
	CommissionAmount decimal.Decimal `gorm:"column:commission_amount;type:numeric(12,2)"`
	CashbackRate     decimal.Decimal `gorm:"column:cashback_rate;type:numeric(7,4)"`
	CashbackAmount   decimal.Decimal `gorm:"column:cashback_amount;type:numeric(12,2)"`
	Status           string          `gorm:"column:status"`
	NetworkStatus    string          `gorm:"column:network_status"`
	Network          string          `gorm:"column:network"`
	TransactionDate  time.Time       `gorm:"column:transaction_date"`
	NetworkUpdatedAt time.Time       `gorm:"column:network_updated_at"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
}

func (transactionModel) TableName() string { return "transactions" }

type userModel struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email   string    `gorm:"column:email"`
	IsAdmin bool      `gorm:"column:is_admin"`
}

func (userModel) TableName() string { return "users" }

type outboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	FirstSeenAt    time.Time  `gorm:"column:first_seen_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "cashback_outbox" }
