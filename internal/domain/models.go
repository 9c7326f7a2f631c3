package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Click struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	StoreID   uuid.UUID `json:"store_id"`
	ClickID   string    `json:"click_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Network               NetworkKind     `json:"network"`
	AffiliateURL          string          `json:"affiliate_url"`
	CashbackRate          decimal.Decimal `json:"cashback_rate"`
	TotalClicks           int64           `json:"total_clicks"`
	TotalConversions      int64           `json:"total_conversions"`
	TotalCommissionEarned decimal.Decimal `json:"total_commission_earned"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// Transaction amounts and rates are fixed when the row is first written.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"user_id"`
	StoreID          uuid.UUID         `json:"store_id"`
	ClickID          uuid.UUID         `json:"click_id"`
	TransactionID    string            `json:"transaction_id"`
	OrderID          string            `json:"order_id"`
	OrderAmount      decimal.Decimal   `json:"order_amount"`
	CommissionRate   decimal.Decimal   `json:"commission_rate"`
	CommissionAmount decimal.Decimal   `json:"commission_amount"`
	CashbackRate     decimal.Decimal   `json:"cashback_rate"`
	CashbackAmount   decimal.Decimal   `json:"cashback_amount"`
	Status           TransactionStatus `json:"status"`
	NetworkStatus    string            `json:"network_status"`
	Network          NetworkKind       `json:"network"`
	TransactionDate  time.Time         `json:"transaction_date"`
	NetworkUpdatedAt time.Time         `json:"network_updated_at"`
	CreatedAt        time.Time         `json:"created_at"`
}

type UserProfile struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
}
