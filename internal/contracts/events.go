package contracts

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionRecorded      = "cashback.transaction.recorded"
	EventTransactionStatusChanged = "cashback.transaction.status_changed"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type TransactionRecordedPayload struct {
	TransactionID    string `json:"transaction_id"`
	ExternalID       string `json:"external_transaction_id"`
	Network          string `json:"network"`
	UserID           string `json:"user_id"`
	StoreID          string `json:"store_id"`
	OrderAmount      string `json:"order_amount"`
	CommissionAmount string `json:"commission_amount"`
	CashbackAmount   string `json:"cashback_amount"`
	Status           string `json:"status"`
	RecordedAt       string `json:"recorded_at"`
}

type TransactionStatusChangedPayload struct {
	TransactionID  string `json:"transaction_id"`
	ExternalID     string `json:"external_transaction_id"`
	UserID         string `json:"user_id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
	NetworkStatus  string `json:"network_status"`
	ChangedAt      string `json:"changed_at"`
}
