package application

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/veeraceo-pixel/cashback/internal/contracts"
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

func (s *Service) transactionRecordedEvent(tx domain.Transaction, now time.Time) *ports.OutboxEvent {
	return s.newOutboxEvent(contracts.EventTransactionRecorded, tx.UserID.String(), contracts.TransactionRecordedPayload{
		TransactionID:    tx.ID.String(),
		ExternalID:       tx.TransactionID,
		Network:          string(tx.Network),
		UserID:           tx.UserID.String(),
		StoreID:          tx.StoreID.String(),
		OrderAmount:      tx.OrderAmount.StringFixed(2),
		CommissionAmount: tx.CommissionAmount.StringFixed(2),
		CashbackAmount:   tx.CashbackAmount.StringFixed(2),
		Status:           string(tx.Status),
		RecordedAt:       now.Format(time.RFC3339),
	}, now)
}

func (s *Service) transactionStatusChangedEvent(tx domain.Transaction, previous domain.TransactionStatus, now time.Time) *ports.OutboxEvent {
	return s.newOutboxEvent(contracts.EventTransactionStatusChanged, tx.UserID.String(), contracts.TransactionStatusChangedPayload{
		TransactionID:  tx.ID.String(),
		ExternalID:     tx.TransactionID,
		UserID:         tx.UserID.String(),
		PreviousStatus: string(previous),
		Status:         string(tx.Status),
		NetworkStatus:  tx.NetworkStatus,
		ChangedAt:      now.Format(time.RFC3339),
	}, now)
}

// newOutboxEvent wraps data in the shared envelope. Events that fail to encode are
// skipped rather than failing the reconciliation they describe.
func (s *Service) newOutboxEvent(eventType, partitionKey string, data any, now time.Time) *ports.OutboxEvent {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	eventID := uuid.New()
	envelope, err := json.Marshal(contracts.EventEnvelope{
		EventID:          eventID.String(),
		EventType:        eventType,
		OccurredAt:       now,
		PartitionKeyPath: "user_id",
		PartitionKey:     partitionKey,
		SourceService:    s.cfg.ServiceName,
		TraceID:          uuid.NewString(),
		SchemaVersion:    "v1",
		Data:             raw,
	})
	if err != nil {
		return nil
	}
	return &ports.OutboxEvent{
		EventID:      eventID,
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      envelope,
		OccurredAt:   now,
	}
}
