package postgres

import (
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

func toDomainStore(rec storeModel) domain.Store {
	return domain.Store{
		ID:                    rec.ID,
		Name:                  rec.Name,
		Network:               domain.NetworkKind(rec.Network),
		AffiliateURL:          rec.AffiliateURL,
		CashbackRate:          rec.CashbackRate,
		TotalClicks:           rec.TotalClicks,
		TotalConversions:      rec.TotalConversions,
		TotalCommissionEarned: rec.TotalCommissionEarned,
		CreatedAt:             rec.CreatedAt.UTC(),
		UpdatedAt:             rec.UpdatedAt.UTC(),
	}
}

func toDomainClick(rec clickModel) domain.Click {
	return domain.Click{
		ID:        rec.ID,
		UserID:    rec.UserID,
		StoreID:   rec.StoreID,
		ClickID:   rec.ClickID,
		CreatedAt: rec.CreatedAt.UTC(),
	}
}

func toDomainTransaction(rec transactionModel) domain.Transaction {
	return domain.Transaction{
		ID:               rec.ID,
		UserID:           rec.UserID,
		StoreID:          rec.StoreID,
		ClickID:          rec.ClickID,
		TransactionID:    rec.TransactionID,
		OrderID:          rec.OrderID,
		OrderAmount:      rec.OrderAmount,
		CommissionRate:   rec.CommissionRate,
		CommissionAmount: rec.CommissionAmount,
		CashbackRate:     rec.CashbackRate,
		CashbackAmount:   rec.CashbackAmount,
		Status:           domain.TransactionStatus(rec.Status),
		NetworkStatus:    rec.NetworkStatus,
		Network:          domain.NetworkKind(rec.Network),
		TransactionDate:  rec.TransactionDate.UTC(),
		NetworkUpdatedAt: rec.NetworkUpdatedAt.UTC(),
		CreatedAt:        rec.CreatedAt.UTC(),
	}
}

func fromDomainTransaction(row domain.Transaction) transactionModel {
	return transactionModel{
		ID:               row.ID,
		UserID:           row.UserID,
		StoreID:          row.StoreID,
		ClickID:          row.ClickID,
		TransactionID:    row.TransactionID,
		OrderID:          row.OrderID,
		OrderAmount:      row.OrderAmount,
		CommissionRate:   row.CommissionRate,
		CommissionAmount: row.CommissionAmount,
		CashbackRate:     row.CashbackRate,
		CashbackAmount:   row.CashbackAmount,
		Status:           string(row.Status),
		NetworkStatus:    row.NetworkStatus,
		Network:          string(row.Network),
		TransactionDate:  row.TransactionDate,
		NetworkUpdatedAt: row.NetworkUpdatedAt,
		CreatedAt:        row.CreatedAt,
	}
}

func toOutboxModel(event ports.OutboxEvent) outboxModel {
	payload := event.Payload
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}
	return outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      string(payload),
		CreatedAt:    event.OccurredAt,
		FirstSeenAt:  event.OccurredAt,
	}
}

func toOutboxRecord(row outboxModel) ports.OutboxRecord {
	return ports.OutboxRecord{
		OutboxID:       row.OutboxID,
		EventType:      row.EventType,
		PartitionKey:   row.PartitionKey,
		Payload:        []byte(row.Payload),
		RetryCount:     row.RetryCount,
		LastError:      row.LastError,
		CreatedAt:      row.CreatedAt,
		FirstSeenAt:    row.FirstSeenAt,
		PublishedAt:    row.PublishedAt,
		LastErrorAt:    row.LastErrorAt,
		ClaimToken:     row.ClaimToken,
		ClaimUntil:     row.ClaimUntil,
		DeadLetteredAt: row.DeadLetteredAt,
	}
}
