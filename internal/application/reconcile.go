package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

// Ingest authenticates a pushed webhook body and reconciles it. Nothing is read
// from storage until the signature has been checked.
func (s *Service) Ingest(ctx context.Context, kind domain.NetworkKind, payload []byte, signature string) (IngestResult, error) {
	parser, err := s.parsers.Parser(kind)
	if err != nil {
		return IngestResult{}, err
	}
	if err := s.signatures.Verify(kind, payload, signature); err != nil {
		s.logger.WarnContext(ctx, "webhook signature rejected",
			"operation", "ingest",
			"outcome", "rejected",
			"network", kind,
		)
		return IngestResult{}, err
	}
	return s.reconcile(ctx, parser, payload)
}

// PollAndSync pulls one page from the network's listing API and reconciles each
// element on its own. A failing element is counted and skipped.
func (s *Service) PollAndSync(ctx context.Context, kind domain.NetworkKind) (SyncReport, error) {
	report := SyncReport{Network: kind}
	parser, err := s.parsers.Parser(kind)
	if err != nil {
		return report, err
	}
	if s.syncLock != nil {
		release, acquired, err := s.syncLock.TryAcquire(ctx, "cashback:sync:"+string(kind), s.cfg.SyncLockTTL)
		if err != nil {
			return report, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !acquired {
			s.logger.InfoContext(ctx, "sync skipped; another run holds the lock",
				"operation", "poll_and_sync",
				"outcome", "skipped",
				"network", kind,
			)
			report.Skipped = true
			return report, nil
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.WarnContext(ctx, "sync lock release failed",
					"operation", "poll_and_sync",
					"outcome", "failure",
					"network", kind,
					"error", err,
				)
			}
		}()
	}

	records, err := s.source.FetchTransactions(ctx, kind)
	if err != nil {
		return report, fmt.Errorf("fetch %s transactions: %w", kind, err)
	}
	report.Fetched = len(records)
	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := s.reconcile(ctx, parser, raw); err != nil {
			report.Failed++
			s.logger.WarnContext(ctx, "sync element failed",
				"operation", "poll_and_sync",
				"outcome", "failure",
				"network", kind,
				"index", i,
				"error", err,
			)
			continue
		}
		report.Processed++
	}
	s.logger.InfoContext(ctx, "sync completed",
		"operation", "poll_and_sync",
		"outcome", "success",
		"network", kind,
		"fetched", report.Fetched,
		"processed", report.Processed,
		"failed", report.Failed,
	)
	return report, nil
}

func (s *Service) reconcile(ctx context.Context, parser ports.NetworkParser, raw []byte) (IngestResult, error) {
	event, err := parser.Parse(raw)
	if err != nil {
		if !errors.Is(err, domain.ErrMalformedPayload) {
			err = fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
		return IngestResult{}, err
	}
	if event.Network == "" {
		event.Network = parser.Kind()
	}
	if err := event.Validate(); err != nil {
		return IngestResult{}, err
	}

	click, err := s.clicks.GetByClickID(ctx, event.ClickCorrelationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "click not found; event dropped",
				"operation", "reconcile",
				"outcome", "dropped",
				"network", event.Network,
				"click_id", event.ClickCorrelationID,
				"external_transaction_id", event.ExternalTransactionID,
			)
			return IngestResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownClick, event.ClickCorrelationID)
		}
		return IngestResult{}, storageError("get click", err)
	}

	store, err := s.stores.GetByID(ctx, click.StoreID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.ErrorContext(ctx, "click references missing store",
				"operation", "reconcile",
				"outcome", "integrity_fault",
				"network", event.Network,
				"click_id", click.ClickID,
				"store_id", click.StoreID,
			)
			return IngestResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownStore, click.StoreID)
		}
		return IngestResult{}, storageError("get store", err)
	}

	now := s.nowFn()
	saleAmount := domain.RoundMoney(event.SaleAmount)
	commission := domain.RoundMoney(event.CommissionAmount)
	amounts := domain.ComputeAmounts(saleAmount, commission, store.CashbackRate)
	transactionDate := event.EventTimestamp.UTC()
	if event.EventTimestamp.IsZero() {
		transactionDate = now
	}
	row := domain.Transaction{
		ID:               uuid.New(),
		UserID:           click.UserID,
		StoreID:          store.ID,
		ClickID:          click.ID,
		TransactionID:    event.ExternalTransactionID,
		OrderID:          event.OrderID,
		OrderAmount:      saleAmount,
		CommissionRate:   amounts.CommissionRate,
		CommissionAmount: commission,
		CashbackRate:     amounts.CashbackRate,
		CashbackAmount:   amounts.CashbackAmount,
		Status:           domain.MapNetworkStatus(event.NetworkStatus),
		NetworkStatus:    event.StoredNetworkStatus(),
		Network:          event.Network,
		TransactionDate:  transactionDate,
		NetworkUpdatedAt: now,
		CreatedAt:        now,
	}

	res, err := s.transactions.Upsert(ctx, ports.UpsertTransactionParams{
		Row:     row,
		Effects: s.upsertEffects(commission, now),
	})
	if err != nil {
		return IngestResult{}, storageError("upsert transaction", err)
	}
	s.logger.InfoContext(ctx, "transaction reconciled",
		"operation", "reconcile",
		"outcome", "success",
		"network", event.Network,
		"external_transaction_id", res.Transaction.TransactionID,
		"status", res.Transaction.Status,
		"created", res.Created,
	)
	return IngestResult{
		TransactionID:         res.Transaction.ID,
		ExternalTransactionID: res.Transaction.TransactionID,
		Status:                res.Transaction.Status,
		Created:               res.Created,
	}, nil
}

// upsertEffects decides, from the upsert outcome, what is committed alongside the row.
// Store aggregates only move on first sight of an external id unless redeliveries count.
func (s *Service) upsertEffects(commission decimal.Decimal, now time.Time) func(ports.UpsertResult) ports.UpsertEffects {
	return func(res ports.UpsertResult) ports.UpsertEffects {
		var effects ports.UpsertEffects
		if res.Created || s.cfg.CountRedeliveries {
			effects.Conversion = &ports.StoreConversion{
				StoreID:    res.Transaction.StoreID,
				Commission: commission,
			}
		}
		switch {
		case res.Created:
			effects.Outbox = s.transactionRecordedEvent(res.Transaction, now)
		case res.PreviousStatus != res.Transaction.Status:
			effects.Outbox = s.transactionStatusChangedEvent(res.Transaction, res.PreviousStatus, now)
		}
		return effects
	}
}

// SignatureHeader names the transport header a network signs its webhooks with.
func (s *Service) SignatureHeader(kind domain.NetworkKind) (string, error) {
	parser, err := s.parsers.Parser(kind)
	if err != nil {
		return "", err
	}
	return parser.SignatureHeader(), nil
}
