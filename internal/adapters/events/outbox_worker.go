package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/veeraceo-pixel/cashback/internal/adapters/metrics"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

// OutboxWorker relays transaction events written alongside the ledger rows to the broker.
type OutboxWorker struct {
	logger     *slog.Logger
	outbox     ports.OutboxRepository
	publisher  ports.EventPublisher
	interval   time.Duration
	batchSize  int
	claimTTL   time.Duration
	maxRetries int
	nowFn      func() time.Time
}

func NewOutboxWorker(
	logger *slog.Logger,
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	interval time.Duration,
	batchSize int,
	claimTTL time.Duration,
	maxRetries int,
) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if claimTTL <= 0 {
		claimTTL = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &OutboxWorker{
		logger:     logger.With("module", "events.outbox_worker", "layer", "adapter"),
		outbox:     outbox,
		publisher:  publisher,
		interval:   interval,
		batchSize:  batchSize,
		claimTTL:   claimTTL,
		maxRetries: maxRetries,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.processOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "outbox iteration failed",
				"operation", "outbox_process_once",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type batchStats struct {
	claimed      int
	published    int
	failed       int
	deadLettered int
}

func (w *OutboxWorker) processOnce(ctx context.Context) (batchStats, error) {
	claimToken := uuid.NewString()
	records, err := w.outbox.ClaimUnpublished(ctx, w.batchSize, claimToken, w.nowFn().Add(w.claimTTL))
	if err != nil {
		return batchStats{}, err
	}

	stats := batchStats{claimed: len(records)}
	now := w.nowFn()
	for _, rec := range records {
		if rec.RetryCount >= w.maxRetries {
			stats.deadLettered++
			metrics.OutboxPublishedTotal.WithLabelValues("dead_lettered").Inc()
			_ = w.outbox.MarkDeadLettered(ctx, rec.OutboxID, claimToken, "retry threshold reached before publish", now)
			continue
		}

		if err := w.publisher.Publish(ctx, rec.EventType, rec.Payload, rec.PartitionKey); err != nil {
			stats.failed++
			retries := rec.RetryCount + 1
			fields := []any{
				"operation", "publish_event",
				"outcome", "failure",
				"outbox_id", rec.OutboxID,
				"event_type", rec.EventType,
				"retry_count", retries,
				"error", err,
			}
			if retries >= w.maxRetries {
				stats.deadLettered++
				metrics.OutboxPublishedTotal.WithLabelValues("dead_lettered").Inc()
				w.logger.ErrorContext(ctx, "outbox message dead-lettered", fields...)
				_ = w.outbox.MarkDeadLettered(ctx, rec.OutboxID, claimToken, err.Error(), now)
				continue
			}
			metrics.OutboxPublishedTotal.WithLabelValues("retry").Inc()
			w.logger.WarnContext(ctx, "outbox publish failed; retry scheduled", fields...)
			_ = w.outbox.MarkFailed(ctx, rec.OutboxID, claimToken, err.Error(), now)
			continue
		}
		stats.published++
		metrics.OutboxPublishedTotal.WithLabelValues("published").Inc()
		_ = w.outbox.MarkPublished(ctx, rec.OutboxID, claimToken, now)
	}
	if stats.claimed > 0 {
		w.logger.InfoContext(ctx, "outbox batch processed",
			"operation", "outbox_process_once",
			"outcome", "success",
			"batch_size", stats.claimed,
			"published_count", stats.published,
			"failed_count", stats.failed,
			"dead_lettered_count", stats.deadLettered,
		)
	}
	return stats, nil
}
