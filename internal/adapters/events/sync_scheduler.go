package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/veeraceo-pixel/cashback/internal/adapters/metrics"
	"github.com/veeraceo-pixel/cashback/internal/application"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

type Syncer interface {
	PollAndSync(ctx context.Context, kind domain.NetworkKind) (application.SyncReport, error)
}

// SyncScheduler polls each enabled network once at start and then every interval.
type SyncScheduler struct {
	logger   *slog.Logger
	syncer   Syncer
	networks []domain.NetworkKind
	interval time.Duration
}

func NewSyncScheduler(logger *slog.Logger, syncer Syncer, networks []domain.NetworkKind, interval time.Duration) *SyncScheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &SyncScheduler{
		logger:   logger.With("module", "events.sync_scheduler", "layer", "adapter"),
		syncer:   syncer,
		networks: networks,
		interval: interval,
	}
}

func (s *SyncScheduler) Run(ctx context.Context) error {
	if len(s.networks) == 0 {
		s.logger.InfoContext(ctx, "no networks enabled for polling",
			"operation", "sync_schedule",
			"outcome", "idle",
		)
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		// Failures are logged and counted per network; the next tick retries.
		_, _ = s.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce syncs every enabled network in turn.
func (s *SyncScheduler) RunOnce(ctx context.Context) ([]application.SyncReport, error) {
	return s.Sync(ctx, s.networks)
}

// Sync polls the given networks in order. One network failing does not stop the
// others; every failure is returned joined.
func (s *SyncScheduler) Sync(ctx context.Context, kinds []domain.NetworkKind) ([]application.SyncReport, error) {
	reports := make([]application.SyncReport, 0, len(kinds))
	var errs []error
	for _, kind := range kinds {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := s.syncer.PollAndSync(ctx, kind)
		network := string(kind)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			metrics.SyncRunsTotal.WithLabelValues(network, "failure").Inc()
			s.logger.ErrorContext(ctx, "network sync failed",
				"operation", "sync_network",
				"outcome", "failure",
				"network", network,
				"error", err,
			)
		case report.Skipped:
			metrics.SyncRunsTotal.WithLabelValues(network, "skipped").Inc()
		default:
			metrics.SyncRunsTotal.WithLabelValues(network, "success").Inc()
		}
		metrics.SyncElementsTotal.WithLabelValues(network, "processed").Add(float64(report.Processed))
		metrics.SyncElementsTotal.WithLabelValues(network, "failed").Add(float64(report.Failed))
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}
