package application

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

type Dependencies struct {
	Config       Config
	Logger       *slog.Logger
	Clicks       ports.ClickRepository
	Stores       ports.StoreRepository
	Transactions ports.TransactionRepository
	Admins       ports.AdminDirectory
	Parsers      ports.ParserRegistry
	Signatures   ports.SignatureVerifier
	Identity     ports.IdentityVerifier
	Source       ports.TransactionSource
	SyncLock     ports.SyncLock
}

// Service holds the reconciler and the admin use-cases around it. It keeps no
// mutable state between calls; consistency is left to the repositories.
type Service struct {
	cfg          Config
	logger       *slog.Logger
	clicks       ports.ClickRepository
	stores       ports.StoreRepository
	transactions ports.TransactionRepository
	admins       ports.AdminDirectory
	parsers      ports.ParserRegistry
	signatures   ports.SignatureVerifier
	identity     ports.IdentityVerifier
	source       ports.TransactionSource
	syncLock     ports.SyncLock
	nowFn        func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cashback-reconciler"
	}
	if cfg.SyncLockTTL <= 0 {
		cfg.SyncLockTTL = 30 * time.Minute
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 50
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 500
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:          cfg,
		logger:       logger.With("module", "application", "layer", "application"),
		clicks:       deps.Clicks,
		stores:       deps.Stores,
		transactions: deps.Transactions,
		admins:       deps.Admins,
		parsers:      deps.Parsers,
		signatures:   deps.Signatures,
		identity:     deps.Identity,
		source:       deps.Source,
		syncLock:     deps.SyncLock,
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}

// storageError tags repository faults so the boundary reports them as retryable.
func storageError(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
