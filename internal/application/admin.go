package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

// Authenticate asks the identity provider whether the bearer token belongs to a signed-in user.
func (s *Service) Authenticate(ctx context.Context, token string) (ports.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" || s.identity == nil {
		return ports.Identity{}, domain.ErrUnauthorized
	}
	identity, err := s.identity.VerifyAccessToken(ctx, token)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if identity.UserID == uuid.Nil {
		return ports.Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}

// AuthorizeAdmin gates the admin surface: the caller must be authenticated and
// their profile must carry the admin flag.
func (s *Service) AuthorizeAdmin(ctx context.Context, token string) (AdminSession, error) {
	identity, err := s.Authenticate(ctx, token)
	if err != nil {
		return AdminSession{}, err
	}
	isAdmin, err := s.admins.IsAdmin(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AdminSession{}, domain.ErrForbidden
		}
		return AdminSession{}, storageError("lookup admin flag", err)
	}
	if !isAdmin {
		s.logger.WarnContext(ctx, "admin access denied",
			"operation", "authorize_admin",
			"outcome", "forbidden",
			"user_id", identity.UserID,
		)
		return AdminSession{}, domain.ErrForbidden
	}
	return AdminSession{UserID: identity.UserID, Email: identity.Email}, nil
}

func (s *Service) ListTransactions(ctx context.Context, actor AdminSession, in ListTransactionsInput) ([]domain.Transaction, error) {
	if actor.UserID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	filter := ports.TransactionFilter{Limit: in.Limit, Offset: in.Offset}
	if strings.TrimSpace(in.Status) != "" {
		status, err := domain.ParseTransactionStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if strings.TrimSpace(in.StoreID) != "" {
		storeID, err := uuid.Parse(strings.TrimSpace(in.StoreID))
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.StoreID = storeID
	}
	if filter.Offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.DefaultPageSize
	}
	if filter.Limit > s.cfg.MaxPageSize {
		filter.Limit = s.cfg.MaxPageSize
	}
	rows, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, storageError("list transactions", err)
	}
	return rows, nil
}

func (s *Service) GetStore(ctx context.Context, actor AdminSession, storeID string) (domain.Store, error) {
	if actor.UserID == uuid.Nil {
		return domain.Store{}, domain.ErrUnauthorized
	}
	id, err := uuid.Parse(strings.TrimSpace(storeID))
	if err != nil {
		return domain.Store{}, domain.ErrInvalidInput
	}
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Store{}, err
		}
		return domain.Store{}, storageError("get store", err)
	}
	return store, nil
}

// UpdateStoreCashbackRate changes the rate applied to future transactions only;
// rows already written keep the rate they were computed with.
func (s *Service) UpdateStoreCashbackRate(ctx context.Context, actor AdminSession, in UpdateStoreInput) (domain.Store, error) {
	if actor.UserID == uuid.Nil {
		return domain.Store{}, domain.ErrUnauthorized
	}
	id, err := uuid.Parse(strings.TrimSpace(in.StoreID))
	if err != nil {
		return domain.Store{}, domain.ErrInvalidInput
	}
	if !domain.ValidCashbackRate(in.CashbackRate) {
		return domain.Store{}, fmt.Errorf("%w: cashback rate must be between 0 and 100", domain.ErrInvalidInput)
	}
	store, err := s.stores.UpdateCashbackRate(ctx, id, in.CashbackRate, s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Store{}, err
		}
		return domain.Store{}, storageError("update cashback rate", err)
	}
	s.logger.InfoContext(ctx, "store cashback rate updated",
		"operation", "update_store_cashback_rate",
		"outcome", "success",
		"store_id", store.ID,
		"cashback_rate", store.CashbackRate.String(),
		"actor_id", actor.UserID,
	)
	return store, nil
}

func (s *Service) TriggerSync(ctx context.Context, actor AdminSession, network string) (SyncReport, error) {
	if actor.UserID == uuid.Nil {
		return SyncReport{}, domain.ErrUnauthorized
	}
	kind, err := domain.ParseNetworkKind(network)
	if err != nil {
		return SyncReport{}, err
	}
	return s.PollAndSync(ctx, kind)
}
