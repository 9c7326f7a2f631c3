package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

// RecordClick stores a new click for the user and returns the store's affiliate
// link with the click's correlation id embedded where the network echoes it back.
func (s *Service) RecordClick(ctx context.Context, userID uuid.UUID, storeID string) (ClickResult, error) {
	if userID == uuid.Nil {
		return ClickResult{}, domain.ErrUnauthorized
	}
	id, err := uuid.Parse(strings.TrimSpace(storeID))
	if err != nil {
		return ClickResult{}, domain.ErrInvalidInput
	}
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ClickResult{}, err
		}
		return ClickResult{}, storageError("get store", err)
	}
	parser, err := s.parsers.Parser(store.Network)
	if err != nil {
		return ClickResult{}, err
	}
	link, err := parseAffiliateURL(store.AffiliateURL)
	if err != nil {
		return ClickResult{}, err
	}

	click := domain.Click{
		ID:        uuid.New(),
		UserID:    userID,
		StoreID:   store.ID,
		ClickID:   newCorrelationID(),
		CreatedAt: s.nowFn(),
	}
	if err := s.clicks.Create(ctx, click); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ClickResult{}, err
		}
		return ClickResult{}, storageError("create click", err)
	}
	q := link.Query()
	q.Set(parser.ClickRefParam(), click.ClickID)
	link.RawQuery = q.Encode()
	return ClickResult{Click: click, TrackingURL: link.String()}, nil
}

func parseAffiliateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: store has no usable affiliate url", domain.ErrInvalidInput)
	}
	return u, nil
}

func newCorrelationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
