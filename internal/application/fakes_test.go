package application

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

// memoryStore backs every repository port with maps so the reconciler can be
// exercised without a database.
type memoryStore struct {
	mu           sync.Mutex
	clicks       map[string]domain.Click
	stores       map[uuid.UUID]domain.Store
	transactions map[string]domain.Transaction
	admins       map[uuid.UUID]bool
	outbox       []ports.OutboxEvent

	clickLookups int
	failUpsert   error
	failClick    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		clicks:       map[string]domain.Click{},
		stores:       map[uuid.UUID]domain.Store{},
		transactions: map[string]domain.Transaction{},
		admins:       map[uuid.UUID]bool{},
	}
}

func (m *memoryStore) Create(_ context.Context, row domain.Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failClick != nil {
		return m.failClick
	}
	if _, ok := m.clicks[row.ClickID]; ok {
		return domain.ErrConflict
	}
	s, ok := m.stores[row.StoreID]
	if !ok {
		return domain.ErrNotFound
	}
	s.TotalClicks++
	m.stores[row.StoreID] = s
	m.clicks[row.ClickID] = row
	return nil
}

func (m *memoryStore) GetByClickID(_ context.Context, clickID string) (domain.Click, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clickLookups++
	c, ok := m.clicks[clickID]
	if !ok {
		return domain.Click{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *memoryStore) GetByID(_ context.Context, storeID uuid.UUID) (domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[storeID]
	if !ok {
		return domain.Store{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) UpdateCashbackRate(_ context.Context, storeID uuid.UUID, rate decimal.Decimal, at time.Time) (domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[storeID]
	if !ok {
		return domain.Store{}, domain.ErrNotFound
	}
	s.CashbackRate = rate
	s.UpdatedAt = at
	m.stores[storeID] = s
	return s, nil
}

func (m *memoryStore) Upsert(_ context.Context, params ports.UpsertTransactionParams) (ports.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		return ports.UpsertResult{}, m.failUpsert
	}
	row := params.Row
	var res ports.UpsertResult
	if existing, ok := m.transactions[row.TransactionID]; ok {
		res.PreviousStatus = existing.Status
		existing.Status = row.Status
		existing.NetworkStatus = row.NetworkStatus
		existing.NetworkUpdatedAt = row.NetworkUpdatedAt
		res.Transaction = existing
	} else {
		res.Transaction = row
		res.Created = true
	}
	var effects ports.UpsertEffects
	if params.Effects != nil {
		effects = params.Effects(res)
	}
	if effects.Conversion != nil {
		s, ok := m.stores[effects.Conversion.StoreID]
		if !ok {
			return ports.UpsertResult{}, domain.ErrUnknownStore
		}
		s.TotalConversions++
		s.TotalCommissionEarned = s.TotalCommissionEarned.Add(effects.Conversion.Commission)
		m.stores[s.ID] = s
	}
	if effects.Outbox != nil {
		m.outbox = append(m.outbox, *effects.Outbox)
	}
	m.transactions[row.TransactionID] = res.Transaction
	return res, nil
}

func (m *memoryStore) GetByExternalID(_ context.Context, externalID string) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[externalID]
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *memoryStore) List(_ context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, 0, len(m.transactions))
	for _, t := range m.transactions {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.StoreID != uuid.Nil && t.StoreID != filter.StoreID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	if filter.Offset >= len(out) {
		return []domain.Transaction{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memoryStore) IsAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	isAdmin, ok := m.admins[userID]
	if !ok {
		return false, domain.ErrNotFound
	}
	return isAdmin, nil
}

func (m *memoryStore) store(id uuid.UUID) domain.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stores[id]
}

func (m *memoryStore) outboxTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.outbox))
	for _, e := range m.outbox {
		types = append(types, e.EventType)
	}
	return types
}

type fakeSource struct {
	records []json.RawMessage
	err     error
	calls   int
}

func (f *fakeSource) FetchTransactions(_ context.Context, _ domain.NetworkKind) ([]json.RawMessage, error) {
	f.calls++
	return f.records, f.err
}

type fakeLock struct {
	held     map[string]bool
	released []string
	err      error
}

func (l *fakeLock) TryAcquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	return func(context.Context) error {
		delete(l.held, key)
		l.released = append(l.released, key)
		return nil
	}, true, nil
}

type fakeIdentity struct {
	tokens map[string]ports.Identity
}

func (f fakeIdentity) VerifyAccessToken(_ context.Context, token string) (ports.Identity, error) {
	id, ok := f.tokens[token]
	if !ok {
		return ports.Identity{}, errors.New("token rejected")
	}
	return id, nil
}

type failingAdmins struct{ err error }

func (f failingAdmins) IsAdmin(context.Context, uuid.UUID) (bool, error) { return false, f.err }
