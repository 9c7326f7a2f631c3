package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeraceo-pixel/cashback/internal/adapters/networks"
	"github.com/veeraceo-pixel/cashback/internal/adapters/postgres"
	"github.com/veeraceo-pixel/cashback/internal/adapters/security"
	"github.com/veeraceo-pixel/cashback/internal/application"
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const webhookSecret = "whsec_router"

type testEnv struct {
	router     http.Handler
	repos      postgres.Repositories
	storeID    uuid.UUID
	adminToken string
	userToken  string
	listing    []byte
}

func newTestEnv(t *testing.T, readiness func(context.Context) error) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))

	env := &testEnv{repos: postgres.NewRepositories(db), storeID: uuid.New()}
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO stores (id, name, network, affiliate_url, cashback_rate, total_clicks, total_conversions, total_commission_earned, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?, ?)`,
		env.storeID, "Example Shop", "awin", "https://www.awin1.com/cread.php?awinmid=1001", "5", now, now,
	).Error)
	require.NoError(t, env.repos.Clicks.Create(context.Background(), domain.Click{
		ID: uuid.New(), UserID: uuid.New(), StoreID: env.storeID, ClickID: "click-1", CreatedAt: now,
	}))

	adminID, userID := uuid.New(), uuid.New()
	require.NoError(t, db.Exec(`INSERT INTO users (id, email, is_admin) VALUES (?, ?, ?), (?, ?, ?)`,
		adminID, "admin@example.com", true, userID, "user@example.com", false).Error)

	verifier, err := security.NewSupabaseTokenVerifier("jwt-secret", "")
	require.NoError(t, err)
	env.adminToken, err = verifier.IssueTestToken(adminID, "admin@example.com", time.Hour)
	require.NoError(t, err)
	env.userToken, err = verifier.IssueTestToken(userID, "user@example.com", time.Hour)
	require.NoError(t, err)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(env.listing)
	}))
	t.Cleanup(api.Close)
	env.listing = []byte(`[]`)

	svc := application.NewService(application.Dependencies{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clicks:       env.repos.Clicks,
		Stores:       env.repos.Stores,
		Transactions: env.repos.Transactions,
		Admins:       env.repos.Users,
		Parsers:      networks.DefaultRegistry(),
		Signatures:   security.NewHMACVerifier(webhookSecret, nil),
		Identity:     verifier,
		Source: networks.NewAPIClient(api.Client(), map[domain.NetworkKind]networks.Endpoint{
			domain.NetworkAWIN: {URL: api.URL, APIToken: "awin-token"},
		}, nil),
	})
	env.router = NewRouter(NewHandler(svc, readiness))
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, into any) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.Equal(t, "success", envelope.Status, rr.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, into))
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Code
}

func awinWebhook(txID, clickRef, status string) []byte {
	return []byte(fmt.Sprintf(`{"transactionId":%q,"clickRef":%q,"status":%q,"saleAmount":"100.00","commissionAmount":"10.00"}`, txID, clickRef, status))
}

func signed(body []byte) map[string]string {
	return map[string]string{"X-Awin-Signature": security.SignHex(webhookSecret, body)}
}

func TestWebhookRecordsAndDeduplicates(t *testing.T) {
	env := newTestEnv(t, nil)
	body := awinWebhook("tx-1", "click-1", "pending")

	rr := env.do(t, http.MethodPost, "/api/webhooks/awin", "", body, signed(body))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var ack struct {
		Status  string `json:"status"`
		Created bool   `json:"created"`
	}
	decodeData(t, rr, &ack)
	assert.True(t, ack.Created)
	assert.Equal(t, "pending", ack.Status)

	approved := awinWebhook("tx-1", "click-1", "approved")
	rr = env.do(t, http.MethodPost, "/api/webhooks/awin", "", approved, signed(approved))
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &ack)
	assert.False(t, ack.Created)
	assert.Equal(t, "confirmed", ack.Status)

	store, err := env.repos.Stores.GetByID(context.Background(), env.storeID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, store.TotalConversions)
}

func TestWebhookAcceptsGenericSignatureHeader(t *testing.T) {
	env := newTestEnv(t, nil)
	body := awinWebhook("tx-1", "click-1", "pending")

	rr := env.do(t, http.MethodPost, "/api/webhooks/awin", "", body, map[string]string{
		"X-Webhook-Signature": "sha256=" + security.SignHex(webhookSecret, body),
	})
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestWebhookErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	good := awinWebhook("tx-1", "click-1", "pending")
	unknownClick := awinWebhook("tx-2", "nope", "pending")
	malformed := []byte(`{"transactionId":"tx-3"}`)

	cases := []struct {
		name    string
		path    string
		body    []byte
		headers map[string]string
		status  int
		code    string
	}{
		{"bad signature", "/api/webhooks/awin", good, map[string]string{"X-Awin-Signature": "00ff"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing signature", "/api/webhooks/awin", good, nil, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unsupported network", "/api/webhooks/rakuten", good, signed(good), http.StatusNotFound, "UNSUPPORTED_NETWORK"},
		{"unknown click", "/api/webhooks/awin", unknownClick, signed(unknownClick), http.StatusNotFound, "UNKNOWN_CLICK"},
		{"malformed", "/api/webhooks/awin", malformed, signed(malformed), http.StatusBadRequest, "MALFORMED_PAYLOAD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, tc.path, "", tc.body, tc.headers)
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
			assert.Equal(t, tc.code, errorCode(t, rr))
		})
	}

	_, err := env.repos.Transactions.GetByExternalID(context.Background(), "tx-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWebhookRejectsOversizedBody(t *testing.T) {
	env := newTestEnv(t, nil)
	body := bytes.Repeat([]byte("a"), maxWebhookBodyBytes+1)

	rr := env.do(t, http.MethodPost, "/api/webhooks/awin", "", body, signed(body))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestRecordClick(t *testing.T) {
	env := newTestEnv(t, nil)
	body := []byte(fmt.Sprintf(`{"store_id":%q}`, env.storeID))

	rr := env.do(t, http.MethodPost, "/api/v1/clicks", env.userToken, body, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var res struct {
		ClickID     string `json:"click_id"`
		TrackingURL string `json:"tracking_url"`
	}
	decodeData(t, rr, &res)
	assert.Contains(t, res.TrackingURL, "clickref="+res.ClickID)

	rr = env.do(t, http.MethodPost, "/api/v1/clicks", "", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/v1/clicks", env.userToken, []byte(`{"store_id":"x"}`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/v1/admin/session", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/admin/session", "not-a-jwt", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/admin/session", env.userToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rr))

	rr = env.do(t, http.MethodGet, "/api/v1/admin/session", env.adminToken, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var session struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	}
	decodeData(t, rr, &session)
	assert.Equal(t, "admin@example.com", session.Email)
	assert.True(t, session.IsAdmin)
}

func TestAdminTransactionsAndStores(t *testing.T) {
	env := newTestEnv(t, nil)
	body := awinWebhook("tx-1", "click-1", "approved")
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/webhooks/awin", "", body, signed(body)).Code)

	rr := env.do(t, http.MethodGet, "/api/v1/admin/transactions?status=confirmed&limit=10", env.adminToken, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var rows []map[string]any
	decodeData(t, rr, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "tx-1", rows[0]["transaction_id"])

	rr = env.do(t, http.MethodGet, "/api/v1/admin/transactions?limit=ten", env.adminToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	path := "/api/v1/admin/stores/" + env.storeID.String()
	rr = env.do(t, http.MethodPatch, path, env.adminToken, []byte(`{"cashback_rate":"6.5"}`), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, path, env.adminToken, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var store struct {
		CashbackRate     string `json:"cashback_rate"`
		TotalConversions int64  `json:"total_conversions"`
	}
	decodeData(t, rr, &store)
	assert.Equal(t, "6.5", store.CashbackRate)
	assert.EqualValues(t, 1, store.TotalConversions)

	rr = env.do(t, http.MethodPatch, path, env.adminToken, []byte(`{"cashback_rate":150}`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = env.do(t, http.MethodPatch, path, env.adminToken, []byte(`{}`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/v1/admin/stores/"+uuid.NewString(), env.adminToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminTriggerSync(t *testing.T) {
	env := newTestEnv(t, nil)
	env.listing = []byte(`[` + string(awinWebhook("tx-10", "click-1", "approved")) + `,` + string(awinWebhook("tx-11", "gone", "approved")) + `]`)

	rr := env.do(t, http.MethodPost, "/api/v1/admin/sync/awin", env.adminToken, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var report struct {
		Fetched   int `json:"fetched"`
		Processed int `json:"processed"`
		Failed    int `json:"failed"`
	}
	decodeData(t, rr, &report)
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Failed)

	rr = env.do(t, http.MethodPost, "/api/v1/admin/sync/rakuten", env.adminToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthReadinessAndMetrics(t *testing.T) {
	healthy := newTestEnv(t, func(context.Context) error { return nil })
	rr := healthy.do(t, http.MethodGet, "/healthz", "", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	assert.Equal(t, http.StatusOK, healthy.do(t, http.MethodGet, "/readyz", "", nil, nil).Code)
	assert.Equal(t, http.StatusOK, healthy.do(t, http.MethodGet, "/metrics", "", nil, nil).Code)

	rr = healthy.do(t, http.MethodGet, "/healthz", "", nil, map[string]string{"X-Request-Id": "req-42"})
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-Id"))
}

func TestReadinessFailure(t *testing.T) {
	env := newTestEnv(t, func(context.Context) error { return errors.New("postgres down") })
	rr := env.do(t, http.MethodGet, "/readyz", "", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "NOT_READY", errorCode(t, rr))
}

func TestMapDomainErrorWrapsStorage(t *testing.T) {
	status, code, _ := mapDomainError(fmt.Errorf("%w: upsert: %w", domain.ErrStorage, errors.New("timeout")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "STORAGE_ERROR", code)

	status, code, _ = mapDomainError(domain.ErrUnknownStore)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "UNKNOWN_STORE", code)
}
