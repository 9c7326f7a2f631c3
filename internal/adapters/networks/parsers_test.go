package networks

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	w, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.Truef(t, w.Equal(got), "want %s, got %s", want, got)
}

func TestAWINParserReadsNotification(t *testing.T) {
	raw := []byte(`{
		"transactionId": 987654,
		"advertiserId": "1001",
		"clickRef": "abc123",
		"commissionAmount": "4.50",
		"orderRef": "ORD-77",
		"saleAmount": 90,
		"transactionDate": "2024-03-01T10:15:00Z",
		"status": "Approved"
	}`)

	event, err := AWINParser{}.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.NetworkAWIN, event.Network)
	assert.Equal(t, "987654", event.ExternalTransactionID)
	assert.Equal(t, "abc123", event.ClickCorrelationID)
	assert.Equal(t, "ORD-77", event.OrderID)
	assertAmount(t, "90", event.SaleAmount)
	assertAmount(t, "4.50", event.CommissionAmount)
	assert.Equal(t, domain.NetworkStatusApproved, event.NetworkStatus)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), event.EventTimestamp)
}

func TestAWINParserFallsBackToValidationDate(t *testing.T) {
	event, err := AWINParser{}.Parse([]byte(`{"transactionId":"t","clickRef":"c","validationDate":"2024-03-02 08:00:00","status":"pending"}`))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), event.EventTimestamp)
	assert.True(t, event.SaleAmount.IsZero())
}

func TestCJParserFoldsStatuses(t *testing.T) {
	cases := map[string]string{
		"closed":    domain.NetworkStatusApproved,
		"Closed":    domain.NetworkStatusApproved,
		"void":      domain.NetworkStatusDeclined,
		"cancelled": domain.NetworkStatusDeclined,
		"corrected": domain.NetworkStatusDeclined,
		"new":       domain.NetworkStatusPending,
		"locked":    domain.NetworkStatusPending,
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			event, err := CJParser{}.Parse([]byte(`{"actionTrackerId":"A1","pubData":"click-9","saleAmount":"20.00","commissionAmount":"2","actionStatus":"` + raw + `"}`))
			require.NoError(t, err)
			assert.Equal(t, want, event.NetworkStatus)
			assert.Equal(t, normalizeStatus(raw), event.RawNetworkStatus)
			assert.Equal(t, "click-9", event.ClickCorrelationID)
			assert.Equal(t, domain.NetworkCJ, event.Network)
		})
	}
}

func TestShareASaleParserFoldsStatuses(t *testing.T) {
	cases := map[string]string{
		"approved": domain.NetworkStatusApproved,
		"void":     domain.NetworkStatusDeclined,
		"pending":  domain.NetworkStatusPending,
		"locked":   domain.NetworkStatusPending,
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			event, err := ShareASaleParser{}.Parse([]byte(`{"transactionId":55,"clickId":"c-1","saleAmount":12.5,"commissionAmount":1.25,"orderNumber":7,"transDate":"03/04/2024 13:45:00","status":"` + raw + `"}`))
			require.NoError(t, err)
			assert.Equal(t, want, event.NetworkStatus)
			assert.Equal(t, "55", event.ExternalTransactionID)
			assert.Equal(t, "7", event.OrderID)
			assert.Equal(t, time.Date(2024, 3, 4, 13, 45, 0, 0, time.UTC), event.EventTimestamp)
		})
	}
}

func TestParsersRejectMalformedPayloads(t *testing.T) {
	parsers := []interface {
		Parse([]byte) (domain.CanonicalEvent, error)
	}{AWINParser{}, CJParser{}, ShareASaleParser{}}

	for _, p := range parsers {
		_, err := p.Parse([]byte(`{not json`))
		assert.ErrorIs(t, err, domain.ErrMalformedPayload)

		_, err = p.Parse([]byte(`{"saleAmount":"lots"}`))
		assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	}

	_, err := AWINParser{}.Parse([]byte(`{"transactionId":"t","clickRef":"c","transactionDate":"yesterday"}`))
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	for _, kind := range domain.AllNetworks() {
		p, err := reg.Parser(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, p.Kind())
		assert.NotEmpty(t, p.SignatureHeader())
		assert.NotEmpty(t, p.ClickRefParam())
	}

	_, err := NewRegistry(AWINParser{}).Parser(domain.NetworkCJ)
	assert.ErrorIs(t, err, domain.ErrUnsupportedNetwork)
}
