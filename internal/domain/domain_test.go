package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(t, want).Equal(got), "want %s, got %s", want, got)
}

func TestMapNetworkStatus(t *testing.T) {
	cases := map[string]TransactionStatus{
		"approved":   StatusConfirmed,
		" Approved ": StatusConfirmed,
		"declined":   StatusCancelled,
		"DECLINED":   StatusCancelled,
		"pending":    StatusPending,
		"":           StatusPending,
		"locked":     StatusPending,
		"closed":     StatusPending,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapNetworkStatus(in), "input %q", in)
	}
}

func TestParseTransactionStatus(t *testing.T) {
	status, err := ParseTransactionStatus(" Confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseTransactionStatus("paid")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseNetworkKind(t *testing.T) {
	kind, err := ParseNetworkKind("AWIN")
	require.NoError(t, err)
	assert.Equal(t, NetworkAWIN, kind)

	_, err = ParseNetworkKind("rakuten")
	assert.ErrorIs(t, err, ErrUnsupportedNetwork)
	assert.Len(t, AllNetworks(), 3)
}

func TestComputeAmounts(t *testing.T) {
	got := ComputeAmounts(dec(t, "100"), dec(t, "8"), dec(t, "5"))
	assertDecimal(t, "8", got.CommissionRate)
	assertDecimal(t, "5", got.CashbackRate)
	assertDecimal(t, "5.00", got.CashbackAmount)
}

func TestComputeAmountsRounds(t *testing.T) {
	got := ComputeAmounts(dec(t, "49.99"), dec(t, "3.5"), dec(t, "4.5"))
	assertDecimal(t, "7.0014", got.CommissionRate)
	assertDecimal(t, "2.25", got.CashbackAmount)
}

func TestComputeAmountsZeroSale(t *testing.T) {
	got := ComputeAmounts(decimal.Zero, dec(t, "3"), dec(t, "5"))
	assert.True(t, got.CommissionRate.IsZero())
	assert.True(t, got.CashbackAmount.IsZero())
}

func TestComputeAmountsRateAboveHundred(t *testing.T) {
	got := ComputeAmounts(dec(t, "0.50"), dec(t, "10"), dec(t, "5"))
	assertDecimal(t, "2000", got.CommissionRate)
}

func TestValidCashbackRate(t *testing.T) {
	assert.True(t, ValidCashbackRate(decimal.Zero))
	assert.True(t, ValidCashbackRate(dec(t, "100")))
	assert.True(t, ValidCashbackRate(dec(t, "2.75")))
	assert.False(t, ValidCashbackRate(dec(t, "-0.01")))
	assert.False(t, ValidCashbackRate(dec(t, "100.01")))
}

func TestCanonicalEventValidate(t *testing.T) {
	valid := CanonicalEvent{
		Network:               NetworkAWIN,
		ExternalTransactionID: "tx-1",
		ClickCorrelationID:    "click-1",
		SaleAmount:            dec(t, "10"),
		CommissionAmount:      dec(t, "1"),
		EventTimestamp:        time.Now(),
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(e *CanonicalEvent){
		"missing transaction id": func(e *CanonicalEvent) { e.ExternalTransactionID = "  " },
		"missing click":          func(e *CanonicalEvent) { e.ClickCorrelationID = "" },
		"negative sale":          func(e *CanonicalEvent) { e.SaleAmount = dec(t, "-1") },
		"negative commission":    func(e *CanonicalEvent) { e.CommissionAmount = dec(t, "-0.5") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := valid
			mutate(&e)
			err := e.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedPayload))
		})
	}
}

func TestStoredNetworkStatusPrefersRaw(t *testing.T) {
	e := CanonicalEvent{NetworkStatus: NetworkStatusApproved, RawNetworkStatus: "closed"}
	assert.Equal(t, "closed", e.StoredNetworkStatus())

	e.RawNetworkStatus = ""
	assert.Equal(t, NetworkStatusApproved, e.StoredNetworkStatus())
}
