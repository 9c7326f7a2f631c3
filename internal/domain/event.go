package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalEvent is the network-independent shape every parser produces.
// NetworkStatus is already folded to approved, declined or pending; RawNetworkStatus
// keeps the network's own word for it.
type CanonicalEvent struct {
	Network               NetworkKind
	ExternalTransactionID string
	ClickCorrelationID    string
	SaleAmount            decimal.Decimal
	CommissionAmount      decimal.Decimal
	OrderID               string
	NetworkStatus         string
	RawNetworkStatus      string
	EventTimestamp        time.Time
}

func (e CanonicalEvent) Validate() error {
	if strings.TrimSpace(e.ExternalTransactionID) == "" {
		return fmt.Errorf("%w: missing transaction id", ErrMalformedPayload)
	}
	if strings.TrimSpace(e.ClickCorrelationID) == "" {
		return fmt.Errorf("%w: missing click reference", ErrMalformedPayload)
	}
	if e.SaleAmount.IsNegative() {
		return fmt.Errorf("%w: negative sale amount", ErrMalformedPayload)
	}
	if e.CommissionAmount.IsNegative() {
		return fmt.Errorf("%w: negative commission amount", ErrMalformedPayload)
	}
	return nil
}

// StoredNetworkStatus is the value persisted in network_status.
func (e CanonicalEvent) StoredNetworkStatus() string {
	if e.RawNetworkStatus != "" {
		return e.RawNetworkStatus
	}
	return e.NetworkStatus
}
