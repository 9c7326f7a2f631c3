package networks

import (
	"github.com/shopspring/decimal"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

type awinPayload struct {
	TransactionID    flexString          `json:"transactionId"`
	AdvertiserID     flexString          `json:"advertiserId"`
	ClickRef         flexString          `json:"clickRef"`
	CommissionAmount decimal.NullDecimal `json:"commissionAmount"`
	OrderRef         flexString          `json:"orderRef"`
	SaleAmount       decimal.NullDecimal `json:"saleAmount"`
	TransactionDate  string              `json:"transactionDate"`
	ValidationDate   string              `json:"validationDate"`
	Status           string              `json:"status"`
}

// AWINParser reads AWIN transaction notifications. AWIN already reports
// approved, declined or pending.
type AWINParser struct{}

func (AWINParser) Kind() domain.NetworkKind { return domain.NetworkAWIN }

func (AWINParser) SignatureHeader() string { return "X-Awin-Signature" }

func (AWINParser) ClickRefParam() string { return "clickref" }

func (AWINParser) Parse(raw []byte) (domain.CanonicalEvent, error) {
	var p awinPayload
	if err := decode(raw, &p); err != nil {
		return domain.CanonicalEvent{}, err
	}
	date := p.TransactionDate
	if date == "" {
		date = p.ValidationDate
	}
	ts, err := parseTimestamp(date)
	if err != nil {
		return domain.CanonicalEvent{}, err
	}
	status := normalizeStatus(p.Status)
	return domain.CanonicalEvent{
		Network:               domain.NetworkAWIN,
		ExternalTransactionID: p.TransactionID.String(),
		ClickCorrelationID:    p.ClickRef.String(),
		SaleAmount:            amount(p.SaleAmount),
		CommissionAmount:      amount(p.CommissionAmount),
		OrderID:               p.OrderRef.String(),
		NetworkStatus:         status,
		RawNetworkStatus:      status,
		EventTimestamp:        ts,
	}, nil
}
