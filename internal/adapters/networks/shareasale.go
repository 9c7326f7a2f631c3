package networks

import (
	"github.com/shopspring/decimal"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

type shareASalePayload struct {
	TransactionID    flexString          `json:"transactionId"`
	MerchantID       flexString          `json:"merchantId"`
	ClickID          flexString          `json:"clickId"`
	SaleAmount       decimal.NullDecimal `json:"saleAmount"`
	CommissionAmount decimal.NullDecimal `json:"commissionAmount"`
	OrderNumber      flexString          `json:"orderNumber"`
	TransDate        string              `json:"transDate"`
	Status           string              `json:"status"`
}

type ShareASaleParser struct{}

func (ShareASaleParser) Kind() domain.NetworkKind { return domain.NetworkShareASale }

func (ShareASaleParser) SignatureHeader() string { return "X-ShareASale-Signature" }

func (ShareASaleParser) ClickRefParam() string { return "afftrack" }

func (ShareASaleParser) Parse(raw []byte) (domain.CanonicalEvent, error) {
	var p shareASalePayload
	if err := decode(raw, &p); err != nil {
		return domain.CanonicalEvent{}, err
	}
	ts, err := parseTimestamp(p.TransDate)
	if err != nil {
		return domain.CanonicalEvent{}, err
	}
	rawStatus := normalizeStatus(p.Status)
	status := domain.NetworkStatusPending
	switch rawStatus {
	case "approved":
		status = domain.NetworkStatusApproved
	case "void":
		status = domain.NetworkStatusDeclined
	}
	return domain.CanonicalEvent{
		Network:               domain.NetworkShareASale,
		ExternalTransactionID: p.TransactionID.String(),
		ClickCorrelationID:    p.ClickID.String(),
		SaleAmount:            amount(p.SaleAmount),
		CommissionAmount:      amount(p.CommissionAmount),
		OrderID:               p.OrderNumber.String(),
		NetworkStatus:         status,
		RawNetworkStatus:      rawStatus,
		EventTimestamp:        ts,
	}, nil
}
