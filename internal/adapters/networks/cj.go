package networks

import (
	"github.com/shopspring/decimal"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

type cjPayload struct {
	ActionTrackerID  flexString          `json:"actionTrackerId"`
	AdvertiserID     flexString          `json:"advertiserId"`
	OrderID          flexString          `json:"orderId"`
	SaleAmount       decimal.NullDecimal `json:"saleAmount"`
	CommissionAmount decimal.NullDecimal `json:"commissionAmount"`
	PubData          flexString          `json:"pubData"`
	EventDate        string              `json:"eventDate"`
	ActionStatus     string              `json:"actionStatus"`
}

// CJParser reads Commission Junction action notifications. The click id travels
// in pubData; closed actions are final and count as approved.
type CJParser struct{}

func (CJParser) Kind() domain.NetworkKind { return domain.NetworkCJ }

func (CJParser) SignatureHeader() string { return "X-CJ-Signature" }

func (CJParser) ClickRefParam() string { return "sid" }

func (CJParser) Parse(raw []byte) (domain.CanonicalEvent, error) {
	var p cjPayload
	if err := decode(raw, &p); err != nil {
		return domain.CanonicalEvent{}, err
	}
	ts, err := parseTimestamp(p.EventDate)
	if err != nil {
		return domain.CanonicalEvent{}, err
	}
	rawStatus := normalizeStatus(p.ActionStatus)
	return domain.CanonicalEvent{
		Network:               domain.NetworkCJ,
		ExternalTransactionID: p.ActionTrackerID.String(),
		ClickCorrelationID:    p.PubData.String(),
		SaleAmount:            amount(p.SaleAmount),
		CommissionAmount:      amount(p.CommissionAmount),
		OrderID:               p.OrderID.String(),
		NetworkStatus:         cjStatus(rawStatus),
		RawNetworkStatus:      rawStatus,
		EventTimestamp:        ts,
	}, nil
}

func cjStatus(raw string) string {
	switch raw {
	case "closed":
		return domain.NetworkStatusApproved
	case "void", "cancelled", "corrected":
		return domain.NetworkStatusDeclined
	default:
		return domain.NetworkStatusPending
	}
}
