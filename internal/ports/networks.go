package ports

import (
	"context"
	"encoding/json"

	"github.com/veeraceo-pixel/cashback/internal/domain"
)

// NetworkParser turns one network's native payload into a canonical event.
type NetworkParser interface {
	Kind() domain.NetworkKind
	SignatureHeader() string
	// ClickRefParam is the affiliate-link query parameter the network echoes back as the click reference.
	ClickRefParam() string
	Parse(raw []byte) (domain.CanonicalEvent, error)
}

type ParserRegistry interface {
	Parser(kind domain.NetworkKind) (NetworkParser, error)
}

// TransactionSource fetches one page of transactions from a network's listing API.
type TransactionSource interface {
	FetchTransactions(ctx context.Context, kind domain.NetworkKind) ([]json.RawMessage, error)
}
