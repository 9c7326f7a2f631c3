package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

type SignatureVerifier interface {
	Verify(kind domain.NetworkKind, payload []byte, signature string) error
}

type Identity struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// IdentityVerifier validates access tokens issued by the external identity provider.
type IdentityVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (Identity, error)
}
