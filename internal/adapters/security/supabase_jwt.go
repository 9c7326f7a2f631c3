package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

const defaultAudience = "authenticated"

// SupabaseTokenVerifier validates HS256 access tokens minted by the identity
// provider with its shared JWT secret. Sessions stay with the provider.
type SupabaseTokenVerifier struct {
	secret   []byte
	audience string
	issuer   string
}

func NewSupabaseTokenVerifier(secret, issuer string) (*SupabaseTokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("identity provider jwt secret is required")
	}
	return &SupabaseTokenVerifier{secret: []byte(secret), audience: defaultAudience, issuer: issuer}, nil
}

type supabaseClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (v *SupabaseTokenVerifier) VerifyAccessToken(_ context.Context, raw string) (ports.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(v.audience),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(raw, &supabaseClaims{}, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return ports.Identity{}, err
	}
	claims, ok := parsed.Claims.(*supabaseClaims)
	if !ok || !parsed.Valid {
		return ports.Identity{}, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("parse sub: %w", err)
	}
	return ports.Identity{
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// IssueTestToken signs claims the way the provider does; used by local tooling and tests.
func (v *SupabaseTokenVerifier) IssueTestToken(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, supabaseClaims{
		Email: email,
		Role:  defaultAudience,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{v.audience},
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(v.secret)
}
