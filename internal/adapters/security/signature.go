package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/veeraceo-pixel/cashback/internal/domain"
)

// HMACVerifier checks hex HMAC-SHA256 signatures over raw webhook bodies.
// Each network may have its own secret; the fallback covers the rest.
type HMACVerifier struct {
	secrets  map[domain.NetworkKind][]byte
	fallback []byte
}

func NewHMACVerifier(fallback string, perNetwork map[domain.NetworkKind]string) *HMACVerifier {
	v := &HMACVerifier{
		secrets:  make(map[domain.NetworkKind][]byte, len(perNetwork)),
		fallback: []byte(fallback),
	}
	for kind, secret := range perNetwork {
		if secret != "" {
			v.secrets[kind] = []byte(secret)
		}
	}
	return v
}

func (v *HMACVerifier) Verify(kind domain.NetworkKind, payload []byte, signature string) error {
	secret := v.secretFor(kind)
	if len(secret) == 0 {
		return fmt.Errorf("%w: no secret configured for %s", domain.ErrAuthentication, kind)
	}
	signature = strings.TrimSpace(signature)
	signature = strings.TrimPrefix(signature, "sha256=")
	if signature == "" {
		return fmt.Errorf("%w: missing signature", domain.ErrAuthentication)
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not hex", domain.ErrAuthentication)
	}
	if !hmac.Equal(provided, Sign(secret, payload)) {
		return fmt.Errorf("%w: signature mismatch", domain.ErrAuthentication)
	}
	return nil
}

func (v *HMACVerifier) secretFor(kind domain.NetworkKind) []byte {
	if secret, ok := v.secrets[kind]; ok {
		return secret
	}
	return v.fallback
}

func Sign(secret, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignHex is the header value a network sends for payload.
func SignHex(secret string, payload []byte) string {
	return hex.EncodeToString(Sign([]byte(secret), payload))
}
