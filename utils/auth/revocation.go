package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/smartmeet/meeting-assistant-api/utils/cache"
)

const blacklistPrefix = "blacklist:"

// VerificationTokenBytes is the entropy of email verification tokens
const VerificationTokenBytes = 32

// RevocationService is a Redis-backed token denylist. Entries carry a TTL
// equal to the remaining lifetime of the token they shadow, so they lapse
// exactly when the token would have expired anyway.
type RevocationService struct {
	cache *cache.RedisCache
}

// NewRevocationService creates a new revocation service
func NewRevocationService(c *cache.RedisCache) *RevocationService {
	return &RevocationService{cache: c}
}

// Revoke records a denylist marker for the token's JTI. Revoking an
// already-expired token is a no-op.
func (s *RevocationService) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, blacklistPrefix+jti, "1", ttl)
}

// IsRevoked reports whether the token's JTI is on the denylist
func (s *RevocationService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.cache.Exists(ctx, blacklistPrefix+jti)
}

// GenerateVerificationToken returns a random hex token for email
// verification links.
func GenerateVerificationToken() (string, error) {
	buf := make([]byte, VerificationTokenBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
