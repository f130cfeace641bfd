package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: 30 * 24 * time.Hour,
		Issuer:        "test-issuer",
	})
}

func TestIssueAndVerify(t *testing.T) {
	manager := testManager()
	userID := uuid.New()

	pair, err := manager.Issue(userID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be minted")
	}
	if pair.AccessJTI == pair.RefreshJTI {
		t.Error("access and refresh tokens must have distinct JTIs")
	}
	if !pair.RefreshExpiresAt.After(pair.AccessExpiresAt) {
		t.Error("refresh token should outlive access token")
	}

	claims, err := manager.Verify(pair.AccessToken, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Verify access failed: %v", err)
	}
	if claims.UserID != userID.String() {
		t.Errorf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.ID != pair.AccessJTI {
		t.Errorf("expected JTI %s, got %s", pair.AccessJTI, claims.ID)
	}

	if _, err := manager.Verify(pair.RefreshToken, TokenTypeRefresh); err != nil {
		t.Fatalf("Verify refresh failed: %v", err)
	}
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	manager := testManager()

	pair, err := manager.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// An access token presented where a refresh token belongs must fail,
	// and vice versa.
	if _, err := manager.Verify(pair.AccessToken, TokenTypeRefresh); err != ErrWrongTokenUse {
		t.Errorf("expected ErrWrongTokenUse, got %v", err)
	}
	if _, err := manager.Verify(pair.RefreshToken, TokenTypeAccess); err != ErrWrongTokenUse {
		t.Errorf("expected ErrWrongTokenUse, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute, // already expired at mint time
	})

	pair, err := manager.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := manager.Verify(pair.AccessToken, TokenTypeAccess); err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	manager := testManager()

	pair, err := manager.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the payload segment
	parts := strings.Split(pair.AccessToken, ".")
	if len(parts) != 3 {
		t.Fatal("expected three JWT segments")
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := manager.Verify(tampered, TokenTypeAccess); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	manager := testManager()
	other := NewJWTManager(JWTConfig{Secret: "some-other-secret", Expiry: time.Hour})

	pair, err := other.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := manager.Verify(pair.AccessToken, TokenTypeAccess); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshSecretFallsBackToAccessSecret(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret:        "only-secret",
		Expiry:        time.Minute,
		RefreshExpiry: time.Hour,
	})

	pair, err := manager.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := manager.Verify(pair.RefreshToken, TokenTypeRefresh); err != nil {
		t.Fatalf("expected refresh to verify with fallback secret: %v", err)
	}
}

func TestExtractClaims(t *testing.T) {
	manager := testManager()
	userID := uuid.New()

	pair, err := manager.Issue(userID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := manager.ExtractClaims(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ExtractClaims failed: %v", err)
	}
	if claims.ID != pair.RefreshJTI {
		t.Errorf("expected JTI %s, got %s", pair.RefreshJTI, claims.ID)
	}

	got, err := claims.SubjectID()
	if err != nil {
		t.Fatalf("SubjectID failed: %v", err)
	}
	if got != userID {
		t.Errorf("expected subject %s, got %s", userID, got)
	}

	if ttl := claims.RemainingTTL(); ttl <= 0 {
		t.Errorf("expected positive remaining TTL, got %v", ttl)
	}
}

func TestExtractClaimsRejectsGarbage(t *testing.T) {
	manager := testManager()
	if _, err := manager.ExtractClaims("not-a-token"); err == nil {
		t.Error("expected garbage token to be rejected")
	}
}
