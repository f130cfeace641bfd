package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrWrongTokenUse = errors.New("token used for wrong purpose")
)

// Token types carried in the token_type claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTConfig holds token issuer configuration. RefreshSecret falls back to
// Secret when empty.
type JWTConfig struct {
	Secret        string
	RefreshSecret string
	Expiry        time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// Claims represents the signed token payload
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair is an access/refresh pair minted together
type TokenPair struct {
	AccessToken      string
	AccessJTI        string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshJTI       string
	RefreshExpiresAt time.Time
}

// JWTManager mints and verifies signed tokens. Verification is a pure
// function of the token and the configured secrets; revocation is checked
// separately by callers.
type JWTManager struct {
	config JWTConfig
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) *JWTManager {
	if config.RefreshSecret == "" {
		config.RefreshSecret = config.Secret
	}
	return &JWTManager{config: config}
}

func (j *JWTManager) secretFor(tokenType string) []byte {
	if tokenType == TokenTypeRefresh {
		return []byte(j.config.RefreshSecret)
	}
	return []byte(j.config.Secret)
}

func (j *JWTManager) generate(userID uuid.UUID, tokenType string, expiry time.Duration) (string, string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiry)
	jti := uuid.New().String()

	claims := Claims{
		UserID:    userID.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretFor(tokenType))
	return signed, jti, expiresAt, err
}

// Issue mints an access/refresh pair bound to the given user
func (j *JWTManager) Issue(userID uuid.UUID) (*TokenPair, error) {
	access, accessJTI, accessExp, err := j.generate(userID, TokenTypeAccess, j.config.Expiry)
	if err != nil {
		return nil, err
	}

	refresh, refreshJTI, refreshExp, err := j.generate(userID, TokenTypeRefresh, j.config.RefreshExpiry)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessJTI:        accessJTI,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshJTI:       refreshJTI,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify validates signature and expiry and enforces the expected token
// type. Expired tokens are rejected regardless of signature validity.
func (j *JWTManager) Verify(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return nil, ErrInvalidClaims
		}
		return j.secretFor(claims.TokenType), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenUse
	}

	return claims, nil
}

// ExtractClaims decodes claims without verifying the signature. Used only
// to read expiry/JTI off tokens the caller has already verified, or off
// tokens being revoked at logout.
func (j *JWTManager) ExtractClaims(tokenString string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// RemainingTTL returns how long the token is still valid for. Zero or
// negative means already expired.
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}

// Subject returns the user id claim parsed back into a UUID.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}
	return id, nil
}
