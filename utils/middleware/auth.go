package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/utils/auth"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// Cookie names used by the auth flow
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// UserLoader resolves users from the credential store
type UserLoader interface {
	ByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// TokenRevoker answers denylist lookups
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ProfileCache caches resolved profiles between requests
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) *model.User
	Set(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// AuthMiddleware is the per-request identity gateway: it extracts the
// bearer token, verifies it, consults the revocation cache, resolves the
// user (cache first), and attaches the identity to the request context.
type AuthMiddleware struct {
	issuer  *auth.JWTManager
	revoker TokenRevoker
	users   UserLoader
	profile ProfileCache
}

// NewAuthMiddleware creates the auth gateway middleware
func NewAuthMiddleware(issuer *auth.JWTManager, revoker TokenRevoker, users UserLoader, profile ProfileCache) *AuthMiddleware {
	return &AuthMiddleware{
		issuer:  issuer,
		revoker: revoker,
		users:   users,
		profile: profile,
	}
}

// extractToken pulls the bearer token from the Authorization header,
// falling back to the access-token cookie.
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Cookies(AccessTokenCookie)
}

// resolve runs the full verification chain and returns the user plus the
// verified claims. Failures come back as (nil, nil, code) with the
// distinguishable error code for the client; the HTTP status is uniformly
// 401 for all of them.
func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*model.User, *auth.Claims, string) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, nil, "TOKEN_MISSING"
	}

	claims, err := m.issuer.Verify(tokenString, auth.TokenTypeAccess)
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, nil, "TOKEN_EXPIRED"
		}
		return nil, nil, "TOKEN_INVALID"
	}

	revoked, err := m.revoker.IsRevoked(c.Context(), claims.ID)
	if err != nil {
		return nil, nil, "TOKEN_CHECK_FAILED"
	}
	if revoked {
		return nil, nil, "TOKEN_REVOKED"
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return nil, nil, "TOKEN_INVALID"
	}

	user := m.profile.Get(c.Context(), userID)
	if user == nil {
		user, err = m.users.ByID(c.Context(), userID)
		if err != nil {
			return nil, nil, "USER_NOT_FOUND"
		}
		if err := m.profile.Set(c.Context(), user); err != nil {
			// Cache population is best effort.
			_ = err
		}
	}

	if !user.IsActive {
		return nil, nil, "USER_INACTIVE"
	}

	return user, claims, ""
}

func attachIdentity(c *fiber.Ctx, user *model.User, claims *auth.Claims) {
	c.Locals("user", user)
	c.Locals("user_id", user.ID)
	c.Locals("user_role", user.Role)
	c.Locals("claims", claims)
	c.Locals("token_jti", claims.ID)
}

func unauthorizedMessage(code string) string {
	switch code {
	case "TOKEN_MISSING":
		return "Missing authorization token"
	case "TOKEN_EXPIRED":
		return "Your session has expired. Please log in again"
	case "TOKEN_REVOKED":
		return "Token is no longer valid. Please log in again"
	case "USER_NOT_FOUND":
		return "User no longer exists"
	case "USER_INACTIVE":
		return "Your account has been deactivated"
	case "TOKEN_CHECK_FAILED":
		return "Failed to check token status"
	default:
		return "Invalid token. Please log in again"
	}
}

// Required enforces a valid, unrevoked access token for an active user
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, code := m.resolve(c)
		if code != "" {
			return response.Error(c, fiber.StatusUnauthorized, unauthorizedMessage(code), code)
		}

		attachIdentity(c, user, claims)
		return c.Next()
	}
}

// Optional runs the same resolution but proceeds anonymously on any
// failure. Used for endpoints that behave differently for authenticated
// callers without requiring authentication.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, code := m.resolve(c)
		if code == "" {
			attachIdentity(c, user, claims)
		}
		return c.Next()
	}
}

// RequireRole gates the request on the resolved user's role. Must run
// after Required.
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := GetUserRole(c)
		if !ok {
			return response.Forbidden(c, "Access denied")
		}

		for _, r := range roles {
			if userRole == r {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Insufficient permissions")
	}
}

// GetUser extracts the resolved user from the request context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetUserID extracts the user id from the request context
func GetUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserRole extracts the user role from the request context
func GetUserRole(c *fiber.Ctx) (string, bool) {
	role := c.Locals("user_role")
	if role == nil {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}

// GetTokenJTI extracts the access token JTI from the request context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	jti := c.Locals("token_jti")
	if jti == nil {
		return "", false
	}
	j, ok := jti.(string)
	return j, ok
}
