package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/services"
	"github.com/smartmeet/meeting-assistant-api/utils/auth"
	"github.com/smartmeet/meeting-assistant-api/utils/middleware"
	"github.com/smartmeet/meeting-assistant-api/utils/validation"
)

// AuthHandler handles authentication and profile endpoints
type AuthHandler struct {
	service    *services.AuthService
	bruteForce *middleware.BruteForceProtection
	validator  *validation.Validator
	production bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *services.AuthService, bruteForce *middleware.BruteForceProtection, production bool) *AuthHandler {
	return &AuthHandler{
		service:    service,
		bruteForce: bruteForce,
		validator:  validation.NewValidator(),
		production: production,
	}
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Role            string    `json:"role"`
	ProfileImage    string    `json:"profile_image,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Timezone        string    `json:"timezone,omitempty"`
	IsEmailVerified bool      `json:"is_email_verified"`
	LastLogin       *string   `json:"last_login,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toUserResponse(u *model.User) UserResponse {
	res := UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		ProfileImage:    u.ProfileImage,
		Bio:             u.Bio,
		Phone:           u.Phone,
		Timezone:        u.Timezone,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.LastLogin != nil {
		formatted := u.LastLogin.Format(time.RFC3339)
		res.LastLogin = &formatted
	}
	return res
}

// TokenResponse is the token side of register/login/refresh responses. The
// pair is also set as HTTP-only cookies; the body copy serves non-browser
// clients.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // access token lifetime, seconds
}

func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(time.Until(pair.AccessExpiresAt).Seconds()),
	}
}

// setAuthCookies stores the pair in HTTP-only cookies so browser clients
// never touch tokens from script.
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, pair *auth.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    pair.AccessToken,
		Expires:  pair.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Expires:  pair.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/api/v1/auth",
	})
}

// clearAuthCookies expires both auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Expires:  expired,
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    "",
		Expires:  expired,
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/api/v1/auth",
	})
}
