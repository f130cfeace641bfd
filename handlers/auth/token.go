package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/smartmeet/meeting-assistant-api/utils/middleware"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// RefreshRequest represents a token refresh request. The token may instead
// arrive via the refresh cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The
// consumed refresh token is revoked, so each one works exactly once.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	// Body is optional when the cookie is present
	_ = c.BodyParser(&req)

	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(middleware.RefreshTokenCookie)
	}
	if token == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	result, err := h.service.Refresh(c.Context(), token)
	if err != nil {
		return response.FromError(c, err)
	}

	h.setAuthCookies(c, result.Tokens)

	return response.Success(c, AuthResponse{
		User:   toUserResponse(result.User),
		Tokens: toTokenResponse(result.Tokens),
	})
}

// Logout revokes the current access token and, when the refresh cookie is
// present, the refresh token too, then clears both cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	accessToken := ""
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		accessToken = strings.TrimPrefix(header, "Bearer ")
	}
	if accessToken == "" {
		accessToken = c.Cookies(middleware.AccessTokenCookie)
	}
	refreshToken := c.Cookies(middleware.RefreshTokenCookie)

	if err := h.service.Logout(c.Context(), user.ID, accessToken, refreshToken); err != nil {
		return response.FromError(c, err)
	}

	h.clearAuthCookies(c)

	return response.SuccessWithMessage(c, "Successfully logged out", nil)
}
