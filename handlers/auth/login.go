package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartmeet/meeting-assistant-api/utils/apperror"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ip := c.IP()

	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		// Only credential failures count toward the lockout; a deactivated
		// or unverified account is not a guessing attack.
		if h.bruteForce != nil && apperror.CodeOf(err) == "INVALID_CREDENTIALS" {
			h.bruteForce.RecordFailedAttempt(c, ip)
		}
		return response.FromError(c, err)
	}

	if h.bruteForce != nil {
		h.bruteForce.RecordSuccessfulAttempt(c, ip)
	}

	h.setAuthCookies(c, result.Tokens)

	return response.Success(c, AuthResponse{
		User:   toUserResponse(result.User),
		Tokens: toTokenResponse(result.Tokens),
	})
}
