package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartmeet/meeting-assistant-api/utils/apperror"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// VerifyEmailRequest carries the emailed verification token
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// VerifyEmail confirms an email address. Tokens are single-use and expire
// 24 hours after they are issued.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	// Support link-style verification too
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	if req.Token == "" {
		return response.BadRequest(c, "Verification token is required")
	}

	user, err := h.service.VerifyEmail(c.Context(), req.Token)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Email verified successfully", toUserResponse(user))
}

// ResendVerificationRequest asks for a fresh verification email
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerification issues a new verification token. The response is the
// same whether or not the address is registered, so it cannot be used to
// probe for accounts.
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.service.ResendVerification(c.Context(), req.Email); err != nil {
		// An unknown address gets the same neutral answer as a known one
		if apperror.KindOf(err) != apperror.KindNotFound {
			return response.FromError(c, err)
		}
	}

	return response.SuccessWithMessage(c, "If that email is registered, a verification message is on its way", nil)
}
