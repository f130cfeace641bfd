package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartmeet/meeting-assistant-api/services"
	"github.com/smartmeet/meeting-assistant-api/utils/middleware"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// Me returns the current user's profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	user, err := h.service.Me(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

// UpdateProfileRequest carries editable profile fields
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Timezone  *string `json:"timezone" validate:"omitempty,max=64"`
}

// UpdateProfile applies partial profile changes
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.service.UpdateProfile(c.Context(), userID, services.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Phone:     req.Phone,
		Timezone:  req.Timezone,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

// UpdatePasswordRequest carries a password change
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UpdatePassword verifies the current password and sets a new one
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.service.UpdatePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Password updated successfully", nil)
}
