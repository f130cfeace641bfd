package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartmeet/meeting-assistant-api/services"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// AuthResponse represents a successful register/login/refresh response
type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.service.Register(c.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	h.setAuthCookies(c, result.Tokens)

	return response.Created(c, AuthResponse{
		User:   toUserResponse(result.User),
		Tokens: toTokenResponse(result.Tokens),
	})
}
