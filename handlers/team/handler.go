package team

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/services"
	"github.com/smartmeet/meeting-assistant-api/utils/middleware"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
	"github.com/smartmeet/meeting-assistant-api/utils/validation"
)

// TeamHandler handles team endpoints
type TeamHandler struct {
	service   *services.TeamService
	validator *validation.Validator
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(service *services.TeamService) *TeamHandler {
	return &TeamHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateTeamRequest represents a team creation request
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// CreateTeam handles POST /api/v1/teams
func (h *TeamHandler) CreateTeam(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	team, err := h.service.Create(c.Context(), userID, req.Name, req.Description)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, team)
}

// ListTeams handles GET /api/v1/teams
func (h *TeamHandler) ListTeams(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	teams, err := h.service.List(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, teams)
}

// GetTeam handles GET /api/v1/teams/:id
func (h *TeamHandler) GetTeam(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid team id")
	}

	team, err := h.service.Get(c.Context(), userID, teamID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, team)
}

// UpdateTeamRequest carries editable team fields
type UpdateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateTeam handles PUT /api/v1/teams/:id
func (h *TeamHandler) UpdateTeam(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid team id")
	}

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	team, err := h.service.Update(c.Context(), userID, teamID, req.Name, req.Description)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, team)
}

// DeleteTeam handles DELETE /api/v1/teams/:id
func (h *TeamHandler) DeleteTeam(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid team id")
	}

	if err := h.service.Delete(c.Context(), userID, teamID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Team deleted", nil)
}

// AddMemberRequest adds a registered user to a team by email
type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin member"`
}

// AddMember handles POST /api/v1/teams/:id/members
func (h *TeamHandler) AddMember(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid team id")
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	member, err := h.service.AddMember(c.Context(), userID, teamID, req.Email, req.Role)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, member)
}

// RemoveMember handles DELETE /api/v1/teams/:id/members/:user_id
func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid team id")
	}

	memberID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	if err := h.service.RemoveMember(c.Context(), userID, teamID, memberID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Member removed", nil)
}
