package actionitem

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/services"
	"github.com/smartmeet/meeting-assistant-api/utils/middleware"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
	"github.com/smartmeet/meeting-assistant-api/utils/validation"
)

// ActionItemHandler handles action item endpoints
type ActionItemHandler struct {
	service   *services.ActionItemService
	validator *validation.Validator
}

// NewActionItemHandler creates a new action item handler
func NewActionItemHandler(service *services.ActionItemService) *ActionItemHandler {
	return &ActionItemHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateActionItemRequest represents an action item creation request
type CreateActionItemRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	MeetingID   uuid.UUID  `json:"meeting_id" validate:"required"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     time.Time  `json:"due_date" validate:"required"`
}

// CreateActionItem handles POST /api/v1/action-items
func (h *ActionItemHandler) CreateActionItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateActionItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	item, err := h.service.Create(c.Context(), userID, services.CreateActionItemInput{
		Title:       req.Title,
		Description: req.Description,
		MeetingID:   req.MeetingID,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, item)
}

// ListActionItems handles GET /api/v1/action-items with ?meeting_id= or the
// caller's own assigned/created items, ?status=&page=&limit=.
func (h *ActionItemHandler) ListActionItems(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if raw := c.Query("meeting_id"); raw != "" {
		meetingID, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid meeting id")
		}
		items, err := h.service.ListByMeeting(c.Context(), userID, meetingID)
		if err != nil {
			return response.FromError(c, err)
		}
		return response.Success(c, items)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	items, total, err := h.service.ListAssigned(c.Context(), userID, status, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, items, response.CalculatePagination(page, limit, total))
}

// GetActionItem handles GET /api/v1/action-items/:id
func (h *ActionItemHandler) GetActionItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid action item id")
	}

	item, err := h.service.Get(c.Context(), userID, itemID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, item)
}

// UpdateActionItemRequest carries editable action item fields
type UpdateActionItemRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	Status      *string    `json:"status" validate:"omitempty,oneof=open in_progress completed cancelled"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateActionItem handles PUT /api/v1/action-items/:id
func (h *ActionItemHandler) UpdateActionItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid action item id")
	}

	var req UpdateActionItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	item, err := h.service.Update(c.Context(), userID, itemID, services.UpdateActionItemInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, item)
}

// CompleteActionItem handles POST /api/v1/action-items/:id/complete
func (h *ActionItemHandler) CompleteActionItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid action item id")
	}

	item, err := h.service.Complete(c.Context(), userID, itemID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, item)
}

// DeleteActionItem handles DELETE /api/v1/action-items/:id
func (h *ActionItemHandler) DeleteActionItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid action item id")
	}

	if err := h.service.Delete(c.Context(), userID, itemID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Action item deleted", nil)
}
