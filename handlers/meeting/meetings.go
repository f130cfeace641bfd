package meeting

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/services"
	"github.com/smartmeet/meeting-assistant-api/utils/middleware"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// CreateMeetingRequest represents a meeting scheduling request
type CreateMeetingRequest struct {
	Title        string                        `json:"title" validate:"required,max=200"`
	Description  string                        `json:"description" validate:"omitempty,max=2000"`
	TeamID       *uuid.UUID                    `json:"team_id"`
	StartTime    time.Time                     `json:"start_time" validate:"required"`
	EndTime      time.Time                     `json:"end_time" validate:"required"`
	MeetingLink  string                        `json:"meeting_link" validate:"omitempty,url"`
	Location     string                        `json:"location" validate:"omitempty,max=200"`
	Agenda       string                        `json:"agenda" validate:"omitempty,max=5000"`
	Participants []services.MeetingParticipant `json:"participants" validate:"omitempty,dive"`
}

// CreateMeeting handles POST /api/v1/meetings
func (h *MeetingHandler) CreateMeeting(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	meeting, err := h.service.Create(c.Context(), userID, services.CreateMeetingInput{
		Title:        req.Title,
		Description:  req.Description,
		TeamID:       req.TeamID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		MeetingLink:  req.MeetingLink,
		Location:     req.Location,
		Agenda:       req.Agenda,
		Participants: req.Participants,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, meeting)
}

// ListMeetings handles GET /api/v1/meetings with ?status=&page=&limit=
func (h *MeetingHandler) ListMeetings(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	meetings, total, err := h.service.List(c.Context(), userID, status, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, meetings, response.CalculatePagination(page, limit, total))
}

// GetMeeting handles GET /api/v1/meetings/:id
func (h *MeetingHandler) GetMeeting(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	meetingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	meeting, err := h.service.Get(c.Context(), userID, meetingID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, meeting)
}

// UpdateMeetingRequest carries editable meeting fields
type UpdateMeetingRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	MeetingLink *string    `json:"meeting_link" validate:"omitempty,url"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	Agenda      *string    `json:"agenda" validate:"omitempty,max=5000"`
	Notes       *string    `json:"notes" validate:"omitempty,max=10000"`
}

// UpdateMeeting handles PUT /api/v1/meetings/:id
func (h *MeetingHandler) UpdateMeeting(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	meetingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	meeting, err := h.service.Update(c.Context(), userID, meetingID, services.UpdateMeetingInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
		Agenda:      req.Agenda,
		Notes:       req.Notes,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, meeting)
}

// DeleteMeeting handles DELETE /api/v1/meetings/:id
func (h *MeetingHandler) DeleteMeeting(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	meetingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID, meetingID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Meeting deleted", nil)
}

// StartMeeting handles POST /api/v1/meetings/:id/start
func (h *MeetingHandler) StartMeeting(c *fiber.Ctx) error {
	return h.lifecycle(c, h.service.Start)
}

// EndMeeting handles POST /api/v1/meetings/:id/end
func (h *MeetingHandler) EndMeeting(c *fiber.Ctx) error {
	return h.lifecycle(c, h.service.End)
}

// CancelMeeting handles POST /api/v1/meetings/:id/cancel
func (h *MeetingHandler) CancelMeeting(c *fiber.Ctx) error {
	return h.lifecycle(c, h.service.Cancel)
}

// lifecycle runs one of the status-transition service calls
func (h *MeetingHandler) lifecycle(c *fiber.Ctx, fn func(ctx context.Context, userID, meetingID uuid.UUID) (*model.Meeting, error)) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	meetingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	meeting, err := fn(c.Context(), userID, meetingID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, meeting)
}
