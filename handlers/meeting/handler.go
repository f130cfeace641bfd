package meeting

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/services"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
	"github.com/smartmeet/meeting-assistant-api/utils/validation"
)

// MeetingHandler handles meeting endpoints
type MeetingHandler struct {
	service   *services.MeetingService
	validator *validation.Validator
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(service *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// parseID pulls a UUID path parameter, answering 400 on garbage
func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, response.BadRequest(c, "Invalid "+name)
	}
	return id, nil
}
