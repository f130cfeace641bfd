package meeting

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/smartmeet/meeting-assistant-api/utils/middleware"
	"github.com/smartmeet/meeting-assistant-api/utils/pdfvalidation"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// transcripts and recordings share this cap
const maxUploadSize = 50 * 1024 * 1024 // 50MB

// UploadTranscript handles POST /api/v1/meetings/:id/transcript. Accepts a
// multipart "file" (plain text, PDF, or HTML export) or a raw JSON body
// with a "transcript" field.
func (h *MeetingHandler) UploadTranscript(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	meetingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	filename := "transcript.txt"
	var content []byte

	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxUploadSize {
			return response.BadRequest(c, "File size exceeds maximum allowed size of 50MB")
		}
		src, err := file.Open()
		if err != nil {
			return response.InternalServerError(c, "Failed to open file")
		}
		defer src.Close()

		content, err = io.ReadAll(src)
		if err != nil {
			return response.InternalServerError(c, "Failed to read file")
		}
		filename = file.Filename

		if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
			check, err := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.TranscriptLimits)
			if err != nil {
				return response.InternalServerError(c, "Failed to validate PDF")
			}
			if !check.Valid {
				return response.BadRequest(c, check.Error)
			}
		}
	} else {
		var body struct {
			Transcript string `json:"transcript"`
		}
		if err := c.BodyParser(&body); err != nil || body.Transcript == "" {
			return response.BadRequest(c, "A transcript file or body is required")
		}
		content = []byte(body.Transcript)
	}

	meeting, err := h.service.AttachTranscript(c.Context(), userID, meetingID, filename, content)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, meeting)
}

// UploadRecording handles POST /api/v1/meetings/:id/recording with a
// multipart "file".
func (h *MeetingHandler) UploadRecording(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	meetingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required")
	}
	if file.Size > maxUploadSize {
		return response.BadRequest(c, "File size exceeds maximum allowed size of 50MB")
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to open file")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return response.InternalServerError(c, "Failed to read file")
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	meeting, err := h.service.UploadRecording(c.Context(), userID, meetingID, file.Filename, contentType, content)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, meeting)
}

// Summarize handles POST /api/v1/meetings/:id/summarize, generating the
// summary, key highlights, and extracted action items from the transcript.
func (h *MeetingHandler) Summarize(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	meetingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	meeting, err := h.service.Summarize(c.Context(), userID, meetingID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, meeting)
}
