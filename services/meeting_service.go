package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/services/storage"
	"github.com/smartmeet/meeting-assistant-api/utils/apperror"
	"gorm.io/gorm"
)

// MeetingParticipant is one entry of the participants JSON column
type MeetingParticipant struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// MeetingService owns meeting scheduling, lifecycle transitions, transcript
// ingestion, recording storage, and AI artifact generation.
type MeetingService struct {
	db        *gorm.DB
	summaries *SummaryService
	store     *storage.Client
	extractor *TranscriptExtractor
}

// NewMeetingService creates a new meeting service
func NewMeetingService(db *gorm.DB, summaries *SummaryService, store *storage.Client, extractor *TranscriptExtractor) *MeetingService {
	return &MeetingService{
		db:        db,
		summaries: summaries,
		store:     store,
		extractor: extractor,
	}
}

// CreateMeetingInput is the validated scheduling payload
type CreateMeetingInput struct {
	Title        string
	Description  string
	TeamID       *uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	MeetingLink  string
	Location     string
	Agenda       string
	Participants []MeetingParticipant
}

// Create schedules a new meeting
func (s *MeetingService) Create(ctx context.Context, userID uuid.UUID, in CreateMeetingInput) (*model.Meeting, error) {
	if !in.EndTime.After(in.StartTime) {
		return nil, apperror.Validation("INVALID_TIME_RANGE", "Meeting end time must be after start time")
	}

	if in.TeamID != nil {
		if _, err := s.membership(ctx, *in.TeamID, userID); err != nil {
			return nil, err
		}
	}

	participantsJSON, err := json.Marshal(in.Participants)
	if err != nil {
		return nil, apperror.Internal("Failed to encode participants").Wrap(err)
	}

	meeting := &model.Meeting{
		Title:            in.Title,
		Description:      in.Description,
		CreatedBy:        userID,
		TeamID:           in.TeamID,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Status:           model.MeetingScheduled,
		MeetingLink:      in.MeetingLink,
		Location:         in.Location,
		Agenda:           in.Agenda,
		Participants:     participantsJSON,
		ParticipantCount: len(in.Participants),
	}

	if err := s.db.WithContext(ctx).Create(meeting).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to create meeting").Wrap(err)
	}

	return meeting, nil
}

// List returns the user's meetings (created by them or belonging to one of
// their teams), newest first, optionally filtered by status.
func (s *MeetingService) List(ctx context.Context, userID uuid.UUID, status string, page, limit int) ([]model.Meeting, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Meeting{}).
		Where("created_by = ? OR team_id IN (?)",
			userID,
			s.db.Model(&model.TeamMember{}).Select("team_id").Where("user_id = ?", userID),
		)

	if status != "" {
		if !model.ValidMeetingStatus(status) {
			return nil, 0, apperror.Validation("INVALID_STATUS", "Unknown meeting status")
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Transient("STORE_UNAVAILABLE", "Failed to count meetings").Wrap(err)
	}

	var meetings []model.Meeting
	err := query.
		Order("start_time DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, apperror.Transient("STORE_UNAVAILABLE", "Failed to list meetings").Wrap(err)
	}

	return meetings, total, nil
}

// Get loads a meeting the user can see
func (s *MeetingService) Get(ctx context.Context, userID, meetingID uuid.UUID) (*model.Meeting, error) {
	var meeting model.Meeting
	err := s.db.WithContext(ctx).
		Preload("ActionItems").
		First(&meeting, "id = ?", meetingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("MEETING_NOT_FOUND", "Meeting not found")
	}
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load meeting").Wrap(err)
	}

	if err := s.canView(ctx, &meeting, userID); err != nil {
		return nil, err
	}

	return &meeting, nil
}

// UpdateMeetingInput carries editable fields. Nil means unchanged.
type UpdateMeetingInput struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	MeetingLink *string
	Location    *string
	Agenda      *string
	Notes       *string
}

// Update applies changes to a meeting the user created
func (s *MeetingService) Update(ctx context.Context, userID, meetingID uuid.UUID, in UpdateMeetingInput) (*model.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.Status == model.MeetingCancelled || meeting.Status == model.MeetingCompleted {
		return nil, apperror.Validation("MEETING_FINALIZED", "Completed or cancelled meetings cannot be edited")
	}

	if in.Title != nil {
		meeting.Title = *in.Title
	}
	if in.Description != nil {
		meeting.Description = *in.Description
	}
	if in.StartTime != nil {
		meeting.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		meeting.EndTime = *in.EndTime
	}
	if !meeting.EndTime.After(meeting.StartTime) {
		return nil, apperror.Validation("INVALID_TIME_RANGE", "Meeting end time must be after start time")
	}
	if in.MeetingLink != nil {
		meeting.MeetingLink = *in.MeetingLink
	}
	if in.Location != nil {
		meeting.Location = *in.Location
	}
	if in.Agenda != nil {
		meeting.Agenda = *in.Agenda
	}
	if in.Notes != nil {
		meeting.Notes = *in.Notes
	}

	if err := s.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to update meeting").Wrap(err)
	}

	return meeting, nil
}

// Start transitions a scheduled meeting to ongoing
func (s *MeetingService) Start(ctx context.Context, userID, meetingID uuid.UUID) (*model.Meeting, error) {
	return s.transition(ctx, userID, meetingID, model.MeetingScheduled, model.MeetingOngoing, nil)
}

// End transitions an ongoing meeting to completed and records the actual
// end time.
func (s *MeetingService) End(ctx context.Context, userID, meetingID uuid.UUID) (*model.Meeting, error) {
	now := time.Now()
	return s.transition(ctx, userID, meetingID, model.MeetingOngoing, model.MeetingCompleted, &now)
}

// Cancel cancels a meeting that has not completed yet
func (s *MeetingService) Cancel(ctx context.Context, userID, meetingID uuid.UUID) (*model.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.Status == model.MeetingCompleted {
		return nil, apperror.Validation("MEETING_FINALIZED", "Completed meetings cannot be cancelled")
	}

	meeting.Status = model.MeetingCancelled
	if err := s.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to cancel meeting").Wrap(err)
	}

	return meeting, nil
}

// Delete soft-deletes a meeting the user created
func (s *MeetingService) Delete(ctx context.Context, userID, meetingID uuid.UUID) error {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(meeting).Error; err != nil {
		return apperror.Transient("STORE_UNAVAILABLE", "Failed to delete meeting").Wrap(err)
	}
	return nil
}

// AttachTranscript ingests an uploaded transcript file (plain text, PDF, or
// HTML export) onto the meeting.
func (s *MeetingService) AttachTranscript(ctx context.Context, userID, meetingID uuid.UUID, filename string, content []byte) (*model.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.Extract(filename, content)
	if err != nil {
		return nil, apperror.Validation("UNSUPPORTED_TRANSCRIPT", "Could not extract text from the uploaded file").Wrap(err)
	}

	meeting.Transcript = text
	if err := s.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to save transcript").Wrap(err)
	}

	return meeting, nil
}

// UploadRecording stores a recording in object storage and links it to the
// meeting.
func (s *MeetingService) UploadRecording(ctx context.Context, userID, meetingID uuid.UUID, filename, contentType string, content []byte) (*model.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if s.store == nil {
		return nil, apperror.Transient("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	key := fmt.Sprintf("recordings/%s/%s", meeting.ID, filename)
	url, err := s.store.UploadBytes(ctx, key, content, contentType)
	if err != nil {
		return nil, apperror.Transient("STORAGE_UNAVAILABLE", "Failed to upload recording").Wrap(err)
	}

	meeting.RecordingURL = url
	meeting.RecordingSize = int64(len(content))
	meeting.IsRecorded = true
	if err := s.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to save recording metadata").Wrap(err)
	}

	return meeting, nil
}

// Summarize generates the summary, key highlights, and extracted action
// items for a meeting with a transcript, and persists all three.
func (s *MeetingService) Summarize(ctx context.Context, userID, meetingID uuid.UUID) (*model.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if !meeting.HasTranscript() {
		return nil, apperror.Validation("NO_TRANSCRIPT", "Meeting has no transcript to summarize")
	}

	summary, err := s.summaries.GenerateSummary(ctx, meeting.Transcript, meeting.Title)
	if err != nil {
		return nil, apperror.Transient("LLM_UNAVAILABLE", "Failed to generate summary").Wrap(err)
	}

	highlights, err := s.summaries.GenerateKeyHighlights(ctx, meeting.Transcript)
	if err != nil {
		return nil, apperror.Transient("LLM_UNAVAILABLE", "Failed to generate highlights").Wrap(err)
	}

	var participantNames []string
	var participants []MeetingParticipant
	if len(meeting.Participants) > 0 {
		if err := json.Unmarshal(meeting.Participants, &participants); err == nil {
			for _, p := range participants {
				participantNames = append(participantNames, p.Name)
			}
		}
	}

	extracted, err := s.summaries.ExtractActionItems(ctx, meeting.Transcript, participantNames)
	if err != nil {
		return nil, apperror.Transient("LLM_UNAVAILABLE", "Failed to extract action items").Wrap(err)
	}

	meeting.Summary = summary
	meeting.KeyHighlights = highlights

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(meeting).Error; err != nil {
			return err
		}
		for _, item := range extracted {
			actionItem := model.ActionItem{
				Title:                   item.Title,
				Description:             item.Description,
				MeetingID:               meeting.ID,
				CreatedBy:               userID,
				Status:                  model.ActionItemOpen,
				Priority:                normalizePriority(item.Priority),
				DueDate:                 parseDueDate(item.DueDate),
				ExtractedFromTranscript: true,
				ExtractedText:           item.Description,
			}
			if err := tx.Create(&actionItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to persist summary").Wrap(err)
	}

	log.Printf("Meeting summarized: %s (%d action items)", meeting.ID, len(extracted))
	return s.Get(ctx, userID, meetingID)
}

func normalizePriority(p string) string {
	if model.ValidPriority(p) {
		return p
	}
	return model.PriorityMedium
}

// parseDueDate accepts YYYY-MM-DD; anything else defaults to a week out,
// since the LLM sometimes answers with relative phrases.
func parseDueDate(s string) time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Now().AddDate(0, 0, 7)
}

func (s *MeetingService) transition(ctx context.Context, userID, meetingID uuid.UUID, from, to string, actualEnd *time.Time) (*model.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.Status != from {
		return nil, apperror.Validation("INVALID_TRANSITION",
			fmt.Sprintf("Meeting must be %s to become %s", from, to))
	}

	meeting.Status = to
	if actualEnd != nil {
		meeting.ActualEndTime = actualEnd
	}
	if err := s.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to update meeting").Wrap(err)
	}

	return meeting, nil
}

// ownedMeeting loads a meeting and requires the caller to be its creator
func (s *MeetingService) ownedMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*model.Meeting, error) {
	var meeting model.Meeting
	err := s.db.WithContext(ctx).First(&meeting, "id = ?", meetingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("MEETING_NOT_FOUND", "Meeting not found")
	}
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load meeting").Wrap(err)
	}

	if meeting.CreatedBy != userID {
		return nil, apperror.Authorization("FORBIDDEN", "Only the meeting creator can do this")
	}

	return &meeting, nil
}

// canView allows the creator and members of the meeting's team
func (s *MeetingService) canView(ctx context.Context, meeting *model.Meeting, userID uuid.UUID) error {
	if meeting.CreatedBy == userID {
		return nil
	}
	if meeting.TeamID != nil {
		if _, err := s.membership(ctx, *meeting.TeamID, userID); err == nil {
			return nil
		}
	}
	return apperror.Authorization("FORBIDDEN", "You do not have access to this meeting")
}

func (s *MeetingService) membership(ctx context.Context, teamID, userID uuid.UUID) (*model.TeamMember, error) {
	var member model.TeamMember
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Authorization("FORBIDDEN", "You are not a member of this team")
	}
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to check team membership").Wrap(err)
	}
	return &member, nil
}
