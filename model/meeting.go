package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Meeting statuses
const (
	MeetingScheduled = "scheduled"
	MeetingOngoing   = "ongoing"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"
)

// Meeting represents a scheduled or held meeting, including its transcript
// and any AI-generated artifacts.
type Meeting struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;index;not null" json:"created_by"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index" json:"team_id,omitempty"`

	StartTime     time.Time  `gorm:"index;not null" json:"start_time"`
	EndTime       time.Time  `gorm:"not null" json:"end_time"`
	ActualEndTime *time.Time `json:"actual_end_time,omitempty"`
	Status        string     `gorm:"type:varchar(20);index;default:'scheduled'" json:"status"`

	MeetingLink string `json:"meeting_link,omitempty"`
	Location    string `json:"location,omitempty"`
	Agenda      string `gorm:"type:text" json:"agenda,omitempty"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`

	Participants     datatypes.JSON `gorm:"type:jsonb" json:"participants,omitempty"` // [{email, name}]
	ParticipantCount int            `gorm:"default:0" json:"participant_count"`

	Transcript string `gorm:"type:text" json:"transcript,omitempty"`

	RecordingURL      string `json:"recording_url,omitempty"`
	RecordingDuration int    `json:"recording_duration,omitempty"` // seconds
	RecordingSize     int64  `json:"recording_size,omitempty"`     // bytes
	IsRecorded        bool   `gorm:"default:false" json:"is_recorded"`

	// AI artifacts
	Summary       string `gorm:"type:text" json:"summary,omitempty"`
	KeyHighlights string `gorm:"type:text" json:"key_highlights,omitempty"`

	Settings datatypes.JSONMap `gorm:"type:jsonb" json:"settings,omitempty"`

	// Relationships
	Creator     User         `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Team        *Team        `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	ActionItems []ActionItem `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"action_items,omitempty"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ValidMeetingStatus reports whether status is a recognized meeting status.
func ValidMeetingStatus(status string) bool {
	switch status {
	case MeetingScheduled, MeetingOngoing, MeetingCompleted, MeetingCancelled:
		return true
	}
	return false
}

// HasTranscript reports whether there is material to summarize.
func (m *Meeting) HasTranscript() bool {
	return m.Transcript != ""
}
