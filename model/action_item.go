package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Action item statuses
const (
	ActionItemOpen       = "open"
	ActionItemInProgress = "in_progress"
	ActionItemCompleted  = "completed"
	ActionItemCancelled  = "cancelled"
)

// Action item priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ActionItem is a follow-up task attached to a meeting, created manually or
// extracted from the transcript by the summary service.
type ActionItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	MeetingID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"meeting_id"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`

	Status   string    `gorm:"type:varchar(20);index;default:'open'" json:"status"`
	Priority string    `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	DueDate  time.Time `gorm:"not null" json:"due_date"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID `gorm:"type:uuid" json:"completed_by,omitempty"`

	ExtractedFromTranscript bool           `gorm:"default:false" json:"extracted_from_transcript"`
	ExtractedText           string         `gorm:"type:text" json:"extracted_text,omitempty"`
	Tags                    datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`

	// Relationships
	Meeting  Meeting `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"-"`
	Creator  User    `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

func (a *ActionItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ValidActionItemStatus reports whether status is recognized.
func ValidActionItemStatus(status string) bool {
	switch status {
	case ActionItemOpen, ActionItemInProgress, ActionItemCompleted, ActionItemCancelled:
		return true
	}
	return false
}

// ValidPriority reports whether priority is recognized.
func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// MarkCompleted records completion by the given user.
func (a *ActionItem) MarkCompleted(userID uuid.UUID) {
	now := time.Now()
	a.Status = ActionItemCompleted
	a.CompletedAt = &now
	a.CompletedBy = &userID
}
