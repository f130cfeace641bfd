package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CronJobLog records one run of a scheduled background job
type CronJobLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JobName     string     `gorm:"index;not null" json:"job_name"`
	Status      string     `gorm:"type:varchar(20);index" json:"status"` // running, completed, failed
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Message     string     `gorm:"type:text" json:"message,omitempty"`
	ErrorMsg    string     `gorm:"type:text" json:"error_msg,omitempty"`
}

func (c *CronJobLog) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
