package cron

import (
	"fmt"
	"time"

	"github.com/smartmeet/meeting-assistant-api/model"
)

// retention window for purged soft-deleted rows
const purgeAfter = 30 * 24 * time.Hour

// staleGrace is how long past its scheduled end an ongoing meeting may run
// before the sweeper completes it.
const staleGrace = 2 * time.Hour

// CompleteStaleMeetings completes ongoing meetings whose scheduled end time
// passed more than staleGrace ago. The actual end time is recorded as the
// scheduled end, since nobody pressed the button.
func (m *CronManager) CompleteStaleMeetings() {
	jobName := "complete_stale_meetings"
	cutoff := time.Now().Add(-staleGrace)

	var meetings []model.Meeting
	err := m.db.
		Where("status = ? AND end_time < ?", model.MeetingOngoing, cutoff).
		Find(&meetings).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query stale meetings: %w", err))
		return
	}

	if len(meetings) == 0 {
		m.logJobComplete(jobName, "No stale meetings")
		return
	}

	completed := 0
	for _, meeting := range meetings {
		end := meeting.EndTime
		err := m.db.Model(&meeting).Updates(map[string]interface{}{
			"status":          model.MeetingCompleted,
			"actual_end_time": end,
		}).Error
		if err != nil {
			m.logJobError(jobName, fmt.Errorf("failed to complete meeting %s: %w", meeting.ID, err))
			return
		}
		completed++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Completed %d stale meetings", completed))
}

// ClearExpiredVerifications drops verification tokens whose 24h window has
// passed, so a stale emailed link can never verify an account.
func (m *CronManager) ClearExpiredVerifications() {
	jobName := "clear_expired_verifications"

	result := m.db.Model(&model.User{}).
		Where("verification_token IS NOT NULL AND verification_expires < ?", time.Now()).
		Updates(map[string]interface{}{
			"verification_token":   nil,
			"verification_expires": nil,
		})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to clear tokens: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Cleared %d expired verification tokens", result.RowsAffected))
}

// PurgeDeletedRows permanently removes soft-deleted rows past the retention
// window.
func (m *CronManager) PurgeDeletedRows() {
	jobName := "purge_deleted_rows"
	cutoff := time.Now().Add(-purgeAfter)

	purged := int64(0)
	for _, target := range []interface{}{
		&model.ActionItem{},
		&model.Meeting{},
		&model.Team{},
		&model.User{},
	} {
		result := m.db.Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Delete(target)
		if result.Error != nil {
			m.logJobError(jobName, fmt.Errorf("failed to purge rows: %w", result.Error))
			return
		}
		purged += result.RowsAffected
	}

	// Trim job history on the same retention window
	m.db.Where("started_at < ?", cutoff).Delete(&model.CronJobLog{})

	m.logJobComplete(jobName, fmt.Sprintf("Purged %d rows", purged))
}
