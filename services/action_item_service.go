package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/utils/apperror"
	"gorm.io/gorm"
)

// ActionItemService owns follow-up task CRUD and status transitions.
type ActionItemService struct {
	db       *gorm.DB
	meetings *MeetingService
}

// NewActionItemService creates a new action item service
func NewActionItemService(db *gorm.DB, meetings *MeetingService) *ActionItemService {
	return &ActionItemService{db: db, meetings: meetings}
}

// CreateActionItemInput is the validated creation payload
type CreateActionItemInput struct {
	Title       string
	Description string
	MeetingID   uuid.UUID
	AssignedTo  *uuid.UUID
	Priority    string
	DueDate     time.Time
}

// Create attaches a new action item to a meeting the user can see
func (s *ActionItemService) Create(ctx context.Context, userID uuid.UUID, in CreateActionItemInput) (*model.ActionItem, error) {
	if _, err := s.meetings.Get(ctx, userID, in.MeetingID); err != nil {
		return nil, err
	}

	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(in.Priority) {
		return nil, apperror.Validation("INVALID_PRIORITY", "Priority must be low, medium, high, or urgent")
	}
	if in.DueDate.IsZero() {
		return nil, apperror.Validation("MISSING_DUE_DATE", "Due date is required")
	}

	item := &model.ActionItem{
		Title:       in.Title,
		Description: in.Description,
		MeetingID:   in.MeetingID,
		CreatedBy:   userID,
		AssignedTo:  in.AssignedTo,
		Status:      model.ActionItemOpen,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to create action item").Wrap(err)
	}

	return item, nil
}

// ListByMeeting returns a meeting's action items, urgent and overdue first
func (s *ActionItemService) ListByMeeting(ctx context.Context, userID, meetingID uuid.UUID) ([]model.ActionItem, error) {
	if _, err := s.meetings.Get(ctx, userID, meetingID); err != nil {
		return nil, err
	}

	var items []model.ActionItem
	err := s.db.WithContext(ctx).
		Preload("Assignee").
		Where("meeting_id = ?", meetingID).
		Order("due_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to list action items").Wrap(err)
	}
	return items, nil
}

// ListAssigned returns the user's assigned items across all meetings,
// optionally filtered by status.
func (s *ActionItemService) ListAssigned(ctx context.Context, userID uuid.UUID, status string, page, limit int) ([]model.ActionItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.ActionItem{}).
		Where("assigned_to = ? OR created_by = ?", userID, userID)

	if status != "" {
		if !model.ValidActionItemStatus(status) {
			return nil, 0, apperror.Validation("INVALID_STATUS", "Unknown action item status")
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Transient("STORE_UNAVAILABLE", "Failed to count action items").Wrap(err)
	}

	var items []model.ActionItem
	err := query.
		Order("due_date ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, apperror.Transient("STORE_UNAVAILABLE", "Failed to list action items").Wrap(err)
	}

	return items, total, nil
}

// Get loads one action item visible to the user
func (s *ActionItemService) Get(ctx context.Context, userID, itemID uuid.UUID) (*model.ActionItem, error) {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.canTouch(ctx, item, userID); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateActionItemInput carries editable fields. Nil means unchanged.
type UpdateActionItemInput struct {
	Title       *string
	Description *string
	AssignedTo  *uuid.UUID
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

// Update edits an action item. Creator and assignee may edit.
func (s *ActionItemService) Update(ctx context.Context, userID, itemID uuid.UUID, in UpdateActionItemInput) (*model.ActionItem, error) {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.canTouch(ctx, item, userID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.AssignedTo != nil {
		item.AssignedTo = in.AssignedTo
	}
	if in.Status != nil {
		if !model.ValidActionItemStatus(*in.Status) {
			return nil, apperror.Validation("INVALID_STATUS", "Unknown action item status")
		}
		if *in.Status == model.ActionItemCompleted && item.Status != model.ActionItemCompleted {
			item.MarkCompleted(userID)
		} else {
			item.Status = *in.Status
			if *in.Status != model.ActionItemCompleted {
				item.CompletedAt = nil
				item.CompletedBy = nil
			}
		}
	}
	if in.Priority != nil {
		if !model.ValidPriority(*in.Priority) {
			return nil, apperror.Validation("INVALID_PRIORITY", "Priority must be low, medium, high, or urgent")
		}
		item.Priority = *in.Priority
	}
	if in.DueDate != nil {
		item.DueDate = *in.DueDate
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to update action item").Wrap(err)
	}

	return item, nil
}

// Complete marks an item done, recording who completed it and when
func (s *ActionItemService) Complete(ctx context.Context, userID, itemID uuid.UUID) (*model.ActionItem, error) {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.canTouch(ctx, item, userID); err != nil {
		return nil, err
	}

	if item.Status == model.ActionItemCompleted {
		return nil, apperror.Validation("ALREADY_COMPLETED", "Action item is already completed")
	}

	item.MarkCompleted(userID)
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to complete action item").Wrap(err)
	}

	return item, nil
}

// Delete soft-deletes an action item. Creator only.
func (s *ActionItemService) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return err
	}
	if item.CreatedBy != userID {
		return apperror.Authorization("FORBIDDEN", "Only the creator can delete an action item")
	}

	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return apperror.Transient("STORE_UNAVAILABLE", "Failed to delete action item").Wrap(err)
	}
	return nil
}

func (s *ActionItemService) load(ctx context.Context, itemID uuid.UUID) (*model.ActionItem, error) {
	var item model.ActionItem
	err := s.db.WithContext(ctx).Preload("Assignee").First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("ACTION_ITEM_NOT_FOUND", "Action item not found")
	}
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load action item").Wrap(err)
	}
	return &item, nil
}

// canTouch allows the creator, the assignee, and anyone who can view the
// parent meeting.
func (s *ActionItemService) canTouch(ctx context.Context, item *model.ActionItem, userID uuid.UUID) error {
	if item.CreatedBy == userID {
		return nil
	}
	if item.AssignedTo != nil && *item.AssignedTo == userID {
		return nil
	}
	if _, err := s.meetings.Get(ctx, userID, item.MeetingID); err == nil {
		return nil
	}
	return apperror.Authorization("FORBIDDEN", "You do not have access to this action item")
}
