package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/utils/apperror"
	"gorm.io/gorm"
)

// TeamService owns team CRUD and membership management.
type TeamService struct {
	db *gorm.DB
}

// NewTeamService creates a new team service
func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// Create creates a team and enrolls the creator as its owner in one
// transaction.
func (s *TeamService) Create(ctx context.Context, userID uuid.UUID, name, description string) (*model.Team, error) {
	team := &model.Team{
		Name:        name,
		Description: description,
		OwnerID:     userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		member := model.TeamMember{
			TeamID: team.ID,
			UserID: userID,
			Role:   model.TeamRoleOwner,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to create team").Wrap(err)
	}

	return team, nil
}

// List returns all teams the user belongs to
func (s *TeamService) List(ctx context.Context, userID uuid.UUID) ([]model.Team, error) {
	var teams []model.Team
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&model.TeamMember{}).Select("team_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&teams).Error
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to list teams").Wrap(err)
	}
	return teams, nil
}

// Get loads a team with its members; the caller must be one of them
func (s *TeamService) Get(ctx context.Context, userID, teamID uuid.UUID) (*model.Team, error) {
	if _, err := s.membership(ctx, teamID, userID); err != nil {
		return nil, err
	}

	var team model.Team
	err := s.db.WithContext(ctx).
		Preload("Members").
		Preload("Members.User").
		First(&team, "id = ?", teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("TEAM_NOT_FOUND", "Team not found")
	}
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load team").Wrap(err)
	}

	return &team, nil
}

// Update renames or re-describes a team. Owners and admins only.
func (s *TeamService) Update(ctx context.Context, userID, teamID uuid.UUID, name, description *string) (*model.Team, error) {
	if err := s.requireManager(ctx, teamID, userID); err != nil {
		return nil, err
	}

	var team model.Team
	if err := s.db.WithContext(ctx).First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("TEAM_NOT_FOUND", "Team not found")
		}
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load team").Wrap(err)
	}

	if name != nil {
		team.Name = *name
	}
	if description != nil {
		team.Description = *description
	}

	if err := s.db.WithContext(ctx).Save(&team).Error; err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to update team").Wrap(err)
	}
	return &team, nil
}

// Delete soft-deletes a team. Owner only.
func (s *TeamService) Delete(ctx context.Context, userID, teamID uuid.UUID) error {
	member, err := s.membership(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if member.Role != model.TeamRoleOwner {
		return apperror.Authorization("FORBIDDEN", "Only the team owner can delete the team")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Team{}, "id = ?", teamID).Error
	})
	if err != nil {
		return apperror.Transient("STORE_UNAVAILABLE", "Failed to delete team").Wrap(err)
	}
	return nil
}

// AddMember adds a registered user to the team by email. Owners and admins
// only.
func (s *TeamService) AddMember(ctx context.Context, userID, teamID uuid.UUID, email, role string) (*model.TeamMember, error) {
	if err := s.requireManager(ctx, teamID, userID); err != nil {
		return nil, err
	}

	if role == "" {
		role = model.TeamRoleMember
	}
	if !model.ValidTeamRole(role) || role == model.TeamRoleOwner {
		return nil, apperror.Validation("INVALID_ROLE", "Role must be admin or member")
	}

	var user model.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("USER_NOT_FOUND", "No user with that email")
	}
	if err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to look up user").Wrap(err)
	}

	member := &model.TeamMember{
		TeamID: teamID,
		UserID: user.ID,
		Role:   role,
	}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("ALREADY_MEMBER", "User is already a member of this team")
		}
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to add member").Wrap(err)
	}

	member.User = user
	return member, nil
}

// RemoveMember removes a member from the team. Owners and admins only; the
// owner cannot be removed.
func (s *TeamService) RemoveMember(ctx context.Context, userID, teamID, memberUserID uuid.UUID) error {
	if err := s.requireManager(ctx, teamID, userID); err != nil {
		return err
	}

	target, err := s.membership(ctx, teamID, memberUserID)
	if err != nil {
		// membership returns an authorization error for non-members;
		// report removal of a non-member as not found instead
		if apperror.KindOf(err) == apperror.KindAuthorization {
			return apperror.NotFound("MEMBER_NOT_FOUND", "User is not a member of this team")
		}
		return err
	}
	if target.Role == model.TeamRoleOwner {
		return apperror.Validation("CANNOT_REMOVE_OWNER", "The team owner cannot be removed")
	}

	err = s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, memberUserID).
		Delete(&model.TeamMember{}).Error
	if err != nil {
		return apperror.Transient("STORE_UNAVAILABLE", "Failed to remove member").Wrap(err)
	}
	return nil
}

func (s *TeamService) requireManager(ctx context.Context, teamID, userID uuid.UUID) error {
	member, err := s.membership(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !member.CanManage() {
		return apperror.Authorization("FORBIDDEN", "Only team owners and admins can do this")
	}
	return nil
}

func (s *TeamService) membership(ctx context.Context, teamID, userID uuid.UUID) (*model.TeamMember, error) {
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
