package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Team member roles
const (
	TeamRoleOwner  = "owner"
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)

// Team groups users that meet together
type Team struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Settings datatypes.JSONMap `gorm:"type:jsonb" json:"settings,omitempty"`

	// Relationships
	Owner   User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TeamMember is the team membership junction row
type TeamMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_team_user;not null" json:"team_id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_team_user;not null" json:"user_id"`
	Role     string    `gorm:"type:varchar(20);default:'member'" json:"role"` // owner, admin, member
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	Team Team `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ValidTeamRole reports whether role is a recognized team role.
func ValidTeamRole(role string) bool {
	switch role {
	case TeamRoleOwner, TeamRoleAdmin, TeamRoleMember:
		return true
	}
	return false
}

// CanManage reports whether this membership may mutate the team.
func (m *TeamMember) CanManage() bool {
	return m.Role == TeamRoleOwner || m.Role == TeamRoleAdmin
}
