package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// User represents a registered user in the system
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"` // bcrypt hash, never plaintext and never serialized
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Role      string `gorm:"type:varchar(20);default:'member'" json:"role"` // admin, manager, member

	ProfileImage string `json:"profile_image,omitempty"`
	Bio          string `gorm:"type:text" json:"bio,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Timezone     string `gorm:"default:'UTC'" json:"timezone"`

	IsEmailVerified     bool       `gorm:"default:false" json:"is_email_verified"`
	VerificationToken   *string    `gorm:"index" json:"-"`
	VerificationExpires *time.Time `json:"-"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	LastLogin           *time.Time `json:"last_login,omitempty"`

	Preferences datatypes.JSONMap `gorm:"type:jsonb" json:"preferences,omitempty"`

	// Relationships
	Meetings    []Meeting    `gorm:"foreignKey:CreatedBy" json:"-"`
	ActionItems []ActionItem `gorm:"foreignKey:AssignedTo" json:"-"`
	OwnedTeams  []Team       `gorm:"foreignKey:OwnerID" json:"-"`
}

// BeforeCreate assigns a UUID and normalizes the email to lowercase.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

// BeforeSave keeps the email lowercase on updates too.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// FullName returns the display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsVerificationExpired reports whether the pending verification token has
// passed its expiry. A user without a token counts as expired.
func (u *User) IsVerificationExpired() bool {
	if u.VerificationToken == nil || u.VerificationExpires == nil {
		return true
	}
	return time.Now().After(*u.VerificationExpires)
}

// ValidRole reports whether role is one of the recognized user roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleMember
}
