package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no matching row exists
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the email uniqueness constraint fires
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the credential store. The unique index on email is the
// source of truth for duplicate detection; pre-checks in the service layer
// are an optimization only.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository over the given connection
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user. The password must already be hashed.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

// ByEmail finds a user by case-insensitive email match
func (r *UserRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByID finds a user by primary key
func (r *UserRepository) ByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByVerificationToken finds the user holding a pending verification token
func (r *UserRepository) ByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Save persists all fields of an existing user
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
