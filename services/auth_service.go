package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/database"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/utils/apperror"
	"github.com/smartmeet/meeting-assistant-api/utils/auth"
)

// VerificationTokenTTL bounds how long an email verification link stays valid
const VerificationTokenTTL = 24 * time.Hour

// UserStore is the credential store consumed by the auth service
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ByVerificationToken(ctx context.Context, token string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
}

// TokenRevoker is the denylist consumed by the auth service and gateway
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ProfileCache caches password-excluded user profiles between requests
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) *model.User
	Set(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// Mailer sends account lifecycle emails. Failures are logged and ignored;
// they never fail the calling operation.
type Mailer interface {
	SendVerificationEmail(toEmail, firstName, token string) error
	SendWelcomeEmail(toEmail, firstName string) error
}

// AuthService orchestrates register/login/refresh/logout/password-change
// against the credential store, token issuer, and revocation cache.
type AuthService struct {
	users   UserStore
	issuer  *auth.JWTManager
	revoker TokenRevoker
	profile ProfileCache
	mailer  Mailer
}

// NewAuthService wires the auth service with its collaborators
func NewAuthService(users UserStore, issuer *auth.JWTManager, revoker TokenRevoker, profile ProfileCache, mailer Mailer) *AuthService {
	return &AuthService{
		users:   users,
		issuer:  issuer,
		revoker: revoker,
		profile: profile,
		mailer:  mailer,
	}
}

// AuthResult carries the outcome of register/login/refresh
type AuthResult struct {
	User   *model.User
	Tokens *auth.TokenPair
}

// RegisterInput is the validated registration payload
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates an unverified user, sends the verification email in the
// background, and issues a token pair immediately (registration does not
// block on verification).
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if !auth.IsPasswordValid(in.Password) {
		return nil, apperror.Validation("WEAK_PASSWORD", "Password must be at least 8 characters long")
	}

	// Optimization only; the unique index is the real guard against races.
	if _, err := s.users.ByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict("DUPLICATE_EMAIL", "Email already registered")
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to check existing users").Wrap(err)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("Failed to process password").Wrap(err)
	}

	verificationToken, err := auth.GenerateVerificationToken()
	if err != nil {
		return nil, apperror.Internal("Failed to generate verification token").Wrap(err)
	}
	verificationExpires := time.Now().Add(VerificationTokenTTL)

	user := &model.User{
		Email:               in.Email,
		Password:            hashed,
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		Role:                model.RoleMember,
		IsEmailVerified:     false,
		VerificationToken:   &verificationToken,
		VerificationExpires: &verificationExpires,
		IsActive:            true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, apperror.Conflict("DUPLICATE_EMAIL", "Email already registered")
		}
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to create user").Wrap(err)
	}

	// Fire and forget; a lost email must not fail registration.
	go func(email, firstName, token string) {
		if err := s.mailer.SendVerificationEmail(email, firstName, token); err != nil {
			log.Printf("Failed to send verification email to %s: %v", email, err)
		}
	}(user.Email, user.FirstName, verificationToken)

	tokens, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal("Failed to issue tokens").Wrap(err)
	}

	if err := s.profile.Set(ctx, user); err != nil {
		log.Printf("Failed to cache profile for %s: %v", user.ID, err)
	}

	log.Printf("User registered: %s", user.Email)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login verifies credentials and issues a fresh token pair. A missing user
// and a wrong password yield the identical error so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	invalidCredentials := apperror.Authentication("INVALID_CREDENTIALS", "Invalid email or password")

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load user").Wrap(err)
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, invalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, apperror.Authentication("EMAIL_NOT_VERIFIED", "Please verify your email before logging in")
	}

	if !user.IsActive {
		return nil, apperror.Authentication("ACCOUNT_DEACTIVATED", "Your account has been deactivated")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to update login timestamp").Wrap(err)
	}

	tokens, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal("Failed to issue tokens").Wrap(err)
	}

	if err := s.profile.Set(ctx, user); err != nil {
		log.Printf("Failed to cache profile for %s: %v", user.ID, err)
	}

	log.Printf("User logged in: %s", user.Email)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh validates a refresh token and mints a brand-new pair for the
// same subject. The consumed refresh token is revoked for its remaining
// lifetime (single-use rotation), so replaying it fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	invalidToken := apperror.Authentication("INVALID_TOKEN", "Invalid or expired refresh token")

	claims, err := s.issuer.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, invalidToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperror.Transient("CACHE_UNAVAILABLE", "Failed to check token status").Wrap(err)
	}
	if revoked {
		return nil, invalidToken
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return nil, invalidToken
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, invalidToken
		}
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load user").Wrap(err)
	}
	if !user.IsActive {
		return nil, apperror.Authentication("ACCOUNT_DEACTIVATED", "Your account has been deactivated")
	}

	tokens, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal("Failed to issue tokens").Wrap(err)
	}

	// Rotate: the old refresh token dies with the new pair issued. A
	// failed revocation is logged, not fatal; the token still expires on
	// its own schedule.
	if err := s.revoker.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		log.Printf("Failed to revoke rotated refresh token for %s: %v", user.ID, err)
	}

	log.Printf("Token refreshed for user: %s", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Logout revokes the presented access token for its remaining lifetime,
// revokes the paired refresh token when supplied, and evicts the cached
// profile. Tokens from other sessions stay valid.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string) error {
	claims, err := s.issuer.ExtractClaims(accessToken)
	if err != nil {
		return apperror.Authentication("INVALID_TOKEN", "Invalid access token")
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return apperror.Transient("CACHE_UNAVAILABLE", "Failed to revoke token").Wrap(err)
	}

	if refreshToken != "" {
		if rc, err := s.issuer.ExtractClaims(refreshToken); err == nil {
			if err := s.revoker.Revoke(ctx, rc.ID, rc.RemainingTTL()); err != nil {
				log.Printf("Failed to revoke refresh token for %s: %v", userID, err)
			}
		}
	}

	if err := s.profile.Delete(ctx, userID); err != nil {
		log.Printf("Failed to evict cached profile for %s: %v", userID, err)
	}

	log.Printf("User logged out: %s", userID)
	return nil
}

// VerifyEmail marks the account verified and clears the single-use token
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	invalidToken := apperror.Validation("INVALID_OR_EXPIRED_TOKEN", "Invalid or expired verification token")

	if token == "" {
		return nil, invalidToken
	}

	user, err := s.users.ByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, invalidToken
		}
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load user").Wrap(err)
	}

	if user.IsVerificationExpired() {
		return nil, invalidToken
	}

	user.IsEmailVerified = true
	user.VerificationToken = nil
	user.VerificationExpires = nil
	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to update user").Wrap(err)
	}

	go func(email, firstName string) {
		if err := s.mailer.SendWelcomeEmail(email, firstName); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", email, err)
		}
	}(user.Email, user.FirstName)

	if err := s.profile.Delete(ctx, user.ID); err != nil {
		log.Printf("Failed to evict cached profile for %s: %v", user.ID, err)
	}

	log.Printf("Email verified: %s", user.Email)
	return user, nil
}

// ResendVerification issues a fresh verification token for an unverified
// account and emails it out.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperror.NotFound("USER_NOT_FOUND", "User not found")
		}
		return apperror.Transient("STORE_UNAVAILABLE", "Failed to load user").Wrap(err)
	}

	if user.IsEmailVerified {
		return apperror.Validation("ALREADY_VERIFIED", "Email already verified")
	}

	token, err := auth.GenerateVerificationToken()
	if err != nil {
		return apperror.Internal("Failed to generate verification token").Wrap(err)
	}
	expires := time.Now().Add(VerificationTokenTTL)

	user.VerificationToken = &token
	user.VerificationExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return apperror.Transient("STORE_UNAVAILABLE", "Failed to update user").Wrap(err)
	}

	if err := s.mailer.SendVerificationEmail(user.Email, user.FirstName, token); err != nil {
		return apperror.Transient("EMAIL_UNAVAILABLE", "Failed to send verification email").Wrap(err)
	}

	log.Printf("Verification email resent: %s", user.Email)
	return nil
}

// UpdatePassword re-hashes and persists a new password after verifying the
// old one, then evicts the cached profile.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperror.NotFound("USER_NOT_FOUND", "User not found")
		}
		return apperror.Transient("STORE_UNAVAILABLE", "Failed to load user").Wrap(err)
	}

	if err := auth.VerifyPassword(user.Password, oldPassword); err != nil {
		return apperror.Authentication("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	if !auth.IsPasswordValid(newPassword) {
		return apperror.Validation("WEAK_PASSWORD", "New password must be at least 8 characters long")
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal("Failed to process password").Wrap(err)
	}

	user.Password = hashed
	if err := s.users.Save(ctx, user); err != nil {
		return apperror.Transient("STORE_UNAVAILABLE", "Failed to update password").Wrap(err)
	}

	if err := s.profile.Delete(ctx, userID); err != nil {
		log.Printf("Failed to evict cached profile for %s: %v", userID, err)
	}

	log.Printf("Password updated for user: %s", userID)
	return nil
}

// Me loads the current user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("USER_NOT_FOUND", "User not found")
		}
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load user").Wrap(err)
	}
	return user, nil
}

// ProfileUpdate is the set of editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Phone     *string
	Timezone  *string
}

// UpdateProfile applies the given profile changes and refreshes the cache
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("USER_NOT_FOUND", "User not found")
		}
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to load user").Wrap(err)
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Timezone != nil {
		user.Timezone = *update.Timezone
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperror.Transient("STORE_UNAVAILABLE", "Failed to update profile").Wrap(err)
	}

	if err := s.profile.Set(ctx, user); err != nil {
		log.Printf("Failed to cache profile for %s: %v", user.ID, err)
	}

	return user, nil
}
