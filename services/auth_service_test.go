package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/database"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/utils/apperror"
	"github.com/smartmeet/meeting-assistant-api/utils/auth"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == strings.ToLower(user.Email) {
			return database.ErrDuplicateEmail
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(user.Email)
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) ByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == strings.ToLower(strings.TrimSpace(email)) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUserStore) ByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeUserStore) ByVerificationToken(_ context.Context, token string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			copied := *user
			return &copied, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUserStore) Save(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]bool{}}
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti], nil
}

type fakeProfileCache struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*model.User
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{profiles: map[uuid.UUID]*model.User{}}
}

func (f *fakeProfileCache) Get(_ context.Context, userID uuid.UUID) *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userID]
}

func (f *fakeProfileCache) Set(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[user.ID] = user
	return nil
}

func (f *fakeProfileCache) Delete(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, userID)
	return nil
}

type fakeMailer struct {
	mu           sync.Mutex
	verification []string
	welcome      []string
}

func (f *fakeMailer) SendVerificationEmail(toEmail, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verification = append(f.verification, toEmail)
	return nil
}

func (f *fakeMailer) SendWelcomeEmail(toEmail, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome = append(f.welcome, toEmail)
	return nil
}

type authFixture struct {
	service *AuthService
	users   *fakeUserStore
	revoker *fakeRevoker
	profile *fakeProfileCache
	mailer  *fakeMailer
	issuer  *auth.JWTManager
}

func newAuthFixture() *authFixture {
	users := newFakeUserStore()
	revoker := newFakeRevoker()
	profile := newFakeProfileCache()
	mailer := &fakeMailer{}
	issuer := auth.NewJWTManager(auth.JWTConfig{
		Secret:        "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: 30 * 24 * time.Hour,
		Issuer:        "test",
	})

	return &authFixture{
		service: NewAuthService(users, issuer, revoker, profile, mailer),
		users:   users,
		revoker: revoker,
		profile: profile,
		mailer:  mailer,
		issuer:  issuer,
	}
}

func (f *authFixture) register(t *testing.T, email, password string) *AuthResult {
	t.Helper()
	result, err := f.service.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return result
}

// verify flips the stored account to verified, standing in for the email
// round trip.
func (f *authFixture) verify(t *testing.T, userID uuid.UUID) {
	t.Helper()
	user, err := f.users.ByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("user not found: %v", err)
	}
	if user.VerificationToken == nil {
		t.Fatal("expected a verification token on a fresh account")
	}
	if _, err := f.service.VerifyEmail(context.Background(), *user.VerificationToken); err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
}

func TestRegisterIssuesTokensAndStartsUnverified(t *testing.T) {
	f := newAuthFixture()

	result := f.register(t, "Alice@Example.com", "a strong password")

	if result.Tokens == nil || result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected a full token pair at registration")
	}
	if result.User.IsEmailVerified {
		t.Error("fresh accounts must start unverified")
	}
	if result.User.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %s", result.User.Email)
	}
	if result.User.Role != model.RoleMember {
		t.Errorf("expected member role, got %s", result.User.Role)
	}
	if result.User.VerificationToken == nil || *result.User.VerificationToken == "" {
		t.Error("expected a verification token to be set")
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Register(context.Background(), RegisterInput{
		Email:     "bob@example.com",
		Password:  "short",
		FirstName: "Bob",
		LastName:  "B",
	})
	if apperror.CodeOf(err) != "WEAK_PASSWORD" {
		t.Errorf("expected WEAK_PASSWORD, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "carol@example.com", "a strong password")

	_, err := f.service.Register(context.Background(), RegisterInput{
		Email:     "CAROL@example.com",
		Password:  "another password",
		FirstName: "Carol",
		LastName:  "Two",
	})
	if apperror.CodeOf(err) != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %v", err)
	}
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Errorf("expected conflict kind, got %v", apperror.KindOf(err))
	}
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "dave@example.com", "a strong password")

	_, err := f.service.Login(context.Background(), "dave@example.com", "a strong password")
	if apperror.CodeOf(err) != "EMAIL_NOT_VERIFIED" {
		t.Errorf("expected EMAIL_NOT_VERIFIED, got %v", err)
	}
}

func TestLoginAfterVerification(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "erin@example.com", "a strong password")
	f.verify(t, result.User.ID)

	logged, err := f.service.Login(context.Background(), "erin@example.com", "a strong password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.User.LastLogin == nil {
		t.Error("expected LastLogin to be stamped")
	}
	if logged.Tokens.AccessJTI == result.Tokens.AccessJTI {
		t.Error("each login must mint fresh tokens")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "frank@example.com", "a strong password")
	f.verify(t, result.User.ID)

	_, unknownErr := f.service.Login(context.Background(), "nobody@example.com", "whatever pass")
	_, wrongErr := f.service.Login(context.Background(), "frank@example.com", "wrong password")

	if apperror.CodeOf(unknownErr) != "INVALID_CREDENTIALS" || apperror.CodeOf(wrongErr) != "INVALID_CREDENTIALS" {
		t.Fatalf("expected INVALID_CREDENTIALS for both, got %v / %v", unknownErr, wrongErr)
	}
	if apperror.MessageOf(unknownErr) != apperror.MessageOf(wrongErr) {
		t.Error("unknown-user and wrong-password responses must be identical")
	}
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "gina@example.com", "a strong password")
	f.verify(t, result.User.ID)

	user, _ := f.users.ByID(context.Background(), result.User.ID)
	user.IsActive = false
	_ = f.users.Save(context.Background(), user)

	_, err := f.service.Login(context.Background(), "gina@example.com", "a strong password")
	if apperror.CodeOf(err) != "ACCOUNT_DEACTIVATED" {
		t.Errorf("expected ACCOUNT_DEACTIVATED, got %v", err)
	}
}

func TestVerifyEmailTokenIsSingleUse(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "hank@example.com", "a strong password")

	stored, _ := f.users.ByID(context.Background(), result.User.ID)
	token := *stored.VerificationToken

	verified, err := f.service.VerifyEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if !verified.IsEmailVerified || verified.VerificationToken != nil {
		t.Error("expected verified account with cleared token")
	}

	if _, err := f.service.VerifyEmail(context.Background(), token); apperror.CodeOf(err) != "INVALID_OR_EXPIRED_TOKEN" {
		t.Errorf("expected second use to fail, got %v", err)
	}
}

func TestVerifyEmailRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "iris@example.com", "a strong password")

	user, _ := f.users.ByID(context.Background(), result.User.ID)
	expired := time.Now().Add(-time.Hour)
	user.VerificationExpires = &expired
	_ = f.users.Save(context.Background(), user)

	_, err := f.service.VerifyEmail(context.Background(), *user.VerificationToken)
	if apperror.CodeOf(err) != "INVALID_OR_EXPIRED_TOKEN" {
		t.Errorf("expected INVALID_OR_EXPIRED_TOKEN, got %v", err)
	}
}

func TestRefreshRotatesTheRefreshToken(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "judy@example.com", "a strong password")
	f.verify(t, result.User.ID)

	first, err := f.service.Refresh(context.Background(), result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if first.Tokens.RefreshToken == result.Tokens.RefreshToken {
		t.Error("refresh must mint a new refresh token")
	}

	// Replaying the consumed token must fail
	if _, err := f.service.Refresh(context.Background(), result.Tokens.RefreshToken); apperror.CodeOf(err) != "INVALID_TOKEN" {
		t.Errorf("expected replay to fail with INVALID_TOKEN, got %v", err)
	}

	// The new token still works
	if _, err := f.service.Refresh(context.Background(), first.Tokens.RefreshToken); err != nil {
		t.Errorf("fresh refresh token should work: %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "kate@example.com", "a strong password")

	if _, err := f.service.Refresh(context.Background(), result.Tokens.AccessToken); apperror.CodeOf(err) != "INVALID_TOKEN" {
		t.Errorf("expected access token to be rejected, got %v", err)
	}
}

func TestRefreshRejectsTamperedToken(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "liam@example.com", "a strong password")

	tampered := result.Tokens.RefreshToken + "x"
	if _, err := f.service.Refresh(context.Background(), tampered); apperror.CodeOf(err) != "INVALID_TOKEN" {
		t.Errorf("expected tampered token to be rejected, got %v", err)
	}
}

func TestLogoutRevokesBothTokensAndEvictsProfile(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "mona@example.com", "a strong password")

	err := f.service.Logout(context.Background(), result.User.ID, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if revoked, _ := f.revoker.IsRevoked(context.Background(), result.Tokens.AccessJTI); !revoked {
		t.Error("access token JTI should be revoked")
	}
	if revoked, _ := f.revoker.IsRevoked(context.Background(), result.Tokens.RefreshJTI); !revoked {
		t.Error("refresh token JTI should be revoked")
	}
	if f.profile.Get(context.Background(), result.User.ID) != nil {
		t.Error("cached profile should be evicted at logout")
	}

	// Logged-out refresh token cannot be replayed
	if _, err := f.service.Refresh(context.Background(), result.Tokens.RefreshToken); apperror.CodeOf(err) != "INVALID_TOKEN" {
		t.Errorf("expected revoked refresh token to fail, got %v", err)
	}
}

func TestLogoutLeavesOtherSessionsAlone(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "nina@example.com", "a strong password")
	f.verify(t, result.User.ID)

	second, err := f.service.Login(context.Background(), "nina@example.com", "a strong password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := f.service.Logout(context.Background(), result.User.ID, result.Tokens.AccessToken, result.Tokens.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if revoked, _ := f.revoker.IsRevoked(context.Background(), second.Tokens.AccessJTI); revoked {
		t.Error("the second session's access token must stay valid")
	}
	if _, err := f.service.Refresh(context.Background(), second.Tokens.RefreshToken); err != nil {
		t.Errorf("the second session's refresh token must still work: %v", err)
	}
}

func TestUpdatePasswordVerifiesOldPassword(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "omar@example.com", "a strong password")
	f.verify(t, result.User.ID)

	err := f.service.UpdatePassword(context.Background(), result.User.ID, "not the password", "a brand new password")
	if apperror.CodeOf(err) != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %v", err)
	}

	if err := f.service.UpdatePassword(context.Background(), result.User.ID, "a strong password", "a brand new password"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	if _, err := f.service.Login(context.Background(), "omar@example.com", "a strong password"); err == nil {
		t.Error("old password must stop working")
	}
	if _, err := f.service.Login(context.Background(), "omar@example.com", "a brand new password"); err != nil {
		t.Errorf("new password must work: %v", err)
	}
}

func TestResendVerificationIssuesFreshToken(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "pete@example.com", "a strong password")

	before, _ := f.users.ByID(context.Background(), result.User.ID)
	oldToken := *before.VerificationToken

	if err := f.service.ResendVerification(context.Background(), "pete@example.com"); err != nil {
		t.Fatalf("ResendVerification failed: %v", err)
	}

	after, _ := f.users.ByID(context.Background(), result.User.ID)
	if after.VerificationToken == nil || *after.VerificationToken == oldToken {
		t.Error("expected a fresh verification token")
	}

	f.mailer.mu.Lock()
	sent := len(f.mailer.verification)
	f.mailer.mu.Unlock()
	if sent == 0 {
		t.Error("expected a verification email to be sent")
	}
}

func TestResendVerificationRejectsVerifiedAccount(t *testing.T) {
	f := newAuthFixture()
	result := f.register(t, "quin@example.com", "a strong password")
	f.verify(t, result.User.ID)

	err := f.service.ResendVerification(context.Background(), "quin@example.com")
	if apperror.CodeOf(err) != "ALREADY_VERIFIED" {
		t.Errorf("expected ALREADY_VERIFIED, got %v", err)
	}
}
