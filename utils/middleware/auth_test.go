package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/utils/auth"
)

type stubUserLoader struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func (s *stubUserLoader) ByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, errNoUser
}

var errNoUser = &notFoundErr{}

type notFoundErr struct{}

func (*notFoundErr) Error() string { return "user not found" }

type stubRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (s *stubRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = true
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[jti], nil
}

type stubProfileCache struct{}

func (stubProfileCache) Get(_ context.Context, _ uuid.UUID) *model.User { return nil }
func (stubProfileCache) Set(_ context.Context, _ *model.User) error     { return nil }
func (stubProfileCache) Delete(_ context.Context, _ uuid.UUID) error    { return nil }

type gatewayFixture struct {
	app     *fiber.App
	issuer  *auth.JWTManager
	users   *stubUserLoader
	revoker *stubRevoker
	user    *model.User
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	issuer := auth.NewJWTManager(auth.JWTConfig{
		Secret: "gateway-test-secret",
		Expiry: 15 * time.Minute,
	})

	user := &model.User{
		ID:              uuid.New(),
		Email:           "alice@example.com",
		Role:            model.RoleMember,
		IsEmailVerified: true,
		IsActive:        true,
	}

	users := &stubUserLoader{users: map[uuid.UUID]*model.User{user.ID: user}}
	revoker := &stubRevoker{revoked: map[string]bool{}}

	gateway := NewAuthMiddleware(issuer, revoker, users, stubProfileCache{})

	app := fiber.New()
	app.Get("/protected", gateway.Required(), func(c *fiber.Ctx) error {
		id, _ := GetUserID(c)
		return c.JSON(fiber.Map{"user_id": id.String()})
	})
	app.Get("/admin", gateway.Required(), gateway.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("admin ok")
	})
	app.Get("/open", gateway.Optional(), func(c *fiber.Ctx) error {
		if _, ok := GetUser(c); ok {
			return c.SendString("known")
		}
		return c.SendString("anonymous")
	})

	return &gatewayFixture{app: app, issuer: issuer, users: users, revoker: revoker, user: user}
}

func (f *gatewayFixture) token(t *testing.T) *auth.TokenPair {
	t.Helper()
	pair, err := f.issuer.Issue(f.user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return pair
}

func errorCode(t *testing.T, res *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error.Code
}

func TestRequiredRejectsMissingToken(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	if code := errorCode(t, res); code != "TOKEN_MISSING" {
		t.Errorf("expected TOKEN_MISSING, got %s", code)
	}
}

func TestRequiredAcceptsBearerToken(t *testing.T) {
	f := newGatewayFixture(t)
	pair := f.token(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}

func TestRequiredAcceptsCookieToken(t *testing.T) {
	f := newGatewayFixture(t)
	pair := f.token(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}

func TestRequiredRejectsRevokedToken(t *testing.T) {
	f := newGatewayFixture(t)
	pair := f.token(t)

	_ = f.revoker.Revoke(context.Background(), pair.AccessJTI, time.Hour)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	if code := errorCode(t, res); code != "TOKEN_REVOKED" {
		t.Errorf("expected TOKEN_REVOKED, got %s", code)
	}
}

func TestRequiredRejectsGarbageToken(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	if code := errorCode(t, res); code != "TOKEN_INVALID" {
		t.Errorf("expected TOKEN_INVALID, got %s", code)
	}
}

func TestRequiredRejectsInactiveUser(t *testing.T) {
	f := newGatewayFixture(t)
	pair := f.token(t)

	f.users.mu.Lock()
	f.users.users[f.user.ID].IsActive = false
	f.users.mu.Unlock()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	if code := errorCode(t, res); code != "USER_INACTIVE" {
		t.Errorf("expected USER_INACTIVE, got %s", code)
	}
}

func TestRequireRoleDeniesWrongRole(t *testing.T) {
	f := newGatewayFixture(t)
	pair := f.token(t)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for member on admin route, got %d", res.StatusCode)
	}
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	f := newGatewayFixture(t)

	f.users.mu.Lock()
	f.users.users[f.user.ID].Role = model.RoleAdmin
	f.users.mu.Unlock()

	pair := f.token(t)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", res.StatusCode)
	}
}

func TestOptionalProceedsAnonymously(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest("GET", "/open", nil)
	res, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	pair := f.token(t)
	req = httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	res, err = f.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}
