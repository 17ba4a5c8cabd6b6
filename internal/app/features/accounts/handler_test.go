package accounts_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/mepad/internal/app/features/accounts"
	"github.com/dalemusser/mepad/internal/app/store/audit"
	userstore "github.com/dalemusser/mepad/internal/app/store/users"
	"github.com/dalemusser/mepad/internal/app/system/auditlog"
	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/dalemusser/mepad/internal/app/system/ratelimit"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"github.com/dalemusser/mepad/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return models.User{}, userstore.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	f.users[u.ID] = u
	return u, nil
}

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Log(_ context.Context, e audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type testEnv struct {
	users  *fakeUsers
	tokens *auth.TokenIssuer
	audits *recorder
	router http.Handler
}

func newEnv(t *testing.T, limit func(http.Handler) http.Handler) (testEnv, *accounts.Handler) {
	t.Helper()
	users := &fakeUsers{users: map[primitive.ObjectID]models.User{}}
	tokens := auth.NewTokenIssuer("test-secret-that-is-long-enough-123", "mepad-test", time.Hour)
	rec := &recorder{}
	h := accounts.NewHandler(accounts.NewService(users, tokens),
		auditlog.New(rec, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeDB}), zap.NewNop())
	return testEnv{users: users, tokens: tokens, audits: rec, router: accounts.Routes(h, limit)}, h
}

func (e testEnv) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) addUser(t *testing.T, email, password, role, status string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{ID: primitive.NewObjectID(), FullName: "Existing", Email: email, PasswordHash: hash, Role: role, Status: status}
	e.users.users[u.ID] = u
	return u
}

func TestRegister(t *testing.T) {
	e, _ := newEnv(t, nil)

	rec := e.do(testutil.NewJSONRequest("POST", "/register", map[string]any{
		"name":     "Robin Q",
		"email":    "Robin@Example.com",
		"password": "s3cret-pass",
	}))

	rec.AssertStatus(t, http.StatusCreated)
	var sess accounts.Session
	rec.Envelope(t, &sess)
	if sess.User.Email != "robin@example.com" || sess.User.Role != models.RoleParticipant {
		t.Errorf("profile = %+v", sess.User)
	}
	claims, err := e.tokens.Parse(sess.Token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.Subject != sess.User.ID.Hex() || claims.Role != models.RoleParticipant {
		t.Errorf("claims = %+v", claims)
	}
	rec.AssertContains(t, `"token"`)
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response mentions the password")
	}
	if got := e.audits.types(); len(got) != 1 || got[0] != audit.EventRegistered {
		t.Errorf("audit = %v", got)
	}
}

func TestRegister_Rejections(t *testing.T) {
	e, _ := newEnv(t, nil)
	e.addUser(t, "taken@example.com", "password1", models.RoleParticipant, models.UserActive)

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{"admin role", map[string]any{"name": "A", "email": "a@example.com", "password": "password1", "role": "admin"},
			"admin accounts cannot be self-registered"},
		{"short password", map[string]any{"name": "A", "email": "a@example.com", "password": "short"},
			"password must be at least 8 characters"},
		{"bad email", map[string]any{"name": "A", "email": "nope", "password": "password1"},
			"email must be a valid email address"},
		{"missing name", map[string]any{"email": "a@example.com", "password": "password1"},
			"name is required"},
		{"duplicate email", map[string]any{"name": "A", "email": "TAKEN@example.com", "password": "password1"},
			"a user with this email already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(testutil.NewJSONRequest("POST", "/register", tt.body))
			rec.AssertStatus(t, http.StatusBadRequest)
			if env := rec.Envelope(t, nil); env.Error != tt.message {
				t.Errorf("error = %q, want %q", env.Error, tt.message)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	e, _ := newEnv(t, nil)
	active := e.addUser(t, "active@example.com", "password1", models.RoleAdmin, models.UserActive)
	e.addUser(t, "off@example.com", "password1", models.RoleParticipant, models.UserDisabled)

	t.Run("success", func(t *testing.T) {
		rec := e.do(testutil.NewJSONRequest("POST", "/login", map[string]any{"email": "Active@example.com", "password": "password1"}))
		rec.AssertStatus(t, http.StatusOK)
		var sess accounts.Session
		rec.Envelope(t, &sess)
		if sess.User.ID != active.ID || sess.User.Role != models.RoleAdmin {
			t.Errorf("profile = %+v", sess.User)
		}
	})

	failures := []struct {
		name, email, password string
	}{
		{"wrong password", "active@example.com", "password2"},
		{"unknown email", "ghost@example.com", "password1"},
		{"disabled", "off@example.com", "password1"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(testutil.NewJSONRequest("POST", "/login", map[string]any{"email": tt.email, "password": tt.password}))
			rec.AssertStatus(t, http.StatusUnauthorized)
			if env := rec.Envelope(t, nil); env.Error != "invalid credentials" {
				t.Errorf("error = %q, want the generic message", env.Error)
			}
		})
	}

	want := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedUserDisabled,
	}
	if got := e.audits.types(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("audit = %v, want %v", got, want)
	}
}

func TestMe(t *testing.T) {
	e, _ := newEnv(t, nil)
	u := e.addUser(t, "me@example.com", "password1", models.RoleParticipant, models.UserActive)

	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/me", testutil.TestUser{ID: u.ID.Hex(), Role: u.Role}))
	rec.AssertStatus(t, http.StatusOK)
	var p accounts.Profile
	rec.Envelope(t, &p)
	if p.Email != "me@example.com" {
		t.Errorf("profile = %+v", p)
	}
	if strings.Contains(rec.Body.String(), "password_hash") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("profile leaks the password hash")
	}

	rec = e.do(testutil.NewRequest("GET", "/me"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestAuthRoutes_RateLimited(t *testing.T) {
	lim := ratelimit.New(1, 1)
	t.Cleanup(lim.Stop)

	var h *accounts.Handler
	onLimit := func(w http.ResponseWriter, r *http.Request) { h.HandleRateLimited(w, r) }
	e, handler := newEnv(t, lim.Middleware(onLimit))
	h = handler

	login := func() *testutil.ResponseRecorder {
		req := testutil.NewJSONRequest("POST", "/login", map[string]any{"email": "x@example.com", "password": "password1"})
		req.RemoteAddr = "203.0.113.9:5000"
		return e.do(req)
	}

	login().AssertStatus(t, http.StatusUnauthorized)
	rec := login()
	rec.AssertStatus(t, http.StatusTooManyRequests)
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	got := e.audits.types()
	if len(got) != 2 || got[1] != audit.EventRateLimited {
		t.Errorf("audit = %v", got)
	}
}
