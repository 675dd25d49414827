package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"campusevents/internal/auth"
	"campusevents/internal/database"
	"campusevents/internal/models"
)

func newFixture(t *testing.T) (*AuthMiddleware, *auth.SessionManager, *auth.UserService) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := auth.NewUserService(db)
	sessions := auth.NewSessionManager("test-secret-test-secret-32bytes!", 3600)
	return NewAuthMiddleware(sessions, users), sessions, users
}

func loginAs(t *testing.T, sessions *auth.SessionManager, user *models.User) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := sessions.SetUser(rec, req, user, 0); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected a session cookie")
	}
	return cookies[0]
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	mw, _, _ := newFixture(t)

	called := false
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if called {
		t.Error("Handler must not run without a session")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("Expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireAuthLoadsUser(t *testing.T) {
	mw, sessions, users := newFixture(t)

	user, err := users.Create(context.Background(), "alice", "alice@example.com", "secret123", "Alice", models.RoleStudent)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var got *models.User
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUser(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(loginAs(t, sessions, user))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != user.ID {
		t.Fatalf("Expected user %d in context, got %+v", user.ID, got)
	}
}

func TestRequireAdminRejectsStudent(t *testing.T) {
	mw, sessions, users := newFixture(t)

	student, err := users.Create(context.Background(), "alice", "alice@example.com", "secret123", "Alice", models.RoleStudent)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	called := false
	handler := mw.RequireAuth(mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(loginAs(t, sessions, student))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("Handler must not run for non-admins")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("Expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	mw, sessions, users := newFixture(t)

	admin, err := users.Create(context.Background(), "admin", "admin@example.com", "secret123", "Admin", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	called := false
	handler := mw.RequireAuth(mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(loginAs(t, sessions, admin))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("Expected handler to run for admin")
	}
}
