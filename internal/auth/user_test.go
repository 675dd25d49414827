package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"campusevents/internal/database"
	"campusevents/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestCreateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, "alice", "alice@example.com", "secret123", "Alice Smith", models.RoleStudent)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.Role != models.RoleStudent || !user.IsActive {
		t.Errorf("Unexpected user defaults: %+v", user)
	}

	got, err := svc.Authenticate(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Expected user %d, got %d", user.ID, got.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", "alice@example.com", "secret123", "Alice", models.RoleStudent); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := svc.Create(ctx, "alice", "other@example.com", "secret123", "Other Alice", models.RoleStudent)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("Expected ErrUsernameTaken, got %v", err)
	}

	count, _ := svc.Count(ctx)
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", "alice@example.com", "secret123", "Alice", models.RoleStudent); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := svc.Create(ctx, "bob", "alice@example.com", "secret123", "Bob", models.RoleStudent)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	if _, err := svc.GetByID(context.Background(), 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	admin, err := svc.EnsureDefaultAdmin(ctx, "admin", "admin123", "admin@college.edu")
	if err != nil {
		t.Fatalf("EnsureDefaultAdmin failed: %v", err)
	}
	if !admin.IsAdmin() {
		t.Errorf("Expected admin role, got %q", admin.Role)
	}

	again, err := svc.EnsureDefaultAdmin(ctx, "admin", "admin123", "admin@college.edu")
	if err != nil {
		t.Fatalf("Second EnsureDefaultAdmin failed: %v", err)
	}
	if again.ID != admin.ID {
		t.Errorf("Expected existing admin %d, got %d", admin.ID, again.ID)
	}

	count, _ := svc.Count(ctx)
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}
}

func TestCountStudents(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "admin", "admin@example.com", "secret123", "Admin", models.RoleAdmin); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, "alice", "alice@example.com", "secret123", "Alice", models.RoleStudent); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	students, err := svc.CountStudents(ctx)
	if err != nil {
		t.Fatalf("CountStudents failed: %v", err)
	}
	if students != 1 {
		t.Errorf("Expected 1 student, got %d", students)
	}
}
