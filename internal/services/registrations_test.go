package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campusevents/internal/database"
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

func createTestUser(t *testing.T, db *database.DB, username string) int64 {
	t.Helper()

	result, err := db.Exec(
		"INSERT INTO users (username, email, password_hash, full_name) VALUES (?, ?, 'x', ?)",
		username, username+"@example.com", username,
	)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	id, _ := result.LastInsertId()
	return id
}

func createTestEvent(t *testing.T, db *database.DB, adminID int64, title, date string, capacity int) int64 {
	t.Helper()

	result, err := db.Exec(`
		INSERT INTO events (title, event_date, event_time, venue, capacity, category, created_by)
		VALUES (?, ?, '10:00', 'Main Hall', ?, 'technology', ?)
	`, title, date, capacity, adminID)
	if err != nil {
		t.Fatalf("Failed to create event %s: %v", title, err)
	}
	id, _ := result.LastInsertId()
	return id
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestRegisterTwice(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	ctx := context.Background()

	admin := createTestUser(t, db, "admin")
	user := createTestUser(t, db, "alice")
	event := createTestEvent(t, db, admin, "Tech Fest", futureDate(7), 10)

	reg, err := svc.Register(ctx, user, event)
	if err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	if reg.Status != "registered" {
		t.Errorf("Expected status registered, got %q", reg.Status)
	}

	if _, err := svc.Register(ctx, user, event); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("Expected ErrAlreadyRegistered, got %v", err)
	}

	count, err := svc.CountForEvent(ctx, event)
	if err != nil {
		t.Fatalf("CountForEvent failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 registration row, got %d", count)
	}
}

func TestRegisterEventFull(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	ctx := context.Background()

	admin := createTestUser(t, db, "admin")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, admin, "Small Workshop", futureDate(3), 1)

	if _, err := svc.Register(ctx, alice, event); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}

	if _, err := svc.Register(ctx, bob, event); !errors.Is(err, ErrEventFull) {
		t.Fatalf("Expected ErrEventFull, got %v", err)
	}

	count, _ := svc.CountForEvent(ctx, event)
	if count != 1 {
		t.Errorf("Expected 1 registration, got %d", count)
	}
}

func TestRegisterUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	user := createTestUser(t, db, "alice")

	if _, err := svc.Register(context.Background(), user, 9999); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("Expected ErrEventNotFound, got %v", err)
	}
}

// Capacity must hold even when requests race for the last seats.
func TestRegisterConcurrentCapacity(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	ctx := context.Background()

	admin := createTestUser(t, db, "admin")
	capacity := 5
	numRequests := 40
	event := createTestEvent(t, db, admin, "Popular Event", futureDate(10), capacity)

	userIDs := make([]int64, numRequests)
	for i := range userIDs {
		userIDs[i] = createTestUser(t, db, fmt.Sprintf("student%d", i))
	}

	var successCount, fullCount, errorCount int32
	var wg sync.WaitGroup
	wg.Add(numRequests)

	for i := 0; i < numRequests; i++ {
		go func(userID int64) {
			defer wg.Done()

			_, err := svc.Register(ctx, userID, event)
			switch {
			case err == nil:
				atomic.AddInt32(&successCount, 1)
			case errors.Is(err, ErrEventFull):
				atomic.AddInt32(&fullCount, 1)
			default:
				t.Logf("Unexpected error: %v", err)
				atomic.AddInt32(&errorCount, 1)
			}
		}(userIDs[i])
	}
	wg.Wait()

	if successCount != int32(capacity) {
		t.Errorf("Expected exactly %d successes, got %d", capacity, successCount)
	}
	if fullCount != int32(numRequests-capacity) {
		t.Errorf("Expected %d full errors, got %d", numRequests-capacity, fullCount)
	}
	if errorCount != 0 {
		t.Errorf("Expected 0 unexpected errors, got %d", errorCount)
	}

	count, err := svc.CountForEvent(ctx, event)
	if err != nil {
		t.Fatalf("CountForEvent failed: %v", err)
	}
	if count != capacity {
		t.Errorf("Expected %d registrations in db, got %d", capacity, count)
	}
}

// Two users, one seat: exactly one wins.
func TestRegisterLastSeat(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	ctx := context.Background()

	admin := createTestUser(t, db, "admin")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	event := createTestEvent(t, db, admin, "Final Seat", futureDate(2), 1)

	var successCount, fullCount int32
	var wg sync.WaitGroup
	for _, userID := range []int64{alice, bob} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := svc.Register(ctx, id, event)
			if err == nil {
				atomic.AddInt32(&successCount, 1)
			} else if errors.Is(err, ErrEventFull) {
				atomic.AddInt32(&fullCount, 1)
			} else {
				t.Errorf("Unexpected error: %v", err)
			}
		}(userID)
	}
	wg.Wait()

	if successCount != 1 || fullCount != 1 {
		t.Errorf("Expected 1 success and 1 full, got %d and %d", successCount, fullCount)
	}
}

func TestListForUserAndAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	ctx := context.Background()

	admin := createTestUser(t, db, "admin")
	user := createTestUser(t, db, "alice")

	first := createTestEvent(t, db, admin, "Registered Event", futureDate(5), 10)
	second := createTestEvent(t, db, admin, "Open Event", futureDate(6), 10)
	createTestEvent(t, db, admin, "Past Event", "2000-01-01", 10)

	if _, err := svc.Register(ctx, user, first); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	regs, err := svc.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(regs) != 1 || regs[0].Event.ID != first {
		t.Fatalf("Expected one registration for event %d, got %+v", first, regs)
	}

	available, err := svc.AvailableForUser(ctx, user, 0)
	if err != nil {
		t.Fatalf("AvailableForUser failed: %v", err)
	}
	if len(available) != 1 || available[0].ID != second {
		t.Fatalf("Expected only the open future event, got %+v", available)
	}

	registered, err := svc.IsRegistered(ctx, user, first)
	if err != nil || !registered {
		t.Errorf("Expected IsRegistered true, got %v, %v", registered, err)
	}
}
