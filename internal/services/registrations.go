package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusevents/internal/database"
	"campusevents/internal/models"
)

var (
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is full")
)

type RegistrationService struct {
	db *database.DB
}

func NewRegistrationService(db *database.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// Register enrolls a user in an event. The duplicate and capacity checks and
// the insert run in one transaction; combined with the single-connection
// pool this means two requests racing for the last seat cannot both win. The
// partial unique index on (user_id, event_id) backstops duplicates.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID int64) (*models.Registration, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() // Safe to call even if committed

	var capacity int
	err = tx.QueryRowContext(ctx,
		"SELECT capacity FROM events WHERE id = ?", eventID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE user_id = ? AND event_id = ? AND status = ?",
		userID, eventID, models.RegistrationStatusRegistered,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyRegistered
	}

	var registered int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = ? AND status = ?",
		eventID, models.RegistrationStatusRegistered,
	).Scan(&registered)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	if registered >= capacity {
		return nil, ErrEventFull
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO registrations (user_id, event_id, status) VALUES (?, ?, ?)",
		userID, eventID, models.RegistrationStatusRegistered,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	id, _ := result.LastInsertId()
	return s.getByID(ctx, id)
}

func (s *RegistrationService) getByID(ctx context.Context, id int64) (*models.Registration, error) {
	var reg models.Registration
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, event_id, registered_at, status FROM registrations WHERE id = ?", id,
	).Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt, &reg.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &reg, nil
}

// ListForUser returns the user's registrations joined with their events,
// soonest event first.
func (s *RegistrationService) ListForUser(ctx context.Context, userID int64) ([]models.RegisteredEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.event_id, r.registered_at, r.status,
		       e.id, e.title, e.description, e.event_date, e.event_time, e.venue,
		       e.capacity, e.category, e.created_by, e.status, e.created_at
		FROM registrations r
		JOIN events e ON r.event_id = e.id
		WHERE r.user_id = ? AND r.status = ?
		ORDER BY e.event_date ASC, e.event_time ASC
	`, userID, models.RegistrationStatusRegistered)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []models.RegisteredEvent
	for rows.Next() {
		var re models.RegisteredEvent
		if err := rows.Scan(
			&re.Registration.ID, &re.Registration.UserID, &re.Registration.EventID,
			&re.Registration.RegisteredAt, &re.Registration.Status,
			&re.Event.ID, &re.Event.Title, &re.Event.Description, &re.Event.Date,
			&re.Event.StartTime, &re.Event.Venue, &re.Event.Capacity, &re.Event.Category,
			&re.Event.CreatedBy, &re.Event.Status, &re.Event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, re)
	}
	return regs, rows.Err()
}

// AvailableForUser lists active, future events the user has no live
// registration for, soonest first.
func (s *RegistrationService) AvailableForUser(ctx context.Context, userID int64, limit int) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE status = ? AND event_date >= ?
		AND id NOT IN (
			SELECT event_id FROM registrations WHERE user_id = ? AND status = ?
		)
		ORDER BY event_date ASC, event_time ASC`
	args := []interface{}{
		models.EventStatusActive, today(), userID, models.RegistrationStatusRegistered,
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query available events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Date, &e.StartTime, &e.Venue,
			&e.Capacity, &e.Category, &e.CreatedBy, &e.Status, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *RegistrationService) IsRegistered(ctx context.Context, userID, eventID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE user_id = ? AND event_id = ? AND status = ?",
		userID, eventID, models.RegistrationStatusRegistered,
	).Scan(&count)
	return count > 0, err
}

// CountForEvent counts live registrations, i.e. seats taken.
func (s *RegistrationService) CountForEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = ? AND status = ?",
		eventID, models.RegistrationStatusRegistered,
	).Scan(&count)
	return count, err
}

func (s *RegistrationService) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM registrations").Scan(&count)
	return count, err
}
