package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/database"
	"campusevents/internal/models"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
)

const eventColumns = "id, title, description, event_date, event_time, venue, capacity, category, created_by, status, created_at"

type EventService struct {
	db *database.DB
}

func NewEventService(db *database.DB) *EventService {
	return &EventService{db: db}
}

type CreateEventInput struct {
	Title       string
	Description string
	Date        string // 2006-01-02
	StartTime   string // 15:04
	Venue       string
	Capacity    int
	Category    string
	CreatedBy   int64
}

func (in *CreateEventInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || in.Venue == "" {
		return fmt.Errorf("%w: title and venue are required", ErrInvalidEvent)
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalidEvent, in.Date)
	}
	if _, err := time.Parse("15:04", in.StartTime); err != nil {
		return fmt.Errorf("%w: bad time %q", ErrInvalidEvent, in.StartTime)
	}
	if in.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidEvent)
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Category == "" {
		in.Category = models.DefaultCategory
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO events (title, description, event_date, event_time, venue, capacity, category, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Title, in.Description, in.Date, in.StartTime, in.Venue, in.Capacity, in.Category, in.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	id, _ := result.LastInsertId()
	return s.GetByID(ctx, id)
}

func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var e models.Event
	err := s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", id,
	).Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.StartTime, &e.Venue,
		&e.Capacity, &e.Category, &e.CreatedBy, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

// Upcoming lists active events dated today or later, soonest first. A limit
// of 0 means no cap.
func (s *EventService) Upcoming(ctx context.Context, limit int) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE status = ? AND event_date >= ?
		ORDER BY event_date ASC, event_time ASC`
	args := []interface{}{models.EventStatusActive, today()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryEvents(ctx, query, args...)
}

// SearchFilter narrows the active-event listing; zero values mean "any".
// Title matches as a substring, category and date match exactly.
type SearchFilter struct {
	Title    string
	Category string
	Date     string
}

func (s *EventService) Search(ctx context.Context, f SearchFilter) ([]models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE status = ?"
	args := []interface{}{models.EventStatusActive}

	if f.Title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+f.Title+"%")
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Date != "" {
		// Ignore unparseable dates rather than failing the whole search.
		if _, err := time.Parse("2006-01-02", f.Date); err == nil {
			query += " AND event_date = ?"
			args = append(args, f.Date)
		}
	}

	query += " ORDER BY event_date ASC, event_time ASC"
	return s.queryEvents(ctx, query, args...)
}

// Recent lists the latest-created events for the admin dashboard.
func (s *EventService) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	return s.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY created_at DESC, id DESC LIMIT ?", limit)
}

func (s *EventService) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM events WHERE category != '' ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *EventService) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM events GROUP BY category ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

func (s *EventService) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count)
	return count, err
}

func (s *EventService) CountActive(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE status = ?", models.EventStatusActive,
	).Scan(&count)
	return count, err
}

func (s *EventService) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
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

func today() string {
	return time.Now().Format("2006-01-02")
}
