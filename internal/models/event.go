package models

import "time"

const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"

	DefaultCategory = "general"
)

// Event dates and start times are kept as "2006-01-02" and "15:04" strings
// so SQLite can compare them lexically.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"event_date"`
	StartTime   string    `json:"event_time"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity"`
	Category    string    `json:"category"`
	CreatedBy   int64     `json:"created_by"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Event) IsUpcoming(today string) bool {
	return e.Date >= today
}

// CategoryCount is one slice of the per-category event breakdown on the
// admin dashboard.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
