package models

import "time"

const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusCancelled  = "cancelled"
)

type Registration struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	EventID      int64     `json:"event_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status"`
}

// RegisteredEvent joins a registration with its event for dashboard views.
type RegisteredEvent struct {
	Registration Registration `json:"registration"`
	Event        Event        `json:"event"`
}
