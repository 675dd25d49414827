package models

import "time"

// LoginActivity is one audit row per authenticated session. It is created at
// login and updated once at logout; rows are never deleted.
type LoginActivity struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	LoginTime       time.Time  `json:"login_time"`
	LogoutTime      *time.Time `json:"logout_time,omitempty"`
	IPAddress       string     `json:"ip_address"`
	UserAgent       string     `json:"user_agent"`
	SessionDuration *int64     `json:"session_duration,omitempty"`
}

// LoginRecord is a LoginActivity joined with its user and a parsed
// user-agent, for the admin activity views.
type LoginRecord struct {
	LoginActivity
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Browser  string `json:"browser"`
	OS       string `json:"os"`
	Device   string `json:"device"`
}
