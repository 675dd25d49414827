package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"
	"unicode/utf8"

	"campusevents/internal/database"
	"campusevents/internal/models"

	ua "github.com/mileusna/useragent"
)

// maxUserAgentLen caps stored User-Agent strings.
const maxUserAgentLen = 200

// ActivityTracker maintains the per-session login audit trail. It is a
// best-effort side channel: persistence failures are logged and swallowed so
// they can never block a login or logout.
type ActivityTracker struct {
	db *database.DB
}

func NewActivityTracker(db *database.DB) *ActivityTracker {
	return &ActivityTracker{db: db}
}

// RecordLogin creates an audit row for a successful authentication and
// refreshes the user's last-login timestamp. The returned id is the handle
// the session must keep so RecordLogout can close the row; 0 means the row
// could not be written.
func (t *ActivityTracker) RecordLogin(ctx context.Context, userID int64, clientIP, userAgent string) int64 {
	userAgent = truncateUserAgent(userAgent)

	result, err := t.db.ExecContext(ctx,
		"INSERT INTO login_activities (user_id, ip_address, user_agent) VALUES (?, ?, ?)",
		userID, clientIP, userAgent,
	)
	if err != nil {
		log.Printf("Login tracking error: %v", err)
		return 0
	}

	if _, err := t.db.ExecContext(ctx,
		"UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?", userID,
	); err != nil {
		log.Printf("Login tracking error: failed to update last login: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		log.Printf("Login tracking error: %v", err)
		return 0
	}
	return id
}

// RecordLogout stamps the logout time on the activity row and stores the
// session duration in whole minutes, truncated toward zero. A zero handle or
// a missing row is a no-op.
func (t *ActivityTracker) RecordLogout(ctx context.Context, activityID int64) {
	if activityID == 0 {
		return
	}

	var loginTime time.Time
	err := t.db.QueryRowContext(ctx,
		"SELECT login_time FROM login_activities WHERE id = ?", activityID,
	).Scan(&loginTime)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Logout tracking error: %v", err)
		}
		return
	}

	now := time.Now().UTC()
	if _, err := t.db.ExecContext(ctx,
		"UPDATE login_activities SET logout_time = ?, session_duration = ? WHERE id = ?",
		now, sessionMinutes(loginTime, now), activityID,
	); err != nil {
		log.Printf("Logout tracking error: %v", err)
	}
}

// sessionMinutes truncates toward zero, so a 90-second session counts as 1.
func sessionMinutes(login, logout time.Time) int64 {
	return int64(logout.Sub(login).Seconds()) / 60
}

// truncateUserAgent caps the stored string without splitting a multi-byte
// rune at the cut point.
func truncateUserAgent(userAgent string) string {
	if len(userAgent) <= maxUserAgentLen {
		return userAgent
	}
	cut := maxUserAgentLen
	for cut > 0 && !utf8.RuneStart(userAgent[cut]) {
		cut--
	}
	return userAgent[:cut]
}

// Recent returns the latest logins joined with their users, newest first.
func (t *ActivityTracker) Recent(ctx context.Context, limit int) ([]models.LoginRecord, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.login_time, a.logout_time, a.ip_address, a.user_agent,
		       a.session_duration, u.username, u.full_name
		FROM login_activities a
		JOIN users u ON a.user_id = u.id
		ORDER BY a.login_time DESC, a.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.LoginRecord
	for rows.Next() {
		var rec models.LoginRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.LoginTime, &rec.LogoutTime, &rec.IPAddress,
			&rec.UserAgent, &rec.SessionDuration, &rec.Username, &rec.FullName,
		); err != nil {
			return nil, err
		}
		rec.Browser, rec.OS, rec.Device = parseUserAgent(rec.UserAgent)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountSince counts logins recorded at or after t, e.g. since start of day.
func (t *ActivityTracker) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	// Bound as text so it compares cleanly against CURRENT_TIMESTAMP rows.
	err := t.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM login_activities WHERE login_time >= ?",
		since.UTC().Format("2006-01-02 15:04:05"),
	).Scan(&count)
	return count, err
}

func parseUserAgent(userAgent string) (browser, os, device string) {
	if userAgent == "" {
		return "Unknown Browser", "Unknown OS", "Desktop"
	}

	parsed := ua.Parse(userAgent)

	browser = parsed.Name
	if browser == "" {
		browser = "Unknown Browser"
	}

	os = parsed.OS
	if os == "" {
		os = "Unknown OS"
	}

	device = "Desktop"
	if parsed.Mobile {
		device = "Mobile"
	} else if parsed.Tablet {
		device = "Tablet"
	}

	return browser, os, device
}
