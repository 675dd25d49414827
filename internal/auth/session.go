package auth

import (
	"encoding/gob"
	"net/http"

	"campusevents/internal/models"

	"github.com/gorilla/sessions"
)

func init() {
	// Flash values ride in the cookie via gob.
	gob.Register(FlashMessage{})
}

const (
	SessionName = "campus-events-session"

	sessionUserID     = "user_id"
	sessionUsername   = "username"
	sessionRole       = "role"
	sessionFullName   = "full_name"
	sessionActivityID = "login_activity_id"
)

type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string, maxAge int) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

func (m *SessionManager) Get(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, SessionName)
}

// SetUser stores the authenticated identity plus the login-activity handle
// that Logout later closes out.
func (m *SessionManager) SetUser(w http.ResponseWriter, r *http.Request, user *models.User, activityID int64) error {
	session, err := m.Get(r)
	if err != nil {
		return err
	}

	session.Values[sessionUserID] = user.ID
	session.Values[sessionUsername] = user.Username
	session.Values[sessionRole] = user.Role
	session.Values[sessionFullName] = user.FullName
	session.Values[sessionActivityID] = activityID

	return session.Save(r, w)
}

func (m *SessionManager) GetUserID(r *http.Request) (int64, bool) {
	session, err := m.Get(r)
	if err != nil {
		return 0, false
	}

	userID, ok := session.Values[sessionUserID].(int64)
	return userID, ok
}

func (m *SessionManager) GetRole(r *http.Request) string {
	session, err := m.Get(r)
	if err != nil {
		return ""
	}

	role, _ := session.Values[sessionRole].(string)
	return role
}

// GetActivityID returns the login-activity handle recorded at login, or 0 if
// the session carries none.
func (m *SessionManager) GetActivityID(r *http.Request) int64 {
	session, err := m.Get(r)
	if err != nil {
		return 0
	}

	id, _ := session.Values[sessionActivityID].(int64)
	return id
}

// Clear drops the authenticated identity. The cookie itself stays so a
// flash queued right after logout still reaches the next page.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := m.Get(r)
	if err != nil {
		return err
	}

	session.Values = make(map[interface{}]interface{})

	return session.Save(r, w)
}

// Flash queues a one-shot message ("success", "error", "warning") shown on
// the next rendered page.
func (m *SessionManager) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	session, err := m.Get(r)
	if err != nil {
		return
	}
	session.AddFlash(FlashMessage{Type: kind, Message: message})
	session.Save(r, w)
}

func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []FlashMessage {
	session, err := m.Get(r)
	if err != nil {
		return nil
	}

	raw := session.Flashes()
	if len(raw) > 0 {
		session.Save(r, w)
	}

	messages := make([]FlashMessage, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(FlashMessage); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

type FlashMessage struct {
	Type    string
	Message string
}
