package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"campusevents/internal/auth"
	"campusevents/internal/middleware"
)

// TemplateExecutor is an interface for template execution
// This allows both *template.Template and custom template registries to be used
type TemplateExecutor interface {
	ExecuteTemplate(wr io.Writer, name string, data interface{}) error
}

// render executes a page template with the session user and any pending
// flash messages merged into the data map.
func render(t TemplateExecutor, sessions *auth.SessionManager, w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = middleware.GetUser(r)
	}
	data["Flashes"] = sessions.Flashes(w, r)

	if err := t.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderServerError is the styled 500 page handlers fall back to when a
// query fails. The plain http.Error stays only as render's own last resort.
func renderServerError(t TemplateExecutor, sessions *auth.SessionManager, w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusInternalServerError)
	render(t, sessions, w, r, "500.html", map[string]interface{}{
		"Title": "Server Error",
	})
}

func getClientIP(r *http.Request) string {
	// Behind a proxy X-Forwarded-For lists every hop; the client is the first.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
