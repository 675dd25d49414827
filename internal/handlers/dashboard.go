package handlers

import (
	"log"
	"net/http"
	"time"

	"campusevents/internal/auth"
	"campusevents/internal/middleware"
	"campusevents/internal/models"
	"campusevents/internal/services"
)

type DashboardHandler struct {
	templates     TemplateExecutor
	sessions      *auth.SessionManager
	registrations *services.RegistrationService
}

func NewDashboardHandler(templates TemplateExecutor, sessions *auth.SessionManager, registrations *services.RegistrationService) *DashboardHandler {
	return &DashboardHandler{
		templates:     templates,
		sessions:      sessions,
		registrations: registrations,
	}
}

// Dashboard shows the student's registrations split into upcoming and past,
// plus events still open to them.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	ctx := r.Context()

	registered, err := h.registrations.ListForUser(ctx, user.ID)
	if err != nil {
		log.Printf("Failed to load registrations: %v", err)
		renderServerError(h.templates, h.sessions, w, r)
		return
	}

	today := time.Now().Format("2006-01-02")
	var upcoming, past []models.RegisteredEvent
	for _, re := range registered {
		if re.Event.IsUpcoming(today) {
			upcoming = append(upcoming, re)
		} else {
			past = append(past, re)
		}
	}

	available, err := h.registrations.AvailableForUser(ctx, user.ID, 8)
	if err != nil {
		log.Printf("Failed to load available events: %v", err)
		renderServerError(h.templates, h.sessions, w, r)
		return
	}

	render(h.templates, h.sessions, w, r, "dashboard.html", map[string]interface{}{
		"Title":           "Dashboard",
		"UpcomingEvents":  upcoming,
		"PastEvents":      past,
		"AvailableEvents": available,
		"UpcomingCount":   len(upcoming),
	})
}
