package handlers

import (
	"log"
	"net/http"

	"campusevents/internal/auth"
	"campusevents/internal/services"
)

type HomeHandler struct {
	templates     TemplateExecutor
	sessions      *auth.SessionManager
	userService   *auth.UserService
	events        *services.EventService
	registrations *services.RegistrationService
}

func NewHomeHandler(templates TemplateExecutor, sessions *auth.SessionManager, userService *auth.UserService, events *services.EventService, registrations *services.RegistrationService) *HomeHandler {
	return &HomeHandler{
		templates:     templates,
		sessions:      sessions,
		userService:   userService,
		events:        events,
		registrations: registrations,
	}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	upcoming, err := h.events.Upcoming(ctx, 6)
	if err != nil {
		log.Printf("Failed to load upcoming events: %v", err)
		renderServerError(h.templates, h.sessions, w, r)
		return
	}

	totalEvents, err := h.events.CountActive(ctx)
	if err != nil {
		log.Printf("Failed to count events: %v", err)
	}
	totalStudents, err := h.userService.CountStudents(ctx)
	if err != nil {
		log.Printf("Failed to count students: %v", err)
	}
	totalRegistrations, err := h.registrations.Count(ctx)
	if err != nil {
		log.Printf("Failed to count registrations: %v", err)
	}

	render(h.templates, h.sessions, w, r, "index.html", map[string]interface{}{
		"Title":              "Campus Events",
		"Events":             upcoming,
		"TotalEvents":        totalEvents,
		"TotalUsers":         totalStudents,
		"TotalRegistrations": totalRegistrations,
	})
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	render(h.templates, h.sessions, w, r, "404.html", map[string]interface{}{
		"Title": "Page Not Found",
	})
}
