package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"campusevents/internal/auth"
	"campusevents/internal/middleware"
	"campusevents/internal/services"

	"github.com/go-chi/chi/v5"
)

type EventsHandler struct {
	templates     TemplateExecutor
	sessions      *auth.SessionManager
	events        *services.EventService
	registrations *services.RegistrationService
}

func NewEventsHandler(templates TemplateExecutor, sessions *auth.SessionManager, events *services.EventService, registrations *services.RegistrationService) *EventsHandler {
	return &EventsHandler{
		templates:     templates,
		sessions:      sessions,
		events:        events,
		registrations: registrations,
	}
}

// List renders the event catalog, filtered by the search, category and date
// query parameters when present.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.SearchFilter{
		Title:    r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Date:     r.URL.Query().Get("date"),
	}

	events, err := h.events.Search(r.Context(), filter)
	if err != nil {
		log.Printf("Failed to search events: %v", err)
		renderServerError(h.templates, h.sessions, w, r)
		return
	}

	categories, err := h.events.Categories(r.Context())
	if err != nil {
		log.Printf("Failed to load categories: %v", err)
	}

	render(h.templates, h.sessions, w, r, "events.html", map[string]interface{}{
		"Title":      "Events",
		"Events":     events,
		"Search":     filter.Title,
		"Category":   filter.Category,
		"DateFilter": filter.Date,
		"Categories": categories,
	})
}

func (h *EventsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	event, err := h.events.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("Failed to load event: %v", err)
		renderServerError(h.templates, h.sessions, w, r)
		return
	}

	count, err := h.registrations.CountForEvent(r.Context(), eventID)
	if err != nil {
		log.Printf("Failed to count registrations: %v", err)
	}

	isRegistered := false
	if userID, ok := h.sessions.GetUserID(r); ok {
		isRegistered, err = h.registrations.IsRegistered(r.Context(), userID, eventID)
		if err != nil {
			log.Printf("Failed to check registration: %v", err)
		}
	}

	render(h.templates, h.sessions, w, r, "event_detail.html", map[string]interface{}{
		"Title":             event.Title,
		"Event":             event,
		"IsRegistered":      isRegistered,
		"RegistrationCount": count,
		"SeatsLeft":         event.Capacity - count,
	})
}

// Register enrolls the session user; conflicts come back as flashes on the
// event page rather than error pages.
func (h *EventsHandler) Register(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	_, err = h.registrations.Register(r.Context(), user.ID, eventID)
	switch {
	case err == nil:
		h.sessions.Flash(w, r, "success", "Successfully registered for the event!")
	case errors.Is(err, services.ErrEventNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, services.ErrAlreadyRegistered):
		h.sessions.Flash(w, r, "warning", "You are already registered for this event.")
	case errors.Is(err, services.ErrEventFull):
		h.sessions.Flash(w, r, "error", "Event is full. Registration closed.")
	default:
		log.Printf("Registration error: %v", err)
		h.sessions.Flash(w, r, "error", "Registration failed. Please try again.")
	}

	http.Redirect(w, r, "/events/"+strconv.FormatInt(eventID, 10), http.StatusSeeOther)
}

func (h *EventsHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	render(h.templates, h.sessions, w, r, "create_event.html", map[string]interface{}{
		"Title": "Create Event",
	})
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if err := r.ParseForm(); err != nil {
		h.renderCreateError(w, r, "Invalid form data", nil)
		return
	}

	capacityStr := r.FormValue("capacity")
	in := services.CreateEventInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Date:        r.FormValue("event_date"),
		StartTime:   r.FormValue("event_time"),
		Venue:       strings.TrimSpace(r.FormValue("venue")),
		Category:    r.FormValue("category"),
		CreatedBy:   user.ID,
	}

	form := map[string]string{
		"Title": in.Title, "Description": in.Description, "Date": in.Date,
		"StartTime": in.StartTime, "Venue": in.Venue, "Capacity": capacityStr,
		"Category": in.Category,
	}

	if in.Title == "" || in.Date == "" || in.StartTime == "" || in.Venue == "" || capacityStr == "" {
		h.renderCreateError(w, r, "All fields are required.", form)
		return
	}

	capacity, err := strconv.Atoi(capacityStr)
	if err != nil {
		h.renderCreateError(w, r, "Invalid capacity value.", form)
		return
	}
	if capacity <= 0 {
		h.renderCreateError(w, r, "Capacity must be a positive number.", form)
		return
	}
	in.Capacity = capacity

	if _, err := h.events.Create(r.Context(), in); err != nil {
		if errors.Is(err, services.ErrInvalidEvent) {
			h.renderCreateError(w, r, "Failed to create event. Please check your inputs.", form)
			return
		}
		log.Printf("Event creation error: %v", err)
		h.renderCreateError(w, r, "Failed to create event. Please try again.", form)
		return
	}

	h.sessions.Flash(w, r, "success", "Event created successfully!")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *EventsHandler) renderCreateError(w http.ResponseWriter, r *http.Request, message string, form map[string]string) {
	render(h.templates, h.sessions, w, r, "create_event.html", map[string]interface{}{
		"Title": "Create Event",
		"Error": message,
		"Form":  form,
	})
}
