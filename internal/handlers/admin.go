package handlers

import (
	"log"
	"net/http"
	"time"

	"campusevents/internal/auth"
	"campusevents/internal/services"
)

type AdminHandler struct {
	templates     TemplateExecutor
	sessions      *auth.SessionManager
	userService   *auth.UserService
	activity      *auth.ActivityTracker
	events        *services.EventService
	registrations *services.RegistrationService
}

func NewAdminHandler(templates TemplateExecutor, sessions *auth.SessionManager, userService *auth.UserService, activity *auth.ActivityTracker, events *services.EventService, registrations *services.RegistrationService) *AdminHandler {
	return &AdminHandler{
		templates:     templates,
		sessions:      sessions,
		userService:   userService,
		activity:      activity,
		events:        events,
		registrations: registrations,
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalEvents, err := h.events.Count(ctx)
	if err != nil {
		log.Printf("Failed to count events: %v", err)
		renderServerError(h.templates, h.sessions, w, r)
		return
	}
	activeEvents, err := h.events.CountActive(ctx)
	if err != nil {
		log.Printf("Failed to count active events: %v", err)
	}
	totalUsers, err := h.userService.Count(ctx)
	if err != nil {
		log.Printf("Failed to count users: %v", err)
	}
	studentUsers, err := h.userService.CountStudents(ctx)
	if err != nil {
		log.Printf("Failed to count students: %v", err)
	}
	totalRegistrations, err := h.registrations.Count(ctx)
	if err != nil {
		log.Printf("Failed to count registrations: %v", err)
	}

	recentLogins, err := h.activity.Recent(ctx, 10)
	if err != nil {
		log.Printf("Failed to load recent logins: %v", err)
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	activeToday, err := h.activity.CountSince(ctx, startOfDay)
	if err != nil {
		log.Printf("Failed to count today's logins: %v", err)
	}

	recentEvents, err := h.events.Recent(ctx, 5)
	if err != nil {
		log.Printf("Failed to load recent events: %v", err)
	}

	categories, err := h.events.CountByCategory(ctx)
	if err != nil {
		log.Printf("Failed to load category counts: %v", err)
	}

	render(h.templates, h.sessions, w, r, "admin.html", map[string]interface{}{
		"Title":              "Admin Dashboard",
		"TotalEvents":        totalEvents,
		"ActiveEvents":       activeEvents,
		"TotalUsers":         totalUsers,
		"StudentUsers":       studentUsers,
		"TotalRegistrations": totalRegistrations,
		"RecentLogins":       recentLogins,
		"ActiveToday":        activeToday,
		"RecentEvents":       recentEvents,
		"EventCategories":    categories,
	})
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userService.List(ctx)
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		renderServerError(h.templates, h.sessions, w, r)
		return
	}

	activities, err := h.activity.Recent(ctx, 50)
	if err != nil {
		log.Printf("Failed to load login activities: %v", err)
	}

	render(h.templates, h.sessions, w, r, "admin_users.html", map[string]interface{}{
		"Title":           "User Management",
		"Users":           users,
		"LoginActivities": activities,
	})
}
