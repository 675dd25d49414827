package handlers

import (
	"errors"
	"net/http"
	"strings"

	"campusevents/internal/auth"
	"campusevents/internal/models"
)

type AuthHandler struct {
	templates   TemplateExecutor
	sessions    *auth.SessionManager
	userService *auth.UserService
	activity    *auth.ActivityTracker
}

func NewAuthHandler(templates TemplateExecutor, sessions *auth.SessionManager, userService *auth.UserService, activity *auth.ActivityTracker) *AuthHandler {
	return &AuthHandler{
		templates:   templates,
		sessions:    sessions,
		userService: userService,
		activity:    activity,
	}
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.GetUserID(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	render(h.templates, h.sessions, w, r, "register.html", map[string]interface{}{
		"Title": "Create Account",
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignupError(w, r, "Invalid form data", nil)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	fullName := strings.TrimSpace(r.FormValue("full_name"))

	form := map[string]string{"Username": username, "Email": email, "FullName": fullName}

	if username == "" || email == "" || password == "" || fullName == "" {
		h.renderSignupError(w, r, "All fields are required.", form)
		return
	}
	if len(password) < 6 {
		h.renderSignupError(w, r, "Password must be at least 6 characters long.", form)
		return
	}

	_, err := h.userService.Create(r.Context(), username, email, password, fullName, models.RoleStudent)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			h.renderSignupError(w, r, "Username already exists. Please choose another.", form)
		case errors.Is(err, auth.ErrEmailTaken):
			h.renderSignupError(w, r, "Email already registered. Please use another email.", form)
		default:
			h.renderSignupError(w, r, "Registration failed. Please try again.", form)
		}
		return
	}

	h.sessions.Flash(w, r, "success", "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.GetUserID(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	render(h.templates, h.sessions, w, r, "login.html", map[string]interface{}{
		"Title": "Login",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.renderLoginError(w, r, "Please enter both username and password.")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), username, password)
	if err != nil {
		h.renderLoginError(w, r, "Invalid username or password.")
		return
	}

	// Best effort: a failed audit write yields handle 0 and login proceeds.
	activityID := h.activity.RecordLogin(r.Context(), user.ID, getClientIP(r), r.UserAgent())

	if err := h.sessions.SetUser(w, r, user, activityID); err != nil {
		h.renderLoginError(w, r, "Failed to create session")
		return
	}

	h.sessions.Flash(w, r, "success", "Welcome back, "+user.FullName+"!")

	if user.IsAdmin() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.activity.RecordLogout(r.Context(), h.sessions.GetActivityID(r))

	h.sessions.Clear(w, r)
	h.sessions.Flash(w, r, "success", "You have been logged out successfully.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, message string) {
	render(h.templates, h.sessions, w, r, "login.html", map[string]interface{}{
		"Title": "Login",
		"Error": message,
	})
}

func (h *AuthHandler) renderSignupError(w http.ResponseWriter, r *http.Request, message string, form map[string]string) {
	render(h.templates, h.sessions, w, r, "register.html", map[string]interface{}{
		"Title": "Create Account",
		"Error": message,
		"Form":  form,
	})
}
