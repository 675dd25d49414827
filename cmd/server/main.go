package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"campusevents/internal/auth"
	"campusevents/internal/config"
	"campusevents/internal/database"
	"campusevents/internal/handlers"
	"campusevents/internal/middleware"
	"campusevents/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// TemplateRegistry holds separate template instances for each page
type TemplateRegistry struct {
	templates map[string]*template.Template
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]*template.Template)}
}

func (tr *TemplateRegistry) Add(name string, tmpl *template.Template) {
	tr.templates[name] = tmpl
}

func (tr *TemplateRegistry) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	tmpl, ok := tr.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

func main() {
	seed := flag.Bool("seed", false, "seed sample events into an empty database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	webDir := getWebDir()
	log.Printf("Using web directory: %s", webDir)

	db, err := database.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	userService := auth.NewUserService(db)
	sessionManager := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionMaxAge)
	activityTracker := auth.NewActivityTracker(db)
	eventService := services.NewEventService(db)
	registrationService := services.NewRegistrationService(db)

	ctx := context.Background()

	admin, err := userService.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail)
	if err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}

	if *seed {
		n, err := eventService.SeedSampleEvents(ctx, admin.ID)
		if err != nil {
			log.Printf("Warning: Failed to seed sample events: %v", err)
		} else if n > 0 {
			log.Printf("Seeded %d sample events", n)
		}
	}

	templates, err := loadTemplates(filepath.Join(webDir, "templates"))
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	homeHandler := handlers.NewHomeHandler(templates, sessionManager, userService, eventService, registrationService)
	authHandler := handlers.NewAuthHandler(templates, sessionManager, userService, activityTracker)
	dashboardHandler := handlers.NewDashboardHandler(templates, sessionManager, registrationService)
	eventsHandler := handlers.NewEventsHandler(templates, sessionManager, eventService, registrationService)
	adminHandler := handlers.NewAdminHandler(templates, sessionManager, userService, activityTracker, eventService, registrationService)

	authMiddleware := middleware.NewAuthMiddleware(sessionManager, userService)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)

	staticDir := filepath.Join(webDir, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.LoadUser)

		r.Get("/", homeHandler.Index)
		r.Get("/register", authHandler.SignupPage)
		r.Post("/register", authHandler.Signup)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)

		r.Get("/events", eventsHandler.List)
		r.Get("/events/{id}", eventsHandler.Detail)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Get("/dashboard", dashboardHandler.Dashboard)
		r.Post("/events/{id}/register", eventsHandler.Register)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)

			r.Get("/admin", adminHandler.Dashboard)
			r.Get("/admin/users", adminHandler.Users)
			r.Get("/events/new", eventsHandler.CreatePage)
			r.Post("/events/new", eventsHandler.Create)
		})
	})

	r.NotFound(homeHandler.NotFound)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting Campus Events on %s", addr)
	log.Printf("Admin login: %s", cfg.AdminUsername)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getWebDir() string {
	if dir := os.Getenv("EVENTS_WEB_DIR"); dir != "" {
		return dir
	}

	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)

		candidate := filepath.Join(exeDir, "..", "web")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		candidate = filepath.Join(exeDir, "..", "..", "web")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, "web")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "./web"
}

// loadTemplates builds one template set per page, each parsed together with
// the shared layout so pages can fill the layout's blocks.
func loadTemplates(templatesDir string) (*TemplateRegistry, error) {
	funcMap := template.FuncMap{
		"prettyDate": prettyDate,
	}

	registry := NewTemplateRegistry()

	layoutFiles, err := filepath.Glob(filepath.Join(templatesDir, "layouts", "*.html"))
	if err != nil {
		return nil, err
	}

	pageFiles, err := filepath.Glob(filepath.Join(templatesDir, "pages", "*.html"))
	if err != nil {
		return nil, err
	}

	for _, pageFile := range pageFiles {
		pageName := filepath.Base(pageFile)

		tmpl := template.New(pageName).Funcs(funcMap)

		for _, layoutFile := range layoutFiles {
			content, err := os.ReadFile(layoutFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", layoutFile, err)
			}
			if _, err := tmpl.Parse(string(content)); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", layoutFile, err)
			}
		}

		content, err := os.ReadFile(pageFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", pageFile, err)
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", pageFile, err)
		}

		registry.Add(pageName, tmpl)
	}

	return registry, nil
}

// prettyDate turns "2025-01-15" into "Jan 15, 2025" for display; unparseable
// input renders as-is.
func prettyDate(date string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}
