package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ayohana/to-do-list/internal/auth"
	"github.com/ayohana/to-do-list/internal/config"
	"github.com/ayohana/to-do-list/internal/handlers"
	"github.com/ayohana/to-do-list/internal/logging"
	"github.com/ayohana/to-do-list/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	if err := bootstrapAdmin(db); err != nil {
		slog.Error("failed to bootstrap admin user", "error", err)
		os.Exit(1)
	}

	sessionDuration := time.Duration(cfg.SessionDays) * 24 * time.Hour
	h := handlers.NewHandlers(db, cfg.TemplateDir, cfg.SecureCookie, sessionDuration, cfg.MinPasswordLength)

	mux := setupRouter(h, cfg.StaticDir)

	slog.Info("server starting", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, loggingMiddleware(mux)); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// setupRouter wires all routes. Everything under /items requires an
// authenticated session; the category listing and account pages do not.
func setupRouter(h *handlers.Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /categories", h.ListCategories)

	requireAuth := func(fn http.HandlerFunc) http.Handler {
		return h.AuthMiddleware(fn)
	}
	mux.Handle("GET /items", requireAuth(h.ListItems))
	mux.Handle("GET /items/details/{id}", requireAuth(h.ItemDetails))
	mux.Handle("GET /items/create", requireAuth(h.CreateItemForm))
	mux.Handle("POST /items/create", requireAuth(h.CreateItem))
	mux.Handle("GET /items/edit/{id}", requireAuth(h.EditItemForm))
	mux.Handle("POST /items/edit/{id}", requireAuth(h.EditItem))
	mux.Handle("GET /items/addcategory/{id}", requireAuth(h.AddCategoryForm))
	mux.Handle("POST /items/addcategory/{id}", requireAuth(h.AddCategory))
	mux.Handle("GET /items/delete/{id}", requireAuth(h.DeleteItemForm))
	mux.Handle("POST /items/delete/{id}", requireAuth(h.DeleteItem))
	mux.Handle("POST /items/deletecategory", requireAuth(h.DeleteCategory))

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/items", http.StatusFound)
	})

	return mux
}

// bootstrapAdmin creates an initial user from ADMIN_USER/ADMIN_PASSWORD
// env vars if that user does not exist yet. Useful for first deploys and
// for the e2e harness.
func bootstrapAdmin(db *storage.DB) error {
	username := os.Getenv("ADMIN_USER")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	_, err := db.GetUserByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := db.CreateUser(username, hash); err != nil {
		return err
	}
	slog.Info("bootstrapped admin user", "username", username)
	return nil
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs all incoming requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
