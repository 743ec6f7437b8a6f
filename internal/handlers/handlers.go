package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayohana/to-do-list/internal/auth"
	"github.com/ayohana/to-do-list/internal/models"
	"github.com/ayohana/to-do-list/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db              *storage.DB
	templateDir     string
	secureCookie    bool
	sessionDuration time.Duration
	minPasswordLen  int
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, templateDir string, secureCookie bool, sessionDuration time.Duration, minPasswordLen int) *Handlers {
	return &Handlers{
		db:              db,
		templateDir:     templateDir,
		secureCookie:    secureCookie,
		sessionDuration: sessionDuration,
		minPasswordLen:  minPasswordLen,
	}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		sessionInfo, err := h.db.ValidateSessionWithInfo(cookie.Value)
		if err != nil {
			// Invalid or expired session, clear the cookie
			h.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		// Rolling session: renew if past the halfway point. Keeps active
		// users logged in while still expiring inactive sessions.
		now := time.Now()
		if sessionInfo.ExpiresAt.Sub(now) < h.sessionDuration/2 {
			newExpiresAt := now.Add(h.sessionDuration)
			if err := h.db.RenewSession(cookie.Value, newExpiresAt); err == nil {
				h.setSessionCookie(w, cookie.Value)
			}
			// If renewal fails, just continue with the current session
		}

		ctx := context.WithValue(r.Context(), UserContextKey, sessionInfo.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoginViewModel holds data for the login page.
type LoginViewModel struct {
	Error string
}

// RegisterViewModel holds data for the registration page.
type RegisterViewModel struct {
	Error string
	Email string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	// If already logged in, go straight to the item list
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.db.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/items", http.StatusFound)
			return
		}
	}
	h.render(w, "login.html", LoginViewModel{})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "login.html", LoginViewModel{Error: "Invalid form submission"})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		h.render(w, "login.html", LoginViewModel{Error: "Email and password are required"})
		return
	}

	user, err := h.db.GetUserByUsername(email)
	if err != nil || !auth.CheckPassword(password, user.PasswordHash) {
		// Same message for unknown email and wrong password.
		h.render(w, "login.html", LoginViewModel{Error: "Invalid email or password"})
		return
	}

	if err := h.startSession(w, user); err != nil {
		slog.Error("failed to start session", "error", err)
		h.render(w, "login.html", LoginViewModel{Error: "An error occurred. Please try again."})
		return
	}

	http.Redirect(w, r, "/items", http.StatusFound)
}

// RegisterForm renders the registration page.
func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.db.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/items", http.StatusFound)
			return
		}
	}
	h.render(w, "register.html", RegisterViewModel{})
}

// Register handles the registration form submission. The email becomes the
// username; a session is started immediately on success.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "register.html", RegisterViewModel{Error: "Invalid form submission"})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if email == "" {
		h.render(w, "register.html", RegisterViewModel{Error: "Email is required"})
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		h.render(w, "register.html", RegisterViewModel{Error: "Please enter a valid email address", Email: email})
		return
	}
	if err := auth.ValidatePassword(password, h.minPasswordLen); err != nil {
		h.render(w, "register.html", RegisterViewModel{Error: err.Error(), Email: email})
		return
	}
	if password != confirm {
		h.render(w, "register.html", RegisterViewModel{Error: "The password and confirmation password do not match", Email: email})
		return
	}

	if _, err := h.db.GetUserByUsername(email); err == nil {
		h.render(w, "register.html", RegisterViewModel{Error: "That email is already registered", Email: email})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		h.render(w, "register.html", RegisterViewModel{Error: "An error occurred. Please try again.", Email: email})
		return
	}

	user, err := h.db.CreateUser(email, hash)
	if err != nil {
		slog.Error("failed to create user", "error", err)
		h.render(w, "register.html", RegisterViewModel{Error: "An error occurred. Please try again.", Email: email})
		return
	}

	if err := h.startSession(w, user); err != nil {
		slog.Error("failed to start session", "error", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	http.Redirect(w, r, "/items", http.StatusFound)
}

// Logout handles user logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.db.DeleteSession(cookie.Value); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// startSession creates a session row and sets the session cookie.
func (h *Handlers) startSession(w http.ResponseWriter, user *models.User) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(h.sessionDuration)
	if err := h.db.CreateSession(token, user.ID, expiresAt); err != nil {
		return err
	}

	h.setSessionCookie(w, token)
	return nil
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) render(w http.ResponseWriter, viewName string, data any) {
	h.renderStatus(w, http.StatusOK, viewName, data)
}

func (h *Handlers) renderStatus(w http.ResponseWriter, status int, viewName string, data any) {
	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, "base.html"), filepath.Join(h.templateDir, viewName))
	if err != nil {
		slog.Error("template error", "view", viewName, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		slog.Error("template execution error", "view", viewName, "error", err)
	}
}

// notFound renders the not-found page. Missing records and foreign-owned
// records look identical to the client.
func (h *Handlers) notFound(w http.ResponseWriter) {
	h.renderStatus(w, http.StatusNotFound, "notfound.html", nil)
}

// serverError logs err and responds with a generic 500.
func serverError(w http.ResponseWriter, what string, err error) {
	slog.Error(what, "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// isNotFound reports whether err is the storage not-found sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
