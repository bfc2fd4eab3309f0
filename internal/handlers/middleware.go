package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"cocktailclash/internal/models"
	"cocktailclash/internal/security"
	"cocktailclash/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey      ContextKey = "user"
	PlayerKeyContextKey ContextKey = "playerKey"
)

// gameCookieMaxAge keeps an anonymous player's key stable for a year
const gameCookieMaxAge = 365 * 24 * time.Hour

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	rateLimiter *security.RateLimiter
	csrf        *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, rateLimiter *security.RateLimiter, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService: authService,
		rateLimiter: rateLimiter,
		csrf:        csrf,
	}
}

// RequireAuth is middleware that requires a valid session
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session_id")
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		user, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			// Clear invalid cookie
			http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches the logged-in user to the context when a valid
// session cookie is present, and lets the request through either way.
// Game pages use this: anyone can play, only accounts score.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session_id")
		if err == nil {
			if user, err := m.authService.ValidateSession(cookie.Value); err == nil {
				ctx := context.WithValue(r.Context(), UserContextKey, user)
				r = r.WithContext(ctx)
			}
		}
		next(w, r)
	}
}

// WithPlayerKey resolves the key game state is stored under. Logged-in
// players are keyed by account so a game follows them across devices;
// anonymous players get a long-lived game_id cookie minted on first visit.
func (m *Middleware) WithPlayerKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var playerKey string
		if user := GetUserFromContext(r.Context()); user != nil {
			playerKey = fmt.Sprintf("user:%d", user.ID)
		} else {
			cookie, err := r.Cookie("game_id")
			if err != nil || cookie.Value == "" {
				gameID := security.GenerateSessionID()
				http.SetCookie(w, security.CreateSessionCookie(r, "game_id", gameID, time.Now().Add(gameCookieMaxAge)))
				playerKey = "anon:" + gameID
			} else {
				playerKey = "anon:" + cookie.Value
			}
		}

		ctx := context.WithValue(r.Context(), PlayerKeyContextKey, playerKey)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect validates the csrf_token form field against the player key.
// Must run inside WithPlayerKey so the key is already resolved.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerKey := GetPlayerKeyFromContext(r.Context())
		if playerKey == "" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		if !m.csrf.ValidateToken(playerKey, r.FormValue("csrf_token")) {
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// CSRFToken returns the CSRF token for the request's player key, for
// embedding in forms
func (m *Middleware) CSRFToken(r *http.Request) string {
	token, err := m.csrf.GenerateToken(GetPlayerKeyFromContext(r.Context()))
	if err != nil {
		return ""
	}
	return token
}

// RateLimit rejects requests over the limiter's budget with 429.
// Applied to credential endpoints only.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.rateLimiter != nil && !m.rateLimiter.Allow(security.GetClientIP(r)) {
			http.Error(w, "Too many requests, please try again later", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetPlayerKeyFromContext retrieves the game-state key from the request context
func GetPlayerKeyFromContext(ctx context.Context) string {
	key, ok := ctx.Value(PlayerKeyContextKey).(string)
	if !ok {
		return ""
	}
	return key
}
