package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"cocktailclash/internal/security"
	"cocktailclash/internal/service"
	"cocktailclash/internal/validation"
)

// AuthHandler handles account-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	templates    *template.Template
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, templates *template.Template) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		templates:    templates,
	}
}

// Home renders the landing page with links into the game modes
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title": "CocktailClash",
		"User":  GetUserFromContext(r.Context()),
	}

	if err := h.templates.ExecuteTemplate(w, "home.tmpl", data); err != nil {
		log.Printf("Error rendering home template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	// Check if already logged in
	if cookie, err := r.Cookie("session_id"); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}

	data := map[string]interface{}{
		"Title": "Login - CocktailClash",
	}

	if err := h.templates.ExecuteTemplate(w, "login.tmpl", data); err != nil {
		log.Printf("Error rendering login template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	login := r.FormValue("login")
	password := r.FormValue("password")

	session, _, err := h.authService.Login(login, password)
	if err != nil {
		// Re-render login with error
		data := map[string]interface{}{
			"Title": "Login - CocktailClash",
			"Error": "Invalid username or password",
			"Login": login,
		}
		if err := h.templates.ExecuteTemplate(w, "login.tmpl", data); err != nil {
			log.Printf("Error rendering login template: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	// Check if already logged in
	if cookie, err := r.Cookie("session_id"); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}

	data := map[string]interface{}{
		"Title": "Register - CocktailClash",
	}

	if err := h.templates.ExecuteTemplate(w, "register.tmpl", data); err != nil {
		log.Printf("Error rendering register template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	_, err := h.authService.Register(username, email, password)
	if err != nil {
		message := "Registration failed, please try again"
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			message = "That username is already taken"
		case errors.Is(err, service.ErrEmailTaken):
			message = "An account with that email already exists"
		default:
			var validationErr validation.ValidationError
			if errors.As(err, &validationErr) {
				message = validationErr.Message
			}
		}

		// Re-render register with error
		data := map[string]interface{}{
			"Title":    "Register - CocktailClash",
			"Error":    message,
			"Username": username,
			"Email":    email,
		}
		if err := h.templates.ExecuteTemplate(w, "register.tmpl", data); err != nil {
			log.Printf("Error rendering register template: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	// Auto-login after registration
	session, _, err := h.authService.Login(username, password)
	if err != nil {
		// Registration succeeded but login failed - send them to the form
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session_id"); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Dashboard renders the logged-in player's dashboard
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := map[string]interface{}{
		"Title": "Dashboard - CocktailClash",
		"User":  user,
	}

	if err := h.templates.ExecuteTemplate(w, "dashboard.tmpl", data); err != nil {
		log.Printf("Error rendering dashboard template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ShowForgotPassword renders the password reset request page
func (h *AuthHandler) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title": "Forgot Password - CocktailClash",
	}

	if err := h.templates.ExecuteTemplate(w, "forgot_password.tmpl", data); err != nil {
		log.Printf("Error rendering forgot password template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ForgotPassword handles a password reset request. The response is the same
// whether or not the email matches an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, email); err != nil {
		log.Printf("Error requesting password reset: %v", err)
	}

	data := map[string]interface{}{
		"Title":   "Forgot Password - CocktailClash",
		"Message": "If an account exists for that email, a reset link is on its way",
	}
	if err := h.templates.ExecuteTemplate(w, "forgot_password.tmpl", data); err != nil {
		log.Printf("Error rendering forgot password template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ShowResetPassword renders the new-password form for a reset token
func (h *AuthHandler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, "/forgot-password", http.StatusSeeOther)
		return
	}

	data := map[string]interface{}{
		"Title": "Reset Password - CocktailClash",
		"Token": token,
	}

	if err := h.templates.ExecuteTemplate(w, "reset_password.tmpl", data); err != nil {
		log.Printf("Error rendering reset password template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ResetPassword handles the new-password form submission
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	token := r.FormValue("token")
	password := r.FormValue("password")

	if err := h.authService.ResetPassword(token, password); err != nil {
		data := map[string]interface{}{
			"Title": "Reset Password - CocktailClash",
			"Token": token,
			"Error": err.Error(),
		}
		if err := h.templates.ExecuteTemplate(w, "reset_password.tmpl", data); err != nil {
			log.Printf("Error rendering reset password template: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
