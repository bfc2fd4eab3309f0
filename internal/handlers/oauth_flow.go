package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"cocktailclash/internal/security"
	"cocktailclash/internal/service"
)

// OAuthProvider defines provider configuration and metadata
type OAuthProvider struct {
	Name        string
	Label       string
	Config      *oauth2.Config
	UserInfoURL string
}

// Enabled reports whether the provider has credentials configured
func (p OAuthProvider) Enabled() bool {
	return p.Config != nil && p.Config.ClientID != "" && p.Config.ClientSecret != ""
}

type oauthUserInfo struct {
	Subject string
	Email   string
	Name    string
}

// OAuthHandler runs the sign-in-with-Google flow
type OAuthHandler struct {
	authService     *service.AuthService
	templates       *template.Template
	provider        OAuthProvider
	redirectBaseURL string
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(authService *service.AuthService, templates *template.Template, provider OAuthProvider, redirectBaseURL string) *OAuthHandler {
	return &OAuthHandler{
		authService:     authService,
		templates:       templates,
		provider:        provider,
		redirectBaseURL: redirectBaseURL,
	}
}

// Start initiates the OAuth flow
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	if !h.provider.Enabled() {
		h.loginError(w, "OAuth provider not configured")
		return
	}

	state := security.GenerateSessionID()
	h.setTempCookie(w, r, "oauth_state", state, 10*time.Minute)

	config := *h.provider.Config
	config.RedirectURL = h.redirectURL(r)

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles the OAuth provider callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.provider.Enabled() {
		h.loginError(w, "OAuth provider not configured")
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		h.loginError(w, "Missing authorization code")
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		h.loginError(w, "Invalid OAuth state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.provider.Config
	config.RedirectURL = h.redirectURL(r)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		h.loginError(w, "Failed to exchange OAuth code")
		return
	}

	userInfo, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.loginError(w, err.Error())
		return
	}

	h.clearTempCookie(w, r, "oauth_state")

	session, _, err := h.authService.OAuthLogin(h.provider.Name, userInfo.Subject, userInfo.Email, userInfo.Name)
	if err != nil {
		h.loginError(w, err.Error())
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *OAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (oauthUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(h.provider.UserInfoURL)
	if err != nil {
		return oauthUserInfo{}, fmt.Errorf("failed to fetch %s user info", h.provider.Label)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return oauthUserInfo{}, fmt.Errorf("failed to fetch %s user info", h.provider.Label)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return oauthUserInfo{}, fmt.Errorf("failed to parse %s user info", h.provider.Label)
	}

	return oauthUserInfo{Subject: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}

func (h *OAuthHandler) redirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.redirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return fmt.Sprintf("%s/auth/%s/callback", strings.TrimRight(baseURL, "/"), h.provider.Name)
}

func (h *OAuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *OAuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (h *OAuthHandler) loginError(w http.ResponseWriter, message string) {
	data := map[string]interface{}{
		"Title": "Login - CocktailClash",
		"Error": message,
	}
	if err := h.templates.ExecuteTemplate(w, "login.tmpl", data); err != nil {
		log.Printf("Error rendering login template: %v", err)
		http.Error(w, message, http.StatusBadRequest)
	}
}
