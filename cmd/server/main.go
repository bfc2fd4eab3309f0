package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cocktailclash/internal/catalog"
	"cocktailclash/internal/config"
	"cocktailclash/internal/database"
	"cocktailclash/internal/handlers"
	"cocktailclash/internal/redisboard"
	"cocktailclash/internal/repository"
	"cocktailclash/internal/security"
	"cocktailclash/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)

	// Optional Redis scoreboard cache; SQL remains the source of truth
	var board *redisboard.Leaderboard
	if cfg.RedisAddr != "" {
		board, err = redisboard.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: Redis scoreboard cache unavailable: %v", err)
			board = nil
		} else {
			log.Printf("Redis scoreboard cache connected (%s)", cfg.RedisAddr)
		}
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	scoreService := service.NewScoreService(userRepo, board)
	cocktailCatalog := catalog.NewClient(cfg.CocktailAPIBaseURL, cfg.CocktailAPITimeout)
	gameService := service.NewGameService(gameRepo, cocktailCatalog, scoreService)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if !emailService.IsEnabled() {
		log.Println("Password reset emails disabled (SES_FROM_EMAIL not set)")
	}

	googleProvider := handlers.OAuthProvider{
		Name:  "google",
		Label: "Google",
		Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}

	// Initialize handlers
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	middleware := handlers.NewMiddleware(authService, loginLimiter, csrf)
	authHandler := handlers.NewAuthHandler(authService, emailService, templates)
	oauthHandler := handlers.NewOAuthHandler(authService, templates, googleProvider, cfg.OAuthRedirectBaseURL)
	gameHandler := handlers.NewGameHandler(gameService, middleware, templates)
	scoreboardHandler := handlers.NewScoreboardHandler(scoreService, templates)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Public routes
	mux.HandleFunc("GET /{$}", middleware.OptionalAuth(authHandler.Home))
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /forgot-password", authHandler.ShowForgotPassword)
	mux.HandleFunc("POST /forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("GET /reset-password", authHandler.ShowResetPassword)
	mux.HandleFunc("POST /reset-password", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /auth/google/start", oauthHandler.Start)
	mux.HandleFunc("GET /auth/google/callback", oauthHandler.Callback)

	// Game routes; playable anonymously, wins count for logged-in players
	mux.HandleFunc("GET /cocktail", middleware.OptionalAuth(middleware.WithPlayerKey(gameHandler.ShowCocktail)))
	mux.HandleFunc("POST /cocktail", middleware.OptionalAuth(middleware.WithPlayerKey(middleware.CSRFProtect(gameHandler.GuessCocktail))))
	mux.HandleFunc("POST /cocktail/reset", middleware.OptionalAuth(middleware.WithPlayerKey(middleware.CSRFProtect(gameHandler.ResetCocktail))))
	mux.HandleFunc("GET /ingredient", middleware.OptionalAuth(middleware.WithPlayerKey(gameHandler.ShowIngredient)))
	mux.HandleFunc("POST /ingredient", middleware.OptionalAuth(middleware.WithPlayerKey(middleware.CSRFProtect(gameHandler.GuessIngredient))))
	mux.HandleFunc("POST /ingredient/reset", middleware.OptionalAuth(middleware.WithPlayerKey(middleware.CSRFProtect(gameHandler.ResetIngredient))))

	// The name quiz requires an account
	mux.HandleFunc("GET /nonalcoholic", middleware.RequireAuth(middleware.WithPlayerKey(gameHandler.ShowNameQuiz)))
	mux.HandleFunc("POST /nonalcoholic", middleware.RequireAuth(middleware.WithPlayerKey(middleware.CSRFProtect(gameHandler.AnswerNameQuiz))))
	mux.HandleFunc("POST /nonalcoholic/new", middleware.RequireAuth(middleware.WithPlayerKey(middleware.CSRFProtect(gameHandler.NewNameQuiz))))

	// Scoreboard and dashboard
	mux.HandleFunc("GET /scoreboard", middleware.RequireAuth(scoreboardHandler.Show))
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(authHandler.Dashboard))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	patterns := []string{
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "game/*.tmpl"),
		filepath.Join(templatesPath, "scoreboard/*.tmpl"),
	}

	files := []string{
		filepath.Join(templatesPath, "base.tmpl"),
		filepath.Join(templatesPath, "home.tmpl"),
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	tmpl, err := template.New("").ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// cleanupExpiredSessions periodically removes expired sessions and used or
// stale password reset tokens
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
