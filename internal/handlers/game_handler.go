package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"cocktailclash/internal/models"
	"cocktailclash/internal/service"
)

// GameHandler handles the guessing-game HTTP requests
type GameHandler struct {
	gameService *service.GameService
	middleware  *Middleware
	templates   *template.Template
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, middleware *Middleware, templates *template.Template) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		middleware:  middleware,
		templates:   templates,
	}
}

// ShowCocktail renders the cocktail-mode game page
func (h *GameHandler) ShowCocktail(w http.ResponseWriter, r *http.Request) {
	h.showGame(w, r, models.ModeCocktail, "cocktail.tmpl", "Guess the Cocktail", "/cocktail")
}

// GuessCocktail handles a cocktail-mode guess submission
func (h *GameHandler) GuessCocktail(w http.ResponseWriter, r *http.Request) {
	h.submitGuess(w, r, models.ModeCocktail, "cocktail.tmpl", "Guess the Cocktail", "/cocktail")
}

// ResetCocktail discards the cocktail-mode game and starts over
func (h *GameHandler) ResetCocktail(w http.ResponseWriter, r *http.Request) {
	h.resetGame(w, r, models.ModeCocktail, "/cocktail")
}

// ShowIngredient renders the ingredient-mode game page
func (h *GameHandler) ShowIngredient(w http.ResponseWriter, r *http.Request) {
	h.showGame(w, r, models.ModeIngredient, "ingredient.tmpl", "Guess the Ingredients", "/ingredient")
}

// GuessIngredient handles an ingredient-mode guess submission
func (h *GameHandler) GuessIngredient(w http.ResponseWriter, r *http.Request) {
	h.submitGuess(w, r, models.ModeIngredient, "ingredient.tmpl", "Guess the Ingredients", "/ingredient")
}

// ResetIngredient discards the ingredient-mode game and starts over
func (h *GameHandler) ResetIngredient(w http.ResponseWriter, r *http.Request) {
	h.resetGame(w, r, models.ModeIngredient, "/ingredient")
}

func (h *GameHandler) showGame(w http.ResponseWriter, r *http.Request, mode models.Mode, tmpl, title, path string) {
	playerKey := GetPlayerKeyFromContext(r.Context())
	if playerKey == "" {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Missing player key", nil)
		return
	}

	data := GameViewData{
		Title:     title + " - CocktailClash",
		User:      GetUserFromContext(r.Context()),
		ModePath:  path,
		CSRFToken: h.middleware.CSRFToken(r),
	}

	state, err := h.gameService.GetOrCreate(r.Context(), playerKey, mode)
	switch {
	case errors.Is(err, service.ErrNoDrink):
		data.Error = "The cocktail catalog is unavailable right now, please try again later"
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to load game", err)
		return
	default:
		data.State = state
	}

	h.render(w, tmpl, data)
}

func (h *GameHandler) submitGuess(w http.ResponseWriter, r *http.Request, mode models.Mode, tmpl, title, path string) {
	playerKey := GetPlayerKeyFromContext(r.Context())
	if playerKey == "" {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Missing player key", nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	guess := r.FormValue("guess")
	user := GetUserFromContext(r.Context())

	state, message, err := h.gameService.SubmitGuess(r.Context(), playerKey, mode, user, guess)
	if errors.Is(err, service.ErrNoGame) {
		// No active game for this player; send them back to draw one
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to submit guess", err)
		return
	}

	h.render(w, tmpl, GameViewData{
		Title:     title + " - CocktailClash",
		User:      user,
		State:     state,
		Message:   message,
		ModePath:  path,
		CSRFToken: h.middleware.CSRFToken(r),
	})
}

func (h *GameHandler) resetGame(w http.ResponseWriter, r *http.Request, mode models.Mode, path string) {
	playerKey := GetPlayerKeyFromContext(r.Context())
	if playerKey != "" {
		if err := h.gameService.Reset(playerKey, mode); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to reset game", err)
			return
		}
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// ShowNameQuiz renders the non-alcoholic name quiz, starting a fresh quiz
// when the player has none
func (h *GameHandler) ShowNameQuiz(w http.ResponseWriter, r *http.Request) {
	playerKey := GetPlayerKeyFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	data := NameQuizViewData{
		Title:     "Name the Cocktail - CocktailClash",
		User:      user,
		CSRFToken: h.middleware.CSRFToken(r),
	}

	state, err := h.gameService.Current(playerKey, models.ModeNameQuiz)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to load name quiz", err)
		return
	}
	if state == nil {
		state, err = h.gameService.StartNameQuiz(r.Context(), playerKey)
	}
	switch {
	case errors.Is(err, service.ErrNoDrink):
		data.Error = "The cocktail catalog is unavailable right now, please try again later"
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to start name quiz", err)
		return
	default:
		data.State = state
	}

	h.render(w, "nonalcoholic.tmpl", data)
}

// AnswerNameQuiz handles a name-quiz answer submission
func (h *GameHandler) AnswerNameQuiz(w http.ResponseWriter, r *http.Request) {
	playerKey := GetPlayerKeyFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	guess := r.FormValue("guess")

	state, result, err := h.gameService.AnswerNameQuiz(r.Context(), playerKey, guess)
	if errors.Is(err, service.ErrNoGame) {
		http.Redirect(w, r, "/nonalcoholic", http.StatusSeeOther)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to answer name quiz", err)
		return
	}

	h.render(w, "nonalcoholic.tmpl", NameQuizViewData{
		Title:     "Name the Cocktail - CocktailClash",
		User:      GetUserFromContext(r.Context()),
		State:     state,
		Result:    result,
		CSRFToken: h.middleware.CSRFToken(r),
	})
}

// NewNameQuiz discards the current quiz and draws a new cocktail
func (h *GameHandler) NewNameQuiz(w http.ResponseWriter, r *http.Request) {
	playerKey := GetPlayerKeyFromContext(r.Context())
	if playerKey != "" {
		if err := h.gameService.Reset(playerKey, models.ModeNameQuiz); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to reset name quiz", err)
			return
		}
	}
	http.Redirect(w, r, "/nonalcoholic", http.StatusSeeOther)
}

func (h *GameHandler) render(w http.ResponseWriter, tmpl string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, tmpl, data); err != nil {
		log.Printf("Error rendering %s template: %v", tmpl, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
