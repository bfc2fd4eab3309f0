package handlers

import (
	"html/template"
	"net/http"

	"cocktailclash/internal/service"
)

// ScoreboardHandler serves the top-players page
type ScoreboardHandler struct {
	scoreService *service.ScoreService
	templates    *template.Template
}

// NewScoreboardHandler creates a new scoreboard handler
func NewScoreboardHandler(scoreService *service.ScoreService, templates *template.Template) *ScoreboardHandler {
	return &ScoreboardHandler{
		scoreService: scoreService,
		templates:    templates,
	}
}

// Show renders the top players by wins
func (h *ScoreboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scoreService.Top(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to load scoreboard", err)
		return
	}

	data := ScoreboardViewData{
		Title:   "Scoreboard - CocktailClash",
		User:    GetUserFromContext(r.Context()),
		Entries: entries,
	}

	if err := h.templates.ExecuteTemplate(w, "scoreboard.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to render scoreboard", err)
	}
}
