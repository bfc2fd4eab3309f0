package handlers

import (
	"cocktailclash/internal/models"
)

type GameViewData struct {
	Title     string
	User      *models.User
	State     *models.GameState
	Message   string
	Error     string
	ModePath  string
	CSRFToken string
}

type NameQuizViewData struct {
	Title     string
	User      *models.User
	State     *models.GameState
	Result    string
	Error     string
	CSRFToken string
}

type ScoreboardViewData struct {
	Title   string
	User    *models.User
	Entries []models.ScoreboardEntry
}
