package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cocktailclash/internal/catalog"
	"cocktailclash/internal/models"
)

var (
	// ErrNoDrink means the catalog could not supply a cocktail at game start
	ErrNoDrink = errors.New("no cocktail could be drawn")

	// ErrNoGame means a guess arrived with no active game state
	ErrNoGame = errors.New("no active game")
)

// Catalog is the subset of the cocktail catalog the game consults.
// Lookups are best-effort; nil results degrade feedback, they never abort a game.
type Catalog interface {
	RandomDrink(ctx context.Context, category string) *catalog.Drink
	SearchDrink(ctx context.Context, term string) *catalog.Drink
	LookupIngredient(ctx context.Context, name string) *catalog.Ingredient
}

// GameStore persists per-player game state
type GameStore interface {
	Get(playerKey string, mode models.Mode) (*models.GameState, error)
	Save(playerKey string, state *models.GameState) error
	Delete(playerKey string, mode models.Mode) error
}

// WinRecorder persists a player's win. Called exactly once per winning
// transition of a game state.
type WinRecorder interface {
	RecordWin(ctx context.Context, userID int64) error
}

// GameService owns the guessing-game state machine: drawing a mystery
// cocktail, evaluating guesses, detecting wins and recording them
type GameService struct {
	store   GameStore
	catalog Catalog
	wins    WinRecorder
}

// NewGameService creates a new game service
func NewGameService(store GameStore, cat Catalog, wins WinRecorder) *GameService {
	return &GameService{
		store:   store,
		catalog: cat,
		wins:    wins,
	}
}

// GetOrCreate returns the player's current game for the mode, drawing a new
// mystery cocktail when none exists. The solution is fixed here and only a
// reset changes it.
func (s *GameService) GetOrCreate(ctx context.Context, playerKey string, mode models.Mode) (*models.GameState, error) {
	state, err := s.store.Get(playerKey, mode)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	drink := s.catalog.RandomDrink(ctx, "")
	if drink == nil {
		return nil, ErrNoDrink
	}

	state = &models.GameState{
		Mode:          mode,
		CocktailName:  drink.Name,
		CocktailImage: drink.Thumb,
		Solution:      drink.Ingredients(),
		Attempts:      []models.Attempt{},
	}
	if err := s.store.Save(playerKey, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Current returns the player's game for the mode, or nil when none exists
func (s *GameService) Current(playerKey string, mode models.Mode) (*models.GameState, error) {
	return s.store.Get(playerKey, mode)
}

// Reset discards the player's game for the mode; the next GetOrCreate draws
// a fresh cocktail
func (s *GameService) Reset(playerKey string, mode models.Mode) error {
	return s.store.Delete(playerKey, mode)
}

// SubmitGuess evaluates a raw guess against the player's active game,
// appends the attempt and runs win detection. The returned message is empty
// unless this attempt won the game. user may be nil for anonymous players;
// only logged-in wins are recorded on the scoreboard.
//
// An empty or whitespace-only guess is a no-op: no attempt, no message.
func (s *GameService) SubmitGuess(ctx context.Context, playerKey string, mode models.Mode, user *models.User, rawGuess string) (*models.GameState, string, error) {
	state, err := s.store.Get(playerKey, mode)
	if err != nil {
		return nil, "", err
	}
	if state == nil {
		return nil, "", ErrNoGame
	}

	rawGuess = strings.TrimSpace(rawGuess)
	if rawGuess == "" {
		return state, "", nil
	}

	var attempt models.Attempt
	switch mode {
	case models.ModeIngredient:
		attempt = s.evaluateDirect(ctx, state, rawGuess)
	default:
		attempt = s.evaluateCocktail(ctx, state, rawGuess)
	}
	state.Attempts = append(state.Attempts, attempt)

	message := ""
	if s.hasWon(state) {
		if user != nil && s.wins != nil {
			if err := s.wins.RecordWin(ctx, user.ID); err != nil {
				log.Printf("Failed to record win for user %d: %v", user.ID, err)
			}
		}
		state.Won = true
		message = fmt.Sprintf("Congratulations! You found every ingredient of “%s”!", state.CocktailName)
	}

	if err := s.store.Save(playerKey, state); err != nil {
		return nil, "", err
	}
	return state, message, nil
}

// evaluateCocktail scores a guess in cocktail mode: each token against the
// solution and the ingredient catalog, plus the whole guess re-resolved as a
// drink name whose recipe is compared to the solution.
func (s *GameService) evaluateCocktail(ctx context.Context, state *models.GameState, rawGuess string) models.Attempt {
	attempt := models.Attempt{RawInput: rawGuess}

	for _, token := range splitGuess(rawGuess) {
		attempt.IngredientFeedback = append(attempt.IngredientFeedback, models.Feedback{
			Ingredient: token,
			Status:     s.classifyToken(ctx, token, state.Solution),
		})
	}

	if drink := s.catalog.SearchDrink(ctx, rawGuess); drink != nil {
		attempt.Image = drink.Thumb
		for _, ingredient := range drink.Ingredients() {
			status := models.StatusWrong
			if contains(state.Solution, ingredient) {
				status = models.StatusGood
			}
			attempt.DrinkFeedback = append(attempt.DrinkFeedback, models.Feedback{
				Ingredient: ingredient,
				Status:     status,
			})
		}
	}

	return attempt
}

// classifyToken applies the three-way cocktail-mode rule: in the solution is
// good; otherwise any ingredient the catalog recognizes is partial; anything
// else is wrong. An unreachable catalog downgrades partial to wrong.
func (s *GameService) classifyToken(ctx context.Context, token string, solution []string) models.Status {
	if contains(solution, token) {
		return models.StatusGood
	}
	if s.catalog.LookupIngredient(ctx, token) != nil {
		return models.StatusPartial
	}
	return models.StatusWrong
}

// evaluateDirect scores a guess in ingredient mode: plain membership in the
// solution, with a best-effort ingredient image attached to each token
func (s *GameService) evaluateDirect(ctx context.Context, state *models.GameState, rawGuess string) models.Attempt {
	attempt := models.Attempt{RawInput: rawGuess, Image: state.CocktailImage}

	for _, token := range splitGuess(rawGuess) {
		feedback := models.Feedback{Ingredient: token, Status: models.StatusWrong}
		if contains(state.Solution, token) {
			feedback.Status = models.StatusGood
		}
		if ingredient := s.catalog.LookupIngredient(ctx, token); ingredient != nil {
			feedback.Image = ingredient.ImageURL()
		}
		attempt.IngredientFeedback = append(attempt.IngredientFeedback, feedback)
	}

	return attempt
}

// hasWon reports whether the accumulated "good" ingredients across all
// attempts cover the whole solution, on a game that is not already won.
//
// Cocktail mode deliberately reads the drink-resolution feedback, not the
// token-level feedback: the win requires guesses that resolve to drinks
// covering the recipe.
func (s *GameService) hasWon(state *models.GameState) bool {
	if state.Won {
		return false
	}

	found := make(map[string]bool)
	for _, attempt := range state.Attempts {
		feedback := attempt.DrinkFeedback
		if state.Mode == models.ModeIngredient {
			feedback = attempt.IngredientFeedback
		}
		for _, fb := range feedback {
			if fb.Status == models.StatusGood {
				found[fb.Ingredient] = true
			}
		}
	}

	for _, ingredient := range state.Solution {
		if !found[ingredient] {
			return false
		}
	}
	return true
}

// StartNameQuiz draws a fresh non-alcoholic cocktail and stores its name and
// ingredient list (with measures, for display) as the quiz state
func (s *GameService) StartNameQuiz(ctx context.Context, playerKey string) (*models.GameState, error) {
	drink := s.catalog.RandomDrink(ctx, "Non_Alcoholic")
	if drink == nil {
		return nil, ErrNoDrink
	}

	state := &models.GameState{
		Mode:          models.ModeNameQuiz,
		CocktailName:  drink.Name,
		CocktailImage: drink.Thumb,
		Solution:      drink.IngredientsWithMeasures(),
		Attempts:      []models.Attempt{},
	}
	if err := s.store.Save(playerKey, state); err != nil {
		return nil, err
	}
	return state, nil
}

// AnswerNameQuiz checks a drink-name guess against the stored quiz.
// Returns ErrNoGame when no quiz was started, so the caller can re-enter via
// StartNameQuiz.
func (s *GameService) AnswerNameQuiz(ctx context.Context, playerKey, guess string) (*models.GameState, string, error) {
	state, err := s.store.Get(playerKey, models.ModeNameQuiz)
	if err != nil {
		return nil, "", err
	}
	if state == nil {
		return nil, "", ErrNoGame
	}

	result := fmt.Sprintf("Wrong! The cocktail was: %s", state.CocktailName)
	if strings.EqualFold(strings.TrimSpace(guess), state.CocktailName) {
		result = "Correct!"
	}
	return state, result, nil
}

// splitGuess splits a raw guess on commas into lowercase trimmed tokens,
// discarding empties. Repeated tokens are kept; win detection collapses them.
func splitGuess(raw string) []string {
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
