package models

// Mode identifies one of the game variants. Game state rows are keyed by
// player cookie plus mode, so a player can have all games running at once.
type Mode string

const (
	// ModeCocktail is the full guessing game: ingredient tokens scored
	// good/partial/wrong, the raw guess also re-resolved as a drink name.
	ModeCocktail Mode = "cocktail"

	// ModeIngredient scores tokens by direct membership in the solution only.
	ModeIngredient Mode = "ingredient"

	// ModeNameQuiz shows a non-alcoholic drink's ingredients and asks for
	// the drink's name.
	ModeNameQuiz Mode = "namequiz"
)

// Status classifies a single guessed ingredient
type Status string

const (
	// StatusGood means the ingredient is part of the solution
	StatusGood Status = "good"

	// StatusPartial means the ingredient is not in the solution but exists
	// in the external catalog (cocktail mode only)
	StatusPartial Status = "partial"

	// StatusWrong means the ingredient is neither
	StatusWrong Status = "wrong"
)

// Feedback is the classification of one guessed ingredient token
type Feedback struct {
	Ingredient string `json:"ingredient"`
	Status     Status `json:"status"`
	Image      string `json:"image,omitempty"`
}

// Attempt is one submitted guess and its derived feedback. Attempts are
// append-only; only a full game reset discards them.
type Attempt struct {
	RawInput string `json:"raw_input"`
	Image    string `json:"image,omitempty"`

	// IngredientFeedback holds the per-token classifications.
	IngredientFeedback []Feedback `json:"ingredient_feedback,omitempty"`

	// DrinkFeedback holds the solution comparison of the drink the raw guess
	// resolved to, if any (cocktail mode only). Win detection in cocktail
	// mode reads this list, not IngredientFeedback.
	DrinkFeedback []Feedback `json:"drink_feedback,omitempty"`
}

// GameState is the per-player state of one game variant. The solution is
// fixed when the state is created and only changes via reset.
type GameState struct {
	Mode          Mode      `json:"mode"`
	CocktailName  string    `json:"cocktail"`
	CocktailImage string    `json:"image,omitempty"`
	Solution      []string  `json:"solution"`
	Attempts      []Attempt `json:"attempts"`
	Won           bool      `json:"won"`
}

// ScoreboardEntry is one ranked row of the win scoreboard
type ScoreboardEntry struct {
	Rank     int
	UserID   int64
	Username string
	Wins     int
}
