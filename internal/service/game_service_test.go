package service

import (
	"context"
	"strings"
	"testing"

	"cocktailclash/internal/catalog"
	"cocktailclash/internal/models"
)

// fakeStore is an in-memory GameStore
type fakeStore struct {
	states map[string]*models.GameState
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[string]*models.GameState)}
}

func (f *fakeStore) key(playerKey string, mode models.Mode) string {
	return playerKey + "/" + string(mode)
}

func (f *fakeStore) Get(playerKey string, mode models.Mode) (*models.GameState, error) {
	return f.states[f.key(playerKey, mode)], nil
}

func (f *fakeStore) Save(playerKey string, state *models.GameState) error {
	f.states[f.key(playerKey, state.Mode)] = state
	return nil
}

func (f *fakeStore) Delete(playerKey string, mode models.Mode) error {
	delete(f.states, f.key(playerKey, mode))
	return nil
}

// fakeCatalog is a canned Catalog
type fakeCatalog struct {
	random      *catalog.Drink
	randomCalls int
	drinks      map[string]*catalog.Drink // search term -> drink
	ingredients map[string]string         // lowercase name -> canonical name
}

func (f *fakeCatalog) RandomDrink(ctx context.Context, category string) *catalog.Drink {
	f.randomCalls++
	return f.random
}

func (f *fakeCatalog) SearchDrink(ctx context.Context, term string) *catalog.Drink {
	return f.drinks[strings.ToLower(term)]
}

func (f *fakeCatalog) LookupIngredient(ctx context.Context, name string) *catalog.Ingredient {
	canonical, ok := f.ingredients[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return &catalog.Ingredient{Name: canonical}
}

// fakeWins counts RecordWin calls
type fakeWins struct {
	calls []int64
}

func (f *fakeWins) RecordWin(ctx context.Context, userID int64) error {
	f.calls = append(f.calls, userID)
	return nil
}

func makeDrink(name, thumb string, ingredients ...string) *catalog.Drink {
	d := &catalog.Drink{Name: name, Thumb: thumb}
	for i, ing := range ingredients {
		d.Slots[i] = catalog.IngredientSlot{Name: ing}
	}
	return d
}

func newTestService(cat *fakeCatalog, wins *fakeWins) (*GameService, *fakeStore) {
	store := newFakeStore()
	return NewGameService(store, cat, wins), store
}

func TestGetOrCreateDrawsOnceAndFixesSolution(t *testing.T) {
	cat := &fakeCatalog{random: makeDrink("Gimlet", "gimlet.jpg", "Gin", "Lime Juice")}
	svc, _ := newTestService(cat, &fakeWins{})

	state, err := svc.GetOrCreate(context.Background(), "player-1", models.ModeCocktail)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if state.CocktailName != "Gimlet" {
		t.Errorf("cocktail = %q, want Gimlet", state.CocktailName)
	}
	if len(state.Solution) != 2 || state.Solution[0] != "gin" || state.Solution[1] != "lime juice" {
		t.Errorf("solution = %v", state.Solution)
	}
	if state.Won {
		t.Error("new game should not be won")
	}

	// Second call must reuse the stored game, not draw again
	cat.random = makeDrink("Mojito", "mojito.jpg", "Rum")
	again, err := svc.GetOrCreate(context.Background(), "player-1", models.ModeCocktail)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if again.CocktailName != "Gimlet" {
		t.Errorf("second GetOrCreate drew a new cocktail: %q", again.CocktailName)
	}
	if cat.randomCalls != 1 {
		t.Errorf("randomCalls = %d, want 1", cat.randomCalls)
	}
}

func TestGetOrCreateFailsWhenCatalogExhausted(t *testing.T) {
	cat := &fakeCatalog{random: nil}
	svc, store := newTestService(cat, &fakeWins{})

	if _, err := svc.GetOrCreate(context.Background(), "player-1", models.ModeCocktail); err != ErrNoDrink {
		t.Fatalf("error = %v, want ErrNoDrink", err)
	}
	if len(store.states) != 0 {
		t.Error("no half-initialized state may be persisted on a failed draw")
	}
}

func TestResetDiscardsGame(t *testing.T) {
	cat := &fakeCatalog{random: makeDrink("Gimlet", "", "Gin", "Lime")}
	svc, _ := newTestService(cat, &fakeWins{})

	if _, err := svc.GetOrCreate(context.Background(), "player-1", models.ModeCocktail); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if err := svc.Reset("player-1", models.ModeCocktail); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	cat.random = makeDrink("Mojito", "", "Rum", "Mint")
	state, err := svc.GetOrCreate(context.Background(), "player-1", models.ModeCocktail)
	if err != nil {
		t.Fatalf("GetOrCreate() after reset error = %v", err)
	}
	if len(state.Solution) == 0 {
		t.Error("game after reset must have a valid solution set")
	}
	if len(state.Attempts) != 0 {
		t.Error("game after reset must have no attempts")
	}
}

func TestEmptyGuessIsNoOp(t *testing.T) {
	cat := &fakeCatalog{random: makeDrink("Gimlet", "", "Gin", "Lime")}
	svc, _ := newTestService(cat, &fakeWins{})
	if _, err := svc.GetOrCreate(context.Background(), "player-1", models.ModeCocktail); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	for _, guess := range []string{"", "   ", "\t\n"} {
		state, message, err := svc.SubmitGuess(context.Background(), "player-1", models.ModeCocktail, nil, guess)
		if err != nil {
			t.Fatalf("SubmitGuess(%q) error = %v", guess, err)
		}
		if message != "" {
			t.Errorf("SubmitGuess(%q) message = %q, want empty", guess, message)
		}
		if len(state.Attempts) != 0 {
			t.Errorf("SubmitGuess(%q) appended an attempt", guess)
		}
	}
}

func TestSubmitGuessWithoutGame(t *testing.T) {
	cat := &fakeCatalog{}
	svc, _ := newTestService(cat, &fakeWins{})

	if _, _, err := svc.SubmitGuess(context.Background(), "player-1", models.ModeCocktail, nil, "gin"); err != ErrNoGame {
		t.Fatalf("error = %v, want ErrNoGame", err)
	}
}

func TestCocktailModeTokenClassification(t *testing.T) {
	cat := &fakeCatalog{
		random:      makeDrink("Gin Fizz", "", "Gin", "Lime", "Soda"),
		ingredients: map[string]string{"vodka": "Vodka"},
	}
	svc, _ := newTestService(cat, &fakeWins{})
	if _, err := svc.GetOrCreate(context.Background(), "p", models.ModeCocktail); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	state, _, err := svc.SubmitGuess(context.Background(), "p", models.ModeCocktail, nil, "Gin , vodka, unicorntear")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}

	if len(state.Attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(state.Attempts))
	}
	fb := state.Attempts[0].IngredientFeedback
	expected := []models.Feedback{
		{Ingredient: "gin", Status: models.StatusGood},
		{Ingredient: "vodka", Status: models.StatusPartial},
		{Ingredient: "unicorntear", Status: models.StatusWrong},
	}
	if len(fb) != len(expected) {
		t.Fatalf("feedback = %v, want %v", fb, expected)
	}
	for i, want := range expected {
		if fb[i].Ingredient != want.Ingredient || fb[i].Status != want.Status {
			t.Errorf("feedback[%d] = %+v, want %+v", i, fb[i], want)
		}
	}
}

func TestCocktailModeWinAccumulatesDrinkFeedback(t *testing.T) {
	cat := &fakeCatalog{
		random: makeDrink("Gimlet", "", "Gin", "Lime"),
		drinks: map[string]*catalog.Drink{
			"southside": makeDrink("Southside", "southside.jpg", "Gin", "Mint"),
			"rickey":    makeDrink("Rickey", "rickey.jpg", "Lime", "Soda"),
		},
	}
	wins := &fakeWins{}
	svc, _ := newTestService(cat, wins)
	user := &models.User{ID: 7, Username: "alice"}

	if _, err := svc.GetOrCreate(context.Background(), "p", models.ModeCocktail); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	// First attempt covers gin only: not a win yet
	state, message, err := svc.SubmitGuess(context.Background(), "p", models.ModeCocktail, user, "southside")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if state.Won || message != "" {
		t.Fatalf("won after first attempt: won=%v message=%q", state.Won, message)
	}
	if state.Attempts[0].Image != "southside.jpg" {
		t.Errorf("attempt image = %q, want the resolved drink thumb", state.Attempts[0].Image)
	}

	// Second attempt adds lime: accumulated good set covers the solution
	state, message, err = svc.SubmitGuess(context.Background(), "p", models.ModeCocktail, user, "rickey")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if !state.Won {
		t.Fatal("expected a win after the second attempt")
	}
	if !strings.Contains(message, "Gimlet") {
		t.Errorf("win message %q does not name the cocktail", message)
	}
	if len(wins.calls) != 1 || wins.calls[0] != 7 {
		t.Fatalf("win recorded %v times, want once for user 7", wins.calls)
	}

	// A further qualifying attempt must not re-trigger the win
	state, message, err = svc.SubmitGuess(context.Background(), "p", models.ModeCocktail, user, "rickey")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if message != "" {
		t.Errorf("post-win message = %q, want empty", message)
	}
	if len(wins.calls) != 1 {
		t.Errorf("win recorded %d times after post-win attempt, want 1", len(wins.calls))
	}
	if len(state.Attempts) != 3 {
		t.Errorf("attempts = %d, attempts must keep accumulating after a win", len(state.Attempts))
	}
}

func TestCocktailModeWinIgnoresTokenFeedback(t *testing.T) {
	// Token-level feedback may mark every solution ingredient good, but the
	// win is keyed off drink-resolution feedback only
	cat := &fakeCatalog{random: makeDrink("Gimlet", "", "Gin", "Lime")}
	wins := &fakeWins{}
	svc, _ := newTestService(cat, wins)
	user := &models.User{ID: 1}

	if _, err := svc.GetOrCreate(context.Background(), "p", models.ModeCocktail); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	state, message, err := svc.SubmitGuess(context.Background(), "p", models.ModeCocktail, user, "gin, lime")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}

	for i, fb := range state.Attempts[0].IngredientFeedback {
		if fb.Status != models.StatusGood {
			t.Errorf("token %d classified %s, want good", i, fb.Status)
		}
	}
	if state.Won || message != "" {
		t.Error("token-level feedback alone must not win the game")
	}
	if len(wins.calls) != 0 {
		t.Error("no win may be recorded without drink-resolution coverage")
	}
}

func TestIngredientModeMembershipAndImages(t *testing.T) {
	cat := &fakeCatalog{
		random:      makeDrink("Gimlet", "gimlet.jpg", "Gin", "Lime"),
		ingredients: map[string]string{"gin": "Gin", "vodka": "Vodka"},
	}
	wins := &fakeWins{}
	svc, _ := newTestService(cat, wins)
	user := &models.User{ID: 3}

	if _, err := svc.GetOrCreate(context.Background(), "p", models.ModeIngredient); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	state, message, err := svc.SubmitGuess(context.Background(), "p", models.ModeIngredient, user, "gin, vodka")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}

	fb := state.Attempts[0].IngredientFeedback
	if len(fb) != 2 {
		t.Fatalf("feedback = %v", fb)
	}
	if fb[0].Status != models.StatusGood || fb[0].Image == "" {
		t.Errorf("gin feedback = %+v, want good with image", fb[0])
	}
	// No partial tier in this mode: a known-but-absent ingredient is wrong
	if fb[1].Status != models.StatusWrong {
		t.Errorf("vodka status = %s, want wrong", fb[1].Status)
	}
	if state.Won || message != "" {
		t.Fatal("incomplete coverage must not win")
	}

	// Completing the solution through direct feedback wins this mode
	state, message, err = svc.SubmitGuess(context.Background(), "p", models.ModeIngredient, user, "lime")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if !state.Won || !strings.Contains(message, "Gimlet") {
		t.Fatalf("won=%v message=%q", state.Won, message)
	}
	if len(wins.calls) != 1 {
		t.Errorf("win recorded %d times, want 1", len(wins.calls))
	}
}

func TestAnonymousWinIsNotRecorded(t *testing.T) {
	cat := &fakeCatalog{random: makeDrink("Gimlet", "", "Gin")}
	wins := &fakeWins{}
	svc, _ := newTestService(cat, wins)

	if _, err := svc.GetOrCreate(context.Background(), "p", models.ModeIngredient); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	state, message, err := svc.SubmitGuess(context.Background(), "p", models.ModeIngredient, nil, "gin")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if !state.Won || message == "" {
		t.Fatal("anonymous players can still win the game")
	}
	if len(wins.calls) != 0 {
		t.Error("anonymous wins must not touch the scoreboard")
	}
}

func TestSolutionInvariantAcrossAttempts(t *testing.T) {
	cat := &fakeCatalog{random: makeDrink("Gin Fizz", "", "Gin", "Lime", "Soda")}
	svc, _ := newTestService(cat, &fakeWins{})

	state, err := svc.GetOrCreate(context.Background(), "p", models.ModeCocktail)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	original := strings.Join(state.Solution, "|")

	for _, guess := range []string{"rum", "whiskey, bitters", "anything at all"} {
		state, _, err = svc.SubmitGuess(context.Background(), "p", models.ModeCocktail, nil, guess)
		if err != nil {
			t.Fatalf("SubmitGuess(%q) error = %v", guess, err)
		}
		if strings.Join(state.Solution, "|") != original {
			t.Fatalf("solution changed after guess %q: %v", guess, state.Solution)
		}
	}
	if len(state.Attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(state.Attempts))
	}
}

func TestNameQuiz(t *testing.T) {
	drink := makeDrink("Virgin Mojito", "vm.jpg")
	drink.Slots[0] = catalog.IngredientSlot{Name: "Mint", Measure: "A handful "}
	drink.Slots[1] = catalog.IngredientSlot{Name: "Lime"}
	cat := &fakeCatalog{random: drink}
	svc, _ := newTestService(cat, &fakeWins{})

	state, err := svc.StartNameQuiz(context.Background(), "p")
	if err != nil {
		t.Fatalf("StartNameQuiz() error = %v", err)
	}
	if len(state.Solution) != 2 || state.Solution[0] != "A handful Mint" || state.Solution[1] != "Lime" {
		t.Errorf("displayed ingredients = %v", state.Solution)
	}

	_, result, err := svc.AnswerNameQuiz(context.Background(), "p", "  virgin MOJITO ")
	if err != nil {
		t.Fatalf("AnswerNameQuiz() error = %v", err)
	}
	if result != "Correct!" {
		t.Errorf("result = %q, want Correct!", result)
	}

	_, result, err = svc.AnswerNameQuiz(context.Background(), "p", "daiquiri")
	if err != nil {
		t.Fatalf("AnswerNameQuiz() error = %v", err)
	}
	if !strings.Contains(result, "Virgin Mojito") {
		t.Errorf("wrong-answer result %q must reveal the cocktail", result)
	}
}

func TestNameQuizWithoutState(t *testing.T) {
	svc, _ := newTestService(&fakeCatalog{}, &fakeWins{})

	if _, _, err := svc.AnswerNameQuiz(context.Background(), "p", "mojito"); err != ErrNoGame {
		t.Fatalf("error = %v, want ErrNoGame", err)
	}
}

func TestNameQuizFailsWhenCatalogExhausted(t *testing.T) {
	svc, _ := newTestService(&fakeCatalog{random: nil}, &fakeWins{})

	if _, err := svc.StartNameQuiz(context.Background(), "p"); err != ErrNoDrink {
		t.Fatalf("error = %v, want ErrNoDrink", err)
	}
}

func TestSplitGuess(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "single token", raw: "Gin", expected: []string{"gin"}},
		{name: "trims and lowercases", raw: " Gin ,  LIME JUICE ", expected: []string{"gin", "lime juice"}},
		{name: "drops empty tokens", raw: "gin,,  ,lime", expected: []string{"gin", "lime"}},
		{name: "keeps duplicates", raw: "gin, gin", expected: []string{"gin", "gin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitGuess(tt.raw)
			if len(got) != len(tt.expected) {
				t.Fatalf("splitGuess(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}
