package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cocktailclash/internal/database"
	"cocktailclash/internal/models"
)

// GameRepository persists per-player game state, one row per (player, mode),
// with the state itself stored as a JSON document.
//
// Writes are plain read-modify-write with no row locking: two simultaneous
// submissions from the same browser can race and the last write wins.
type GameRepository struct {
	db database.DBTX
}

// NewGameRepository creates a new game repository
func NewGameRepository(db database.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

// Get loads the game state for a player and mode, or nil when absent
func (r *GameRepository) Get(playerKey string, mode models.Mode) (*models.GameState, error) {
	query := `SELECT state FROM game_states WHERE player_key = ? AND mode = ?`

	var raw string
	err := r.db.QueryRow(query, playerKey, string(mode)).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	state := &models.GameState{}
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, fmt.Errorf("failed to decode game state: %w", err)
	}
	return state, nil
}

// Save writes the game state back, creating the row if needed
func (r *GameRepository) Save(playerKey string, state *models.GameState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode game state: %w", err)
	}

	// Update first, insert when no row existed; works on every dialect
	updateQuery := `UPDATE game_states SET state = ?, updated_at = ? WHERE player_key = ? AND mode = ?`
	result, err := r.db.Exec(updateQuery, string(raw), time.Now(), playerKey, string(state.Mode))
	if err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read save result: %w", err)
	}
	if rows > 0 {
		return nil
	}

	insertQuery := `INSERT INTO game_states (player_key, mode, state, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.Exec(insertQuery, playerKey, string(state.Mode), string(raw), time.Now()); err != nil {
		return fmt.Errorf("failed to insert game state: %w", err)
	}
	return nil
}

// Delete discards the game state for a player and mode
func (r *GameRepository) Delete(playerKey string, mode models.Mode) error {
	if _, err := r.db.Exec("DELETE FROM game_states WHERE player_key = ? AND mode = ?", playerKey, string(mode)); err != nil {
		return fmt.Errorf("failed to delete game state: %w", err)
	}
	return nil
}
