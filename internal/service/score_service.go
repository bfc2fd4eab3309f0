package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"cocktailclash/internal/models"
	"cocktailclash/internal/redisboard"
	"cocktailclash/internal/repository"
)

// ScoreboardSize is how many players the ranked scoreboard shows
const ScoreboardSize = 50

// ScoreService records wins and serves the ranked scoreboard. The relational
// store is the source of truth; when Redis is configured a sorted set mirrors
// the counters and serves reads, falling back to SQL on any cache trouble.
type ScoreService struct {
	userRepo *repository.UserRepository
	board    *redisboard.Leaderboard // nil when Redis is not configured
}

// NewScoreService creates a new score service. board may be nil.
func NewScoreService(userRepo *repository.UserRepository, board *redisboard.Leaderboard) *ScoreService {
	return &ScoreService{
		userRepo: userRepo,
		board:    board,
	}
}

// RecordWin adds one win to the user's persisted counter and, best-effort,
// to the cached scoreboard
func (s *ScoreService) RecordWin(ctx context.Context, userID int64) error {
	if err := s.userRepo.IncrementWins(userID); err != nil {
		return fmt.Errorf("failed to record win: %w", err)
	}

	if s.board != nil {
		if err := s.board.IncrementWins(ctx, userID); err != nil {
			log.Printf("Warning: scoreboard cache update failed for user %d: %v", userID, err)
		}
	}

	return nil
}

// Top returns the ranked scoreboard: at most ScoreboardSize players by wins
// descending, ties broken by ascending user ID
func (s *ScoreService) Top(ctx context.Context) ([]models.ScoreboardEntry, error) {
	if s.board != nil {
		if entries, ok := s.topFromCache(ctx); ok {
			return entries, nil
		}
	}
	return s.userRepo.TopByWins(ScoreboardSize)
}

// topFromCache reads the Redis sorted set and hydrates usernames from the
// user store. Returns ok=false when the cache is unusable or empty so the
// caller falls back to SQL.
func (s *ScoreService) topFromCache(ctx context.Context) ([]models.ScoreboardEntry, bool) {
	cached, err := s.board.Top(ctx, ScoreboardSize)
	if err != nil {
		log.Printf("Warning: scoreboard cache read failed: %v", err)
		return nil, false
	}
	if len(cached) == 0 {
		return nil, false
	}

	entries := make([]models.ScoreboardEntry, 0, len(cached))
	for _, item := range cached {
		user, err := s.userRepo.GetUserByID(item.UserID)
		if err != nil || user == nil {
			continue
		}
		entries = append(entries, models.ScoreboardEntry{
			UserID:   item.UserID,
			Username: user.Username,
			Wins:     item.Wins,
		})
	}
	if len(entries) == 0 {
		return nil, false
	}

	// Redis orders ties by member, not by user ID; re-apply the documented
	// tiebreak so both paths rank identically
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, true
}
