// Package redisboard keeps a Redis sorted set mirroring the win counters, so
// the scoreboard can be read without hitting the relational store. SQL stays
// the source of truth; this is a best-effort cache.
package redisboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const winsKey = "scoreboard:wins"

// Entry is one member of the cached scoreboard
type Entry struct {
	UserID int64
	Wins   int
}

// Leaderboard wraps a Redis client for scoreboard operations
type Leaderboard struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection
func New(addr, password string, db int) (*Leaderboard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Leaderboard{client: client}, nil
}

// Close closes the Redis connection
func (l *Leaderboard) Close() error {
	return l.client.Close()
}

// IncrementWins adds one win to a user's cached score
func (l *Leaderboard) IncrementWins(ctx context.Context, userID int64) error {
	member := strconv.FormatInt(userID, 10)
	if err := l.client.ZIncrBy(ctx, winsKey, 1, member).Err(); err != nil {
		return fmt.Errorf("incrementing cached wins: %w", err)
	}
	return nil
}

// SetWins pins a user's cached score to an absolute value, used to seed or
// repair the cache from the relational store
func (l *Leaderboard) SetWins(ctx context.Context, userID int64, wins int) error {
	member := strconv.FormatInt(userID, 10)
	err := l.client.ZAdd(ctx, winsKey, redis.Z{
		Score:  float64(wins),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("setting cached wins: %w", err)
	}
	return nil
}

// Top returns up to limit users ordered by cached wins descending
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	results, err := l.client.ZRevRangeWithScores(ctx, winsKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading cached scoreboard: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		userID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{UserID: userID, Wins: int(z.Score)})
	}
	return entries, nil
}
