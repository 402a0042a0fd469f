package repository

import (
	"context"
	"fmt"
	"time"
)

// MatchResult is one finished game's outcome as persisted.
type MatchResult struct {
	MatchID     string
	GameID      string
	Players     []string
	WinningTeam int
	Rounds      int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// MatchResultRepository persists finished match outcomes.
type MatchResultRepository struct {
	db *DB
}

// NewMatchResultRepository creates a match-result repository.
func NewMatchResultRepository(db *DB) *MatchResultRepository {
	return &MatchResultRepository{db: db}
}

// Record inserts a finished match outcome.
func (r *MatchResultRepository) Record(ctx context.Context, result MatchResult) error {
	const query = `
		INSERT INTO match_results
			(match_id, game_id, player_1, player_2, player_3, player_4,
			 winning_team, rounds, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if len(result.Players) != 4 {
		return fmt.Errorf("match result requires 4 players, got %d", len(result.Players))
	}

	_, err := r.db.Pool().Exec(ctx, query,
		result.MatchID,
		result.GameID,
		result.Players[0],
		result.Players[1],
		result.Players[2],
		result.Players[3],
		result.WinningTeam,
		result.Rounds,
		result.StartedAt,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match result: %w", err)
	}
	return nil
}

// ListRecent returns the most recently finished matches, newest first.
func (r *MatchResultRepository) ListRecent(ctx context.Context, limit int) ([]MatchResult, error) {
	const query = `
		SELECT match_id, game_id, player_1, player_2, player_3, player_4,
		       winning_team, rounds, started_at, finished_at
		FROM match_results
		ORDER BY finished_at DESC
		LIMIT $1`

	rows, err := r.db.Pool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var result MatchResult
		players := make([]string, 4)
		if err := rows.Scan(
			&result.MatchID,
			&result.GameID,
			&players[0],
			&players[1],
			&players[2],
			&players[3],
			&result.WinningTeam,
			&result.Rounds,
			&result.StartedAt,
			&result.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}
		result.Players = players
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read match results: %w", err)
	}
	return results, nil
}
