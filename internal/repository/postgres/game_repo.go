package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/connect4-minimax/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame upserts a finished game.
func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	query := `
	INSERT INTO game (game_id, player_id, client, winner, reason, board_rows, board_columns, total_moves, moves, board_state, duration_seconds, created_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		moves = EXCLUDED.moves,
		board_state = EXCLUDED.board_state,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, rec.PlayerID, rec.Client, rec.Winner, rec.Reason,
		rec.Rows, rec.Columns, rec.TotalMoves, movesJSON, boardJSON,
		rec.DurationSeconds, rec.CreatedAt, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

const selectGame = `
	SELECT game_id, player_id, client, winner, reason, board_rows, board_columns,
	       total_moves, moves, board_state, duration_seconds, created_at, finished_at
	FROM game`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.GameRecord, error) {
	var rec domain.GameRecord
	var movesJSON, boardJSON []byte

	err := row.Scan(
		&rec.GameID,
		&rec.PlayerID,
		&rec.Client,
		&rec.Winner,
		&rec.Reason,
		&rec.Rows,
		&rec.Columns,
		&rec.TotalMoves,
		&movesJSON,
		&boardJSON,
		&rec.DurationSeconds,
		&rec.CreatedAt,
		&rec.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(movesJSON, &rec.Moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	if boardJSON != nil {
		if err := json.Unmarshal(boardJSON, &rec.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
		}
	}
	return &rec, nil
}

// GetGameByID returns nil, nil when the game does not exist.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	rec, err := scanGame(r.DB.QueryRowContext(ctx, selectGame+` WHERE game_id = $1;`, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return rec, nil
}

// GetPlayerHistory returns the latest finished games of a player, newest first.
func (r *GameRepo) GetPlayerHistory(ctx context.Context, playerID string, limit int) ([]domain.GameRecord, error) {
	rows, err := r.DB.QueryContext(ctx, selectGame+` WHERE player_id = $1 ORDER BY finished_at DESC LIMIT $2;`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *rec)
	}
	return games, rows.Err()
}

// DeleteOlderThan removes finished games older than days and returns the count.
func (r *GameRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM game WHERE finished_at < NOW() - make_interval(days => $1);`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old games: %w", err)
	}
	return res.RowsAffected()
}
