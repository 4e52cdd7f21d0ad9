package game

import (
	"context"
	"errors"

	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/internal/service/bot"
)

// HistoryRepository reads finished games.
type HistoryRepository interface {
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	GetPlayerHistory(ctx context.Context, playerID string, limit int) ([]domain.GameRecord, error)
}

// Analyzer scores every legal engine column.
type Analyzer interface {
	Analyze(board *domain.Board) bot.Analysis
}

// DefaultAnalyzeMaxEmpty keeps a single analysis to well under a second.
const DefaultAnalyzeMaxEmpty = 16

// ErrPositionTooOpen rejects analysis of positions with too many empty cells
// for an exhaustive search.
var ErrPositionTooOpen = errors.New("position has too many empty cells to analyze")

// Service is the entry point for stateless game logic (facade)
type Service struct {
	Repo     HistoryRepository
	Engine   Analyzer
	Geometry domain.Geometry
	MaxEmpty int // 0 disables the bound
}

func NewService(repo HistoryRepository, engine Analyzer, geo domain.Geometry) *Service {
	return &Service{
		Repo:     repo,
		Engine:   engine,
		Geometry: geo,
		MaxEmpty: DefaultAnalyzeMaxEmpty,
	}
}

// Analyze runs the engine on a client-supplied position with the engine to
// move. Positions that are already decided, or too open to search
// exhaustively, are rejected.
func (s *Service) Analyze(grid [][]int) (bot.Analysis, error) {
	board, err := domain.BoardFromGrid(s.Geometry, grid)
	if err != nil {
		return bot.Analysis{}, err
	}
	if domain.Winner(board) != domain.Empty || board.IsFull() {
		return bot.Analysis{}, domain.ErrGameOver
	}
	if s.MaxEmpty > 0 && board.Count(domain.Empty) > s.MaxEmpty {
		return bot.Analysis{}, ErrPositionTooOpen
	}
	return s.Engine.Analyze(board), nil
}

func (s *Service) History(ctx context.Context, playerID string, limit int) ([]domain.GameRecord, error) {
	if s.Repo == nil {
		return []domain.GameRecord{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.GetPlayerHistory(ctx, playerID, limit)
}

// Record returns a finished game, or ErrGameNotFound.
func (s *Service) Record(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	if s.Repo == nil {
		return nil, domain.ErrGameNotFound
	}
	rec, err := s.Repo.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrGameNotFound
	}
	return rec, nil
}
