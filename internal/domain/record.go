package domain

import "time"

// GameRecord is a finished game as it is persisted.
type GameRecord struct {
	GameID          string    `json:"gameId"`
	PlayerID        string    `json:"playerId"`
	Client          string    `json:"client"`
	Winner          string    `json:"winner"` // "human", "bot" or "draw"
	Reason          string    `json:"reason"`
	Rows            int       `json:"rows"`
	Columns         int       `json:"columns"`
	TotalMoves      int       `json:"totalMoves"`
	Moves           []int     `json:"moves"`
	Board           [][]int   `json:"board"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
	FinishedAt      time.Time `json:"finishedAt"`
}

const (
	WinnerHuman = "human"
	WinnerBot   = "bot"
	WinnerDraw  = "draw"
)

// WinnerLabel names the side that holds player, or draw for Empty.
func WinnerLabel(player PlayerID) string {
	switch player {
	case Human:
		return WinnerHuman
	case Bot:
		return WinnerBot
	}
	return WinnerDraw
}
