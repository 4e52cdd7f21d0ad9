package domain

// ClientMessage is what a socket client sends.
type ClientMessage struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
	Column *int   `json:"column,omitempty"` // nil when the client omitted it
}

// ServerMessage is pushed to the socket client. Board is nil for messages
// that do not carry a position.
type ServerMessage struct {
	Type        string  `json:"type"`
	Message     string  `json:"message,omitempty"`
	GameID      string  `json:"gameId,omitempty"`
	YourPlayer  int     `json:"yourPlayer,omitempty"`
	CurrentTurn int     `json:"currentTurn,omitempty"`
	Column      *int    `json:"column,omitempty"`
	Row         *int    `json:"row,omitempty"`
	Player      int     `json:"player,omitempty"`
	Board       [][]int `json:"board,omitempty"`
	NextTurn    int     `json:"nextTurn,omitempty"`
	Winner      string  `json:"winner,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}
