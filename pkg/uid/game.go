package uid

import "github.com/google/uuid"

// GenerateGameID returns a random game identifier.
func GenerateGameID() string {
	return uuid.NewString()
}

// GeneratePlayerID returns a random identifier for an anonymous player.
func GeneratePlayerID() string {
	return "p_" + uuid.NewString()
}

// IsGameID reports whether s looks like a value from GenerateGameID.
func IsGameID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
