package uid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratedIDsAreUnique(t *testing.T) {
	a, b := GenerateGameID(), GenerateGameID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsGameID(a))
	assert.False(t, IsGameID("not-a-game"))

	p := GeneratePlayerID()
	assert.True(t, strings.HasPrefix(p, "p_"))
	assert.NotEqual(t, p, GeneratePlayerID())
}
