package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokenFromRequest(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: PlayerCookieName, Value: "from-cookie"})
		r.Header.Set("Authorization", "Bearer from-header")

		token, err := GetTokenFromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "from-cookie", token)
	})

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc")

		token, err := GetTokenFromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := GetTokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, ErrNoToken)
	})
}

func TestSetPlayerCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetPlayerCookie(w, "tok", time.Hour, false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}
