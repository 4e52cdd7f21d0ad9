package httputil

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const PlayerCookieName = "player_token"

var ErrNoToken = errors.New("no player token found in cookie or header")

// SetPlayerCookie stores the player token. secure should be true behind HTTPS.
func SetPlayerCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	cookie := &http.Cookie{
		Name:     PlayerCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	// SameSite=None requires Secure=true
	if secure {
		cookie.SameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, cookie)
}

func ClearPlayerCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     PlayerCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// GetTokenFromRequest prefers the cookie and falls back to the Authorization header.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(PlayerCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoToken
	}
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return token, nil
	}
	return authHeader, nil
}
