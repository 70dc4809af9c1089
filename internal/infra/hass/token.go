package hass

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenExpiry reads the exp claim of a long-lived access token without
// verifying it. ok is false for tokens that are not JWTs or carry no exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	}
	return time.Time{}, false
}
