// internal/httpserver/cookies.go
//
// Signed session cookie.
// Responsibilities:
//   - Deriving the HS256 signing key from SESSION_SECRET with HKDF-SHA256.
//   - Issuing a JWT whose jti is the browser's session id.
//   - Reading it back, rejecting bad signatures, other algorithms and expired tokens.
//
// Notes:
//   - Secure is set only in production (NODE_ENV=production).
//   - The token carries no game state; the session id only keys the in-memory store.

package httpserver

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	sessionCookieName = "guessreveal_session"
	keyInfo           = "guessreveal session cookie v1"
)

type sessionCookies struct {
	key    []byte
	ttl    time.Duration
	secure bool
}

func newSessionCookies(secret string, ttl time.Duration, secure bool) (*sessionCookies, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}
	return &sessionCookies{key: key, ttl: ttl, secure: secure}, nil
}

// sign returns a token for sid valid for the cookie TTL.
func (c *sessionCookies) sign(sid string, now time.Time) (string, time.Time, error) {
	exp := now.Add(c.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(c.key)
	return ss, exp, err
}

// verify returns the session id inside a valid token.
func (c *sessionCookies) verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.ID == "" {
		return "", errors.New("session token has no id")
	}
	return claims.ID, nil
}

// issue writes the session cookie for sid.
func (c *sessionCookies) issue(w http.ResponseWriter, sid string) error {
	tok, exp, err := c.sign(sid, time.Now())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
	return nil
}

// read returns the session id from the request cookie, if it verifies.
func (c *sessionCookies) read(r *http.Request) (string, bool) {
	ck, err := r.Cookie(sessionCookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	sid, err := c.verify(ck.Value)
	if err != nil {
		return "", false
	}
	return sid, true
}
