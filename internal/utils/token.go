// Package utils provides helpers for password hashing and session tokens.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is what login hands back to the client. Token is the signed
// bearer string; Hash is what gets persisted in the sessions table. The
// database row is authoritative for validity — the signature only lets the
// middleware reject garbage without a lookup.
type SessionToken struct {
	Token string
	Hash  string
	Exp   time.Time
}

var errInvalidToken = errors.New("invalid session token")

// NewSessionToken mints a session token for a user: a random session id
// wrapped in an HS256-signed envelope with the user id and expiry. Only the
// SHA-256 hash of the session id is meant to reach the database.
func NewSessionToken(secret string, userID uint64, ttl time.Duration) (SessionToken, error) {
	sid, err := randomHex(24)
	if err != nil {
		return SessionToken{}, err
	}
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sid": sid,
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Hash: HashSessionID(sid), Exp: exp}, nil
}

// ParseSessionToken verifies the envelope signature and returns the hash of
// the embedded session id. Expiry is rechecked against the session row by
// the caller; the envelope's exp claim only bounds how long a stolen token
// stays parseable.
func ParseSessionToken(secret, raw string) (hash string, err error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errInvalidToken
	}
	return HashSessionID(sid), nil
}

// HashSessionID returns the SHA-256 hex digest stored in sessions.token_hash.
func HashSessionID(sid string) string {
	sum := sha256.Sum256([]byte(sid))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
