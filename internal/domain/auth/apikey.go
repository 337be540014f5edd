// Package auth holds API key credentials used to authenticate external
// collaborators of the dashboard API.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/go-faster/errors"
)

// ErrKeyNotFound is returned when no active key matches the given hash.
var ErrKeyNotFound = errors.New("api key not found")

// APIKey describes a stored API key. Only the HMAC-SHA256 hash of the key
// material is persisted.
type APIKey struct {
	ID      string
	Name    string
	KeyHash string
	Scopes  []string
	Active  bool
}

// Repository defines lookup operations for API keys.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKey, error)
}

// HashKey computes the hex-encoded HMAC-SHA256 of the raw key material under
// the server pepper. The same function is used at seed time and at request
// time so the stored and computed hashes line up.
func HashKey(pepper []byte, key string) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}
