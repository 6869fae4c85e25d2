package database

import (
	"time"
)

// APIKey is an issued key. The secret itself is only known at creation.
// PublicID is the UUID used by the admin API; Prefix holds the first
// characters of the secret for display.
type APIKey struct {
	ID         int64      `json:"-"`
	PublicID   string     `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	RevokedAt  *time.Time `json:"revoked_at"`
}

// Active reports whether the key has not been revoked.
func (k APIKey) Active() bool {
	return k.RevokedAt == nil
}

// IssuedAPIKey is returned once, when a key is created. Key is the secret
// the client must send in X-API-Key.
type IssuedAPIKey struct {
	APIKey
	Key string `json:"key"`
}
