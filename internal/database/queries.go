package database

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Key format constants.
const (
	// KeyPrefix starts every issued key so leaked keys are easy to spot.
	KeyPrefix = "cc_"

	keySecretBytes   = 24
	keyDisplayLength = len(KeyPrefix) + 8
)

// ErrInvalidName is returned when a key is created without a name.
var ErrInvalidName = errors.New("api key name is required")

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

// HashKey returns the hex SHA-256 digest stored for key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// generateKey returns a new random key.
func generateKey() (string, error) {
	secret := make([]byte, keySecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return KeyPrefix + hex.EncodeToString(secret), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const apiKeyColumns = `id, public_id, name, key_prefix, created_at, last_used_at, revoked_at`

func scanAPIKey(row rowScanner) (*APIKey, error) {
	var key APIKey
	var createdAt, lastUsedAt, revokedAt sql.NullString
	if err := row.Scan(
		&key.ID,
		&key.PublicID,
		&key.Name,
		&key.Prefix,
		&createdAt,
		&lastUsedAt,
		&revokedAt,
	); err != nil {
		return nil, err
	}
	if t := parseTimestamp(createdAt); t != nil {
		key.CreatedAt = *t
	}
	key.LastUsedAt = parseTimestamp(lastUsedAt)
	key.RevokedAt = parseTimestamp(revokedAt)
	return &key, nil
}

// =============================================================================
// API Key Queries
// =============================================================================

// CreateAPIKey issues a new key. The returned secret is not stored and
// cannot be recovered later.
func (db *DB) CreateAPIKey(ctx context.Context, name string) (*IssuedAPIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	secret, err := generateKey()
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO api_keys (public_id, name, key_prefix, key_hash)
		VALUES (?, ?, ?, ?)
		RETURNING ` + apiKeyColumns

	key, err := scanAPIKey(db.QueryRowContext(ctx, query,
		uuid.NewString(), name, secret[:keyDisplayLength], HashKey(secret),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert api key: %w", err)
	}

	db.logger.Info("api key created",
		"key_id", key.PublicID,
		"name", key.Name,
	)

	return &IssuedAPIKey{APIKey: *key, Key: secret}, nil
}

// ValidateAPIKey returns the active key matching secret and records its
// use. Returns ErrNotFound for unknown or revoked keys.
func (db *DB) ValidateAPIKey(ctx context.Context, secret string) (*APIKey, error) {
	if secret == "" {
		return nil, ErrNotFound
	}

	var key *APIKey
	err := db.WithTx(ctx, func(tx *Tx) error {
		var err error
		key, err = scanAPIKey(tx.QueryRowContext(ctx,
			`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ? AND revoked_at IS NULL`,
			HashKey(secret),
		))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("query api key: %w", err)
		}

		now := time.Now().UTC().Truncate(time.Second)
		if _, err := tx.ExecContext(ctx,
			`UPDATE api_keys SET last_used_at = ? WHERE id = ?`,
			now.Format(time.RFC3339), key.ID,
		); err != nil {
			return fmt.Errorf("record api key use: %w", err)
		}
		key.LastUsedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return key, nil
}

// GetAPIKey returns the key with the given public id.
func (db *DB) GetAPIKey(ctx context.Context, publicID string) (*APIKey, error) {
	key, err := scanAPIKey(db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE public_id = ?`, publicID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query api key: %w", err)
	}
	return key, nil
}

// ListAPIKeys returns every key, revoked ones included, oldest first.
// Returns empty slice if none exist.
func (db *DB) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query api keys: %w", err)
	}
	defer rows.Close()

	keys := []APIKey{}
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, *key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate api keys: %w", err)
	}
	return keys, nil
}

// RevokeAPIKey revokes an active key. Returns ErrNotFound if no active key
// has the given public id.
func (db *DB) RevokeAPIKey(ctx context.Context, publicID string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = datetime('now') WHERE public_id = ? AND revoked_at IS NULL`,
		publicID,
	)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	db.logger.Info("api key revoked", "key_id", publicID)
	return nil
}
