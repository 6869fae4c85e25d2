package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1APIKeys,
	2: migrationV2APIKeyLookupIndexes,
}

// migrationV1APIKeys creates the key store.
//
// Keys are never stored in the clear: key_hash is the hex SHA-256 of the
// full key and key_prefix keeps its first characters for display.
// public_id is the UUID exposed through the admin API.
const migrationV1APIKeys = `
CREATE TABLE IF NOT EXISTS api_keys (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    public_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL CHECK (length(name) > 0),
    key_prefix TEXT NOT NULL,
    key_hash TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    last_used_at TEXT,
    revoked_at TEXT
);
`

// migrationV2APIKeyLookupIndexes indexes active keys by hash for request
// authentication.
const migrationV2APIKeyLookupIndexes = `
CREATE INDEX IF NOT EXISTS idx_api_keys_active_hash
    ON api_keys(key_hash)
    WHERE revoked_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_api_keys_created
    ON api_keys(created_at);
`
