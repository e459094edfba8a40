package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) the SQLite file at dbPath and prepares the
// key-value table. This is the default local store.
func OpenSQLite(dbPath string) (*SQLKV, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer, limit to single connection to prevent SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	kv := &SQLKV{db: conn, dialect: sqliteDialect}
	if err := kv.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return kv, nil
}

var sqliteDialect = dialect{
	name: "sqlite",
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS kv_store (
			kv_key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	get: `SELECT value FROM kv_store WHERE kv_key = ?`,
	put: `INSERT INTO kv_store (kv_key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(kv_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	del: `DELETE FROM kv_store WHERE kv_key = ?`,
}
