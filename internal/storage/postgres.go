package storage

import (
	"context"

	_ "github.com/lib/pq"
)

// OpenPostgres connects to a Postgres server. dsn may be a postgres:// URL
// or a key=value connection string; sslmode defaults to lib/pq's behaviour.
func OpenPostgres(ctx context.Context, dsn string) (*SQLKV, error) {
	return openSQL(ctx, postgresDialect, dsn)
}

var postgresDialect = dialect{
	name: "postgres",
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS kv_store (
			kv_key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	get: `SELECT value FROM kv_store WHERE kv_key = $1`,
	put: `INSERT INTO kv_store (kv_key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (kv_key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	del: `DELETE FROM kv_store WHERE kv_key = $1`,
}
