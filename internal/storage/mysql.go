package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// OpenMySQL connects to a MySQL server using a go-sql-driver DSN
// (user:password@tcp(host:port)/dbname). parseTime and utf8mb4 are forced on.
func OpenMySQL(ctx context.Context, dsn string) (*SQLKV, error) {
	normalized, err := normalizeMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	return openSQL(ctx, mysqlDialect, normalized)
}

func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	// ParseDSN moves charset out of Params, so look at the raw DSN.
	if !strings.Contains(dsn, "charset=") {
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}

var mysqlDialect = dialect{
	name: "mysql",
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS kv_store (
			kv_key VARCHAR(255) NOT NULL PRIMARY KEY,
			value LONGTEXT NOT NULL,
			updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
		)`,
	},
	get: `SELECT value FROM kv_store WHERE kv_key = ?`,
	put: `INSERT INTO kv_store (kv_key, value, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`,
	del: `DELETE FROM kv_store WHERE kv_key = ?`,
}
