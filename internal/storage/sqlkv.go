package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dialect holds the SQL that differs between drivers.
type dialect struct {
	name       string
	migrations []string
	get        string
	put        string // args: key, value, updated_at
	del        string
}

// SQLKV implements KV on a single table in a SQL database. The shared
// implementation serves SQLite, Postgres and MySQL.
type SQLKV struct {
	db      *sql.DB
	dialect dialect
}

// Conn returns the underlying database connection.
func (s *SQLKV) Conn() *sql.DB {
	return s.db
}

// Driver returns the database/sql driver name.
func (s *SQLKV) Driver() string {
	return s.dialect.name
}

func (s *SQLKV) migrate() error {
	for _, m := range s.dialect.migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", m[:min(len(m), 40)], err)
		}
	}
	return nil
}

func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLKV) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.put, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.del, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLKV) Close() error {
	return s.db.Close()
}

// openSQL opens a pooled connection for a server-backed SQL store and
// checks it is reachable before migrating.
func openSQL(ctx context.Context, d dialect, dsn string) (*SQLKV, error) {
	db, err := sql.Open(d.name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.name, err)
	}

	kv := &SQLKV{db: db, dialect: d}
	if err := kv.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return kv, nil
}
