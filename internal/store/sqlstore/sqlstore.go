// Package sqlstore keeps slots in a SQL table (k, v, updated_at_unixms).
// SQLite goes through modernc.org/sqlite, MySQL through go-sql-driver/mysql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

type dialect struct {
	name    string
	schema  string
	upsert  string
	pragmas []string
}

var sqliteDialect = dialect{
	name: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	)`,
	upsert: `INSERT OR REPLACE INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
	// WAL lets a `todo ls` read while the TUI writes; busy_timeout avoids
	// spurious "database is locked".
	pragmas: []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	},
}

var mysqlDialect = dialect{
	name: "mysql",
	schema: `CREATE TABLE IF NOT EXISTS kv (
		k VARCHAR(191) NOT NULL PRIMARY KEY,
		v LONGTEXT NOT NULL,
		updated_at_unixms BIGINT NOT NULL
	) CHARACTER SET utf8mb4`,
	upsert: `INSERT INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at_unixms = VALUES(updated_at_unixms)`,
}

const defaultDialTimeout = 5 * time.Second

// Store is a slot backend over database/sql.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty path")
	}
	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	return open(ctx, db, sqliteDialect)
}

// OpenMySQL connects using a go-sql-driver DSN, e.g.
// "user:pass@tcp(127.0.0.1:3306)/tada".
func OpenMySQL(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := mysqlConfig(dsn)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	return open(ctx, sql.OpenDB(connector), mysqlDialect)
}

func mysqlConfig(dsn string) (*mysql.Config, error) {
	if dsn == "" {
		return nil, errors.New("mysql: empty dsn")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, errors.New("mysql dsn: missing database name")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultDialTimeout
	}
	return cfg, nil
}

func open(ctx context.Context, db *sql.DB, d dialect) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w", d.name, err)
	}
	for _, p := range d.pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s pragma: %w", d.name, err)
		}
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s migrate: %w", d.name, err)
	}
	return &Store{db: db, dialect: d}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s get: %w", s.dialect.name, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	nowMs := time.Now().UTC().UnixMilli()
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value, nowMs); err != nil {
		return fmt.Errorf("%s set: %w", s.dialect.name, err)
	}
	return nil
}

// UpdatedAt reports when key was last written.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var ms int64
	err := s.db.QueryRowContext(ctx, `SELECT updated_at_unixms FROM kv WHERE k = ?`, key).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s updated_at: %w", s.dialect.name, err)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

func (s *Store) Close() error { return s.db.Close() }
