package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rpggio/loom/internal/repository"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// connPragmas are applied by the driver to every connection it opens.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", withPragmas(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time. Each connection to :memory: is also a separate
	// database, so the pool holds a single connection for every DSN.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{db}, nil
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + connPragmas
	}
	return dsn + "?" + connPragmas
}

// RunMigrations creates the registry schema if it does not exist yet.
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS domains (
    region TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    retention_days TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('REGISTERED', 'DEPRECATED')),
    created_at TIMESTAMP NOT NULL,
    deprecated_at TIMESTAMP,
    PRIMARY KEY (region, name)
);
CREATE INDEX IF NOT EXISTS idx_domains_status ON domains(region, status);

CREATE TABLE IF NOT EXISTS activity_types (
    region TEXT NOT NULL,
    domain TEXT NOT NULL,
    name TEXT NOT NULL,
    version TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('REGISTERED', 'DEPRECATED')),
    task_list TEXT NOT NULL DEFAULT '',
    heartbeat_timeout TEXT NOT NULL DEFAULT '',
    schedule_to_close_timeout TEXT NOT NULL DEFAULT '',
    schedule_to_start_timeout TEXT NOT NULL DEFAULT '',
    start_to_close_timeout TEXT NOT NULL DEFAULT '',
    task_priority TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    deprecated_at TIMESTAMP,
    PRIMARY KEY (region, domain, name, version),
    FOREIGN KEY (region, domain) REFERENCES domains(region, name)
);
CREATE INDEX IF NOT EXISTS idx_activity_types_status ON activity_types(region, domain, status);

CREATE TABLE IF NOT EXISTS workflow_types (
    region TEXT NOT NULL,
    domain TEXT NOT NULL,
    name TEXT NOT NULL,
    version TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('REGISTERED', 'DEPRECATED')),
    task_list TEXT NOT NULL DEFAULT '',
    task_start_to_close_timeout TEXT NOT NULL DEFAULT '',
    execution_start_to_close_timeout TEXT NOT NULL DEFAULT '',
    child_policy TEXT NOT NULL DEFAULT '',
    lambda_role TEXT NOT NULL DEFAULT '',
    task_priority TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    deprecated_at TIMESTAMP,
    PRIMARY KEY (region, domain, name, version),
    FOREIGN KEY (region, domain) REFERENCES domains(region, name)
);
CREATE INDEX IF NOT EXISTS idx_workflow_types_status ON workflow_types(region, domain, status);

CREATE TABLE IF NOT EXISTS audit_log (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    region TEXT NOT NULL,
    domain TEXT NOT NULL DEFAULT '',
    action TEXT NOT NULL,
    subject TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_region ON audit_log(region, domain);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func nullTime(t *sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// statusChanged interprets the result of a status update guarded by
// `status <> ?`. When no row changed, countQuery tells a missing row apart
// from one that already had the requested status.
func (db *DB) statusChanged(ctx context.Context, result sql.Result, countQuery string, args ...any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	var count int
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return fmt.Errorf("failed to check status update: %w", err)
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrUnchanged
}
