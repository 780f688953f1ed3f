package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedDomain registers a domain the type repositories can reference.
func seedDomain(t *testing.T, db *DB, region, name string) {
	t.Helper()
	err := NewDomainRepository(db).Create(context.Background(), region, &swfdomain.Domain{
		Name:                  name,
		RetentionPeriodInDays: "60",
		Status:                registration.StatusRegistered,
		CreatedAt:             time.Now(),
	})
	require.NoError(t, err)
}

func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"domains",
		"activity_types",
		"workflow_types",
		"audit_log",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestStatusCheckConstraint(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO domains (region, name, retention_days, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		"us-east-1", "d", "1", "ACTIVE", time.Now())
	require.Error(t, err)
}

func TestFileDatabaseConcurrentWrites(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "loom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	seedDomain(t, db, "us-east-1", "test-domain")
	repo := NewActivityTypeRepository(db)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Create(context.Background(), "us-east-1", newActivityType(fmt.Sprintf("activity-%02d", i), "v1"))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := repo.List(context.Background(), "us-east-1", "test-domain", activitytype.ListOptions{Status: registration.StatusRegistered})
	require.NoError(t, err)
	require.Len(t, list, 32)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.Equal(t, 1, fk)
}
