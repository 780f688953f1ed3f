package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/repository"
)

// ActivityTypeRepository implements activitytype.Repository for SQLite
type ActivityTypeRepository struct {
	db *DB
}

// NewActivityTypeRepository creates a new ActivityTypeRepository
func NewActivityTypeRepository(db *DB) *ActivityTypeRepository {
	return &ActivityTypeRepository{db: db}
}

const activityTypeColumns = `
	region, domain, name, version, description, status,
	task_list, heartbeat_timeout, schedule_to_close_timeout,
	schedule_to_start_timeout, start_to_close_timeout, task_priority,
	created_at, deprecated_at`

// Create inserts a new activity type. A duplicate (domain, name, version)
// fails regardless of the existing type's status.
func (r *ActivityTypeRepository) Create(ctx context.Context, region string, t *activitytype.ActivityType) error {
	query := `INSERT INTO activity_types (` + activityTypeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	cfg := t.Configuration
	_, err := r.db.ExecContext(ctx, query,
		region,
		t.Domain,
		t.Name,
		t.Version,
		t.Description,
		string(t.Status),
		cfg.DefaultTaskList,
		cfg.DefaultTaskHeartbeatTimeout,
		cfg.DefaultTaskScheduleToCloseTimeout,
		cfg.DefaultTaskScheduleToStartTimeout,
		cfg.DefaultTaskStartToCloseTimeout,
		cfg.DefaultTaskPriority,
		t.CreatedAt,
		t.DeprecatedAt,
	)
	switch {
	case isUniqueViolation(err):
		return repository.ErrAlreadyExists
	case isForeignKeyViolation(err):
		return repository.ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to create activity type: %w", err)
	}

	t.Region = region
	return nil
}

// Get retrieves an activity type by name and version
func (r *ActivityTypeRepository) Get(ctx context.Context, region, domain string, ref registration.TypeRef) (*activitytype.ActivityType, error) {
	query := `SELECT ` + activityTypeColumns + ` FROM activity_types
		WHERE region = ? AND domain = ? AND name = ? AND version = ?`

	t, err := scanActivityType(r.db.QueryRowContext(ctx, query, region, domain, ref.Name, ref.Version))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity type: %w", err)
	}
	return t, nil
}

// List returns activity types matching the filters ordered by name then version
func (r *ActivityTypeRepository) List(ctx context.Context, region, domain string, opts activitytype.ListOptions) ([]activitytype.ActivityType, error) {
	query := `SELECT ` + activityTypeColumns + ` FROM activity_types
		WHERE region = ? AND domain = ? AND status = ?`
	args := []any{region, domain, string(opts.Status)}
	if opts.Name != "" {
		query += " AND name = ?"
		args = append(args, opts.Name)
	}
	query += " ORDER BY name ASC, version ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity types: %w", err)
	}
	defer rows.Close()

	var types []activitytype.ActivityType
	for rows.Next() {
		t, err := scanActivityType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity type: %w", err)
		}
		types = append(types, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity type rows: %w", err)
	}
	return types, nil
}

// UpdateStatus sets the status and deprecation time of an activity type.
// repository.ErrUnchanged means the type already had status.
func (r *ActivityTypeRepository) UpdateStatus(ctx context.Context, region, domain string, ref registration.TypeRef, status registration.Status, deprecatedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE activity_types SET status = ?, deprecated_at = ?
		WHERE region = ? AND domain = ? AND name = ? AND version = ? AND status <> ?`,
		string(status), deprecatedAt, region, domain, ref.Name, ref.Version, string(status))
	if err != nil {
		return fmt.Errorf("failed to update activity type status: %w", err)
	}
	return r.db.statusChanged(ctx, result,
		`SELECT COUNT(*) FROM activity_types WHERE region = ? AND domain = ? AND name = ? AND version = ?`,
		region, domain, ref.Name, ref.Version)
}

func scanActivityType(row rowScanner) (*activitytype.ActivityType, error) {
	var t activitytype.ActivityType
	var status string
	var deprecatedAt sql.NullTime
	cfg := &t.Configuration
	if err := row.Scan(
		&t.Region,
		&t.Domain,
		&t.Name,
		&t.Version,
		&t.Description,
		&status,
		&cfg.DefaultTaskList,
		&cfg.DefaultTaskHeartbeatTimeout,
		&cfg.DefaultTaskScheduleToCloseTimeout,
		&cfg.DefaultTaskScheduleToStartTimeout,
		&cfg.DefaultTaskStartToCloseTimeout,
		&cfg.DefaultTaskPriority,
		&t.CreatedAt,
		&deprecatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = registration.Status(status)
	t.DeprecatedAt = nullTime(&deprecatedAt)
	return &t, nil
}
