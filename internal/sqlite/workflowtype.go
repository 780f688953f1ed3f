package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/workflowtype"
	"github.com/rpggio/loom/internal/repository"
)

// WorkflowTypeRepository implements workflowtype.Repository for SQLite
type WorkflowTypeRepository struct {
	db *DB
}

// NewWorkflowTypeRepository creates a new WorkflowTypeRepository
func NewWorkflowTypeRepository(db *DB) *WorkflowTypeRepository {
	return &WorkflowTypeRepository{db: db}
}

const workflowTypeColumns = `
	region, domain, name, version, description, status,
	task_list, task_start_to_close_timeout, execution_start_to_close_timeout,
	child_policy, lambda_role, task_priority,
	created_at, deprecated_at`

func (r *WorkflowTypeRepository) Create(ctx context.Context, region string, t *workflowtype.WorkflowType) error {
	query := `INSERT INTO workflow_types (` + workflowTypeColumns + `)
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
		cfg.DefaultTaskStartToCloseTimeout,
		cfg.DefaultExecutionStartToCloseTimeout,
		string(cfg.DefaultChildPolicy),
		cfg.DefaultLambdaRole,
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
		return fmt.Errorf("failed to create workflow type: %w", err)
	}

	t.Region = region
	return nil
}

func (r *WorkflowTypeRepository) Get(ctx context.Context, region, domain string, ref registration.TypeRef) (*workflowtype.WorkflowType, error) {
	query := `SELECT ` + workflowTypeColumns + ` FROM workflow_types
		WHERE region = ? AND domain = ? AND name = ? AND version = ?`

	t, err := scanWorkflowType(r.db.QueryRowContext(ctx, query, region, domain, ref.Name, ref.Version))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow type: %w", err)
	}
	return t, nil
}

func (r *WorkflowTypeRepository) List(ctx context.Context, region, domain string, opts workflowtype.ListOptions) ([]workflowtype.WorkflowType, error) {
	query := `SELECT ` + workflowTypeColumns + ` FROM workflow_types
		WHERE region = ? AND domain = ? AND status = ?`
	args := []any{region, domain, string(opts.Status)}
	if opts.Name != "" {
		query += " AND name = ?"
		args = append(args, opts.Name)
	}
	query += " ORDER BY name ASC, version ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow types: %w", err)
	}
	defer rows.Close()

	var types []workflowtype.WorkflowType
	for rows.Next() {
		t, err := scanWorkflowType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow type: %w", err)
		}
		types = append(types, *t)
	}
	return types, rows.Err()
}

// UpdateStatus sets the status and deprecation time of a workflow type.
// repository.ErrUnchanged means the type already had status.
func (r *WorkflowTypeRepository) UpdateStatus(ctx context.Context, region, domain string, ref registration.TypeRef, status registration.Status, deprecatedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE workflow_types SET status = ?, deprecated_at = ?
		WHERE region = ? AND domain = ? AND name = ? AND version = ? AND status <> ?`,
		string(status), deprecatedAt, region, domain, ref.Name, ref.Version, string(status))
	if err != nil {
		return fmt.Errorf("failed to update workflow type status: %w", err)
	}
	return r.db.statusChanged(ctx, result,
		`SELECT COUNT(*) FROM workflow_types WHERE region = ? AND domain = ? AND name = ? AND version = ?`,
		region, domain, ref.Name, ref.Version)
}

func scanWorkflowType(row rowScanner) (*workflowtype.WorkflowType, error) {
	var t workflowtype.WorkflowType
	var status, childPolicy string
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
		&cfg.DefaultTaskStartToCloseTimeout,
		&cfg.DefaultExecutionStartToCloseTimeout,
		&childPolicy,
		&cfg.DefaultLambdaRole,
		&cfg.DefaultTaskPriority,
		&t.CreatedAt,
		&deprecatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = registration.Status(status)
	cfg.DefaultChildPolicy = workflowtype.ChildPolicy(childPolicy)
	t.DeprecatedAt = nullTime(&deprecatedAt)
	return &t, nil
}
