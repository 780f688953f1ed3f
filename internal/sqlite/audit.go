package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/loom/internal/domain/audit"
)

// AuditRepository implements audit.Repository for SQLite
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Log inserts a new audit entry
func (r *AuditRepository) Log(ctx context.Context, region string, entry *audit.Entry) error {
	query := `
		INSERT INTO audit_log (
			id, region, domain, action, subject, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		region,
		entry.Domain,
		string(entry.Action),
		entry.Subject,
		entry.Summary,
		entry.Details,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log audit entry: %w", err)
	}

	entry.Region = region
	return nil
}

// List returns audit entries matching the given filters, newest first
func (r *AuditRepository) List(ctx context.Context, region string, opts audit.ListOptions) ([]audit.Entry, error) {
	query := `
		SELECT id, region, domain, action, subject, summary, details, created_at
		FROM audit_log
		WHERE region = ?
	`

	args := []any{region}
	var conditions []string
	if opts.Domain != "" {
		conditions = append(conditions, "domain = ?")
		args = append(args, opts.Domain)
	}
	if opts.Action != nil {
		conditions = append(conditions, "action = ?")
		args = append(args, string(*opts.Action))
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY seq DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var entry audit.Entry
		var action string
		if err := rows.Scan(
			&entry.ID,
			&entry.Region,
			&entry.Domain,
			&action,
			&entry.Subject,
			&entry.Summary,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Action = audit.Action(action)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return entries, nil
}
