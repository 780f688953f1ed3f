package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/repository"
)

// DomainRepository implements swfdomain.Repository for SQLite
type DomainRepository struct {
	db *DB
}

// NewDomainRepository creates a new DomainRepository
func NewDomainRepository(db *DB) *DomainRepository {
	return &DomainRepository{db: db}
}

const domainColumns = `region, name, description, retention_days, status, created_at, deprecated_at`

// Create inserts a new domain
func (r *DomainRepository) Create(ctx context.Context, region string, d *swfdomain.Domain) error {
	query := `INSERT INTO domains (` + domainColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		region,
		d.Name,
		d.Description,
		d.RetentionPeriodInDays,
		string(d.Status),
		d.CreatedAt,
		d.DeprecatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create domain: %w", err)
	}

	d.Region = region
	return nil
}

// Get retrieves a domain by name
func (r *DomainRepository) Get(ctx context.Context, region, name string) (*swfdomain.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE region = ? AND name = ?`

	d, err := scanDomain(r.db.QueryRowContext(ctx, query, region, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}
	return d, nil
}

// List returns the domains with the given status ordered by name
func (r *DomainRepository) List(ctx context.Context, region string, status registration.Status) ([]swfdomain.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE region = ? AND status = ? ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, region, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []swfdomain.Domain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domain rows: %w", err)
	}
	return domains, nil
}

// UpdateStatus sets the status and deprecation time of a domain
func (r *DomainRepository) UpdateStatus(ctx context.Context, region, name string, status registration.Status, deprecatedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE domains SET status = ?, deprecated_at = ? WHERE region = ? AND name = ? AND status <> ?`,
		string(status), deprecatedAt, region, name, string(status))
	if err != nil {
		return fmt.Errorf("failed to update domain status: %w", err)
	}
	return r.db.statusChanged(ctx, result,
		`SELECT COUNT(*) FROM domains WHERE region = ? AND name = ?`, region, name)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDomain(row rowScanner) (*swfdomain.Domain, error) {
	var d swfdomain.Domain
	var status string
	var deprecatedAt sql.NullTime
	if err := row.Scan(
		&d.Region,
		&d.Name,
		&d.Description,
		&d.RetentionPeriodInDays,
		&status,
		&d.CreatedAt,
		&deprecatedAt,
	); err != nil {
		return nil, err
	}
	d.Status = registration.Status(status)
	d.DeprecatedAt = nullTime(&deprecatedAt)
	return &d, nil
}
