package swfdomain

import (
	"context"
	"time"

	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
)

// Repository provides persistence for domains.
type Repository interface {
	Create(ctx context.Context, region string, d *Domain) error
	Get(ctx context.Context, region, name string) (*Domain, error)
	List(ctx context.Context, region string, status registration.Status) ([]Domain, error)
	UpdateStatus(ctx context.Context, region, name string, status registration.Status, deprecatedAt *time.Time) error
}

// AuditLogger records registry changes.
type AuditLogger interface {
	Log(ctx context.Context, region string, entry *audit.Entry) error
}
