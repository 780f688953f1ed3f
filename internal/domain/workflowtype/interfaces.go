package workflowtype

import (
	"context"
	"time"

	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
)

// Repository provides persistence for workflow types. List returns types ordered
// by name then version, ascending.
type Repository interface {
	Create(ctx context.Context, region string, t *WorkflowType) error
	Get(ctx context.Context, region, domain string, ref registration.TypeRef) (*WorkflowType, error)
	List(ctx context.Context, region, domain string, opts ListOptions) ([]WorkflowType, error)
	UpdateStatus(ctx context.Context, region, domain string, ref registration.TypeRef, status registration.Status, deprecatedAt *time.Time) error
}

// DomainLookup resolves the domain a type is registered in.
type DomainLookup interface {
	Require(ctx context.Context, region, name string) (*swfdomain.Domain, error)
}

// AuditLogger records registry changes.
type AuditLogger interface {
	Log(ctx context.Context, region string, entry *audit.Entry) error
}

// Counter tracks registered type counts.
type Counter interface {
	TypeRegistered(kind string)
	TypeDeprecated(kind string)
	TypeUndeprecated(kind string)
}
