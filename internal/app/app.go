// Package app assembles services from a store and exposes them to the
// transports.
package app

import (
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
	"github.com/rpggio/loom/internal/mcp"
	"github.com/rpggio/loom/internal/metrics"
	"github.com/rpggio/loom/internal/redisstore"
	"github.com/rpggio/loom/internal/seed"
	"github.com/rpggio/loom/internal/sqlite"
	"github.com/rpggio/loom/internal/transport"
)

// Repositories is one store's set of repositories.
type Repositories struct {
	Domains       swfdomain.Repository
	ActivityTypes activitytype.Repository
	WorkflowTypes workflowtype.Repository
	Audit         audit.Repository
}

// SQLiteRepositories returns repositories backed by db.
func SQLiteRepositories(db *sqlite.DB) Repositories {
	return Repositories{
		Domains:       sqlite.NewDomainRepository(db),
		ActivityTypes: sqlite.NewActivityTypeRepository(db),
		WorkflowTypes: sqlite.NewWorkflowTypeRepository(db),
		Audit:         sqlite.NewAuditRepository(db),
	}
}

// RedisRepositories returns repositories backed by client under prefix.
func RedisRepositories(client *redis.Client, prefix string) Repositories {
	return Repositories{
		Domains:       redisstore.NewDomainRepository(client, prefix),
		ActivityTypes: redisstore.NewActivityTypeRepository(client, prefix),
		WorkflowTypes: redisstore.NewWorkflowTypeRepository(client, prefix),
		Audit:         redisstore.NewAuditRepository(client, prefix),
	}
}

// Deps are the optional collaborators of the services.
type Deps struct {
	Publisher audit.Publisher
	Metrics   *metrics.Metrics
	Clock     clockwork.Clock
	Logger    *zap.Logger
}

// Services holds the domain services.
type Services struct {
	Domains       *swfdomain.Service
	ActivityTypes *activitytype.Service
	WorkflowTypes *workflowtype.Service
	Audit         *audit.Service
}

// NewServices builds the domain services over repos.
func NewServices(repos Repositories, deps Deps) Services {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	auditSvc := audit.NewService(repos.Audit, deps.Publisher, deps.Clock, deps.Logger.Named("audit"))
	domains := swfdomain.NewService(repos.Domains, auditSvc, deps.Clock, deps.Logger.Named("domains"))

	atOpts := []activitytype.Option{activitytype.WithAudit(auditSvc), activitytype.WithClock(deps.Clock)}
	wtOpts := []workflowtype.Option{workflowtype.WithAudit(auditSvc), workflowtype.WithClock(deps.Clock)}
	if deps.Metrics != nil {
		atOpts = append(atOpts, activitytype.WithCounter(deps.Metrics))
		wtOpts = append(wtOpts, workflowtype.WithCounter(deps.Metrics))
	}

	return Services{
		Domains:       domains,
		ActivityTypes: activitytype.NewService(repos.ActivityTypes, domains, deps.Logger.Named("activity_types"), atOpts...),
		WorkflowTypes: workflowtype.NewService(repos.WorkflowTypes, domains, deps.Logger.Named("workflow_types"), wtOpts...),
		Audit:         auditSvc,
	}
}

// Transport returns the services as the SWF HTTP transport consumes them.
func (s Services) Transport() transport.Services {
	return transport.Services{
		Domains:       s.Domains,
		ActivityTypes: s.ActivityTypes,
		WorkflowTypes: s.WorkflowTypes,
		Audit:         s.Audit,
	}
}

// MCP returns the services as the MCP server consumes them.
func (s Services) MCP() mcp.Services {
	return mcp.Services{
		Domains:       s.Domains,
		ActivityTypes: s.ActivityTypes,
		WorkflowTypes: s.WorkflowTypes,
		Audit:         s.Audit,
	}
}

// Seeder returns a fixture loader writing through the services.
func (s Services) Seeder(defaultRegion string, logger *zap.Logger) *seed.Loader {
	return &seed.Loader{
		Domains:       s.Domains,
		ActivityTypes: s.ActivityTypes,
		WorkflowTypes: s.WorkflowTypes,
		DefaultRegion: defaultRegion,
		Logger:        logger,
	}
}
