package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
)

// DomainService defines domain operations needed by MCP.
type DomainService interface {
	Register(ctx context.Context, region string, req swfdomain.RegisterRequest) (*swfdomain.Domain, error)
	Describe(ctx context.Context, region, name string) (*swfdomain.Domain, error)
	List(ctx context.Context, region string, req swfdomain.ListRequest) (*swfdomain.ListResult, error)
	Deprecate(ctx context.Context, region, name string) error
	Undeprecate(ctx context.Context, region, name string) error
}

// ActivityTypeService defines activity type operations needed by MCP.
type ActivityTypeService interface {
	Register(ctx context.Context, region string, req activitytype.RegisterRequest) (*activitytype.ActivityType, error)
	Describe(ctx context.Context, region, domain string, ref registration.TypeRef) (*activitytype.ActivityType, error)
	List(ctx context.Context, region string, req activitytype.ListRequest) (*activitytype.ListResult, error)
	Deprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
	Undeprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
}

// WorkflowTypeService defines workflow type operations needed by MCP.
type WorkflowTypeService interface {
	Register(ctx context.Context, region string, req workflowtype.RegisterRequest) (*workflowtype.WorkflowType, error)
	Describe(ctx context.Context, region, domain string, ref registration.TypeRef) (*workflowtype.WorkflowType, error)
	List(ctx context.Context, region string, req workflowtype.ListRequest) (*workflowtype.ListResult, error)
	Deprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
	Undeprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
}

// AuditService defines audit log reads needed by MCP.
type AuditService interface {
	Recent(ctx context.Context, region string, opts audit.ListOptions) ([]audit.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Domains       DomainService
	ActivityTypes ActivityTypeService
	WorkflowTypes WorkflowTypeService
	Audit         AuditService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	DefaultRegion string
	Version       string
	Logger        *zap.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "loom",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(regionMiddleware(cfg.DefaultRegion))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
