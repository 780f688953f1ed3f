package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
)

const defaultActivityLimit = 20

// registerTools wires every tool to its service call.
func registerTools(server *sdkmcp.Server, svcs Services) {
	registerDomainTools(server, svcs.Domains)
	registerActivityTypeTools(server, svcs.ActivityTypes)
	registerWorkflowTypeTools(server, svcs.WorkflowTypes)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent registry changes in the current region, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, RecentActivityResponse, error) {
		opts := audit.ListOptions{Domain: in.Domain, Limit: in.Limit}
		if opts.Limit <= 0 {
			opts.Limit = defaultActivityLimit
		}
		if in.Action != "" {
			action := audit.Action(in.Action)
			opts.Action = &action
		}
		entries, err := svcs.Audit.Recent(ctx, getRegion(ctx), opts)
		if err != nil {
			return nil, RecentActivityResponse{}, MapError(err)
		}
		resp := RecentActivityResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
		for _, e := range entries {
			resp.Entries = append(resp.Entries, toActivityEntryResponse(e))
		}
		return nil, resp, nil
	})
}

func registerDomainTools(server *sdkmcp.Server, domains DomainService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "register_domain",
		Description: "Register a new domain in the current region",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RegisterDomainParams) (*sdkmcp.CallToolResult, DomainResponse, error) {
		d, err := domains.Register(ctx, getRegion(ctx), swfdomain.RegisterRequest{
			Name:                  in.Name,
			Description:           in.Description,
			RetentionPeriodInDays: in.RetentionPeriodInDays,
		})
		if err != nil {
			return nil, DomainResponse{}, MapError(err)
		}
		return nil, toDomainResponse(*d), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_domains",
		Description: "List domains with the given registration status, ordered by name",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListDomainsParams) (*sdkmcp.CallToolResult, DomainListResponse, error) {
		res, err := domains.List(ctx, getRegion(ctx), swfdomain.ListRequest{
			Status:        statusOrDefault(in.Status),
			ReverseOrder:  in.ReverseOrder,
			PageSize:      in.PageSize,
			NextPageToken: in.NextPageToken,
		})
		if err != nil {
			return nil, DomainListResponse{}, MapError(err)
		}
		resp := DomainListResponse{
			Domains:       make([]DomainResponse, 0, len(res.Domains)),
			NextPageToken: res.NextPageToken,
		}
		for _, d := range res.Domains {
			resp.Domains = append(resp.Domains, toDomainResponse(d))
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "describe_domain",
		Description: "Get a domain's status and configuration",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DomainParams) (*sdkmcp.CallToolResult, DomainResponse, error) {
		d, err := domains.Describe(ctx, getRegion(ctx), in.Name)
		if err != nil {
			return nil, DomainResponse{}, MapError(err)
		}
		return nil, toDomainResponse(*d), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "deprecate_domain",
		Description: "Deprecate a registered domain",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DomainParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		if err := domains.Deprecate(ctx, getRegion(ctx), in.Name); err != nil {
			return nil, StatusResponse{}, MapError(err)
		}
		return nil, StatusResponse{Subject: in.Name, Status: registration.StatusDeprecated.String()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "undeprecate_domain",
		Description: "Return a deprecated domain to REGISTERED",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DomainParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		if err := domains.Undeprecate(ctx, getRegion(ctx), in.Name); err != nil {
			return nil, StatusResponse{}, MapError(err)
		}
		return nil, StatusResponse{Subject: in.Name, Status: registration.StatusRegistered.String()}, nil
	})
}

func registerActivityTypeTools(server *sdkmcp.Server, types ActivityTypeService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "register_activity_type",
		Description: "Register a new activity type version in a domain",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RegisterActivityTypeParams) (*sdkmcp.CallToolResult, ActivityTypeResponse, error) {
		t, err := types.Register(ctx, getRegion(ctx), activitytype.RegisterRequest{
			Domain:      in.Domain,
			Name:        in.Name,
			Version:     in.Version,
			Description: in.Description,
			Configuration: activitytype.Configuration{
				DefaultTaskList:                   in.DefaultTaskList,
				DefaultTaskHeartbeatTimeout:       in.DefaultTaskHeartbeatTimeout,
				DefaultTaskScheduleToCloseTimeout: in.DefaultTaskScheduleToCloseTimeout,
				DefaultTaskScheduleToStartTimeout: in.DefaultTaskScheduleToStartTimeout,
				DefaultTaskStartToCloseTimeout:    in.DefaultTaskStartToCloseTimeout,
				DefaultTaskPriority:               in.DefaultTaskPriority,
			},
		})
		if err != nil {
			return nil, ActivityTypeResponse{}, MapError(err)
		}
		return nil, toActivityTypeResponse(*t), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activity_types",
		Description: "List activity types in a domain, ordered by name",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListTypesParams) (*sdkmcp.CallToolResult, ActivityTypeListResponse, error) {
		res, err := types.List(ctx, getRegion(ctx), activitytype.ListRequest{
			Domain:        in.Domain,
			Name:          in.Name,
			Status:        statusOrDefault(in.Status),
			ReverseOrder:  in.ReverseOrder,
			PageSize:      in.PageSize,
			NextPageToken: in.NextPageToken,
		})
		if err != nil {
			return nil, ActivityTypeListResponse{}, MapError(err)
		}
		resp := ActivityTypeListResponse{
			Types:         make([]ActivityTypeResponse, 0, len(res.Types)),
			NextPageToken: res.NextPageToken,
		}
		for _, t := range res.Types {
			resp.Types = append(resp.Types, toActivityTypeResponse(t))
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "describe_activity_type",
		Description: "Get an activity type's status and default configuration",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TypeParams) (*sdkmcp.CallToolResult, ActivityTypeResponse, error) {
		t, err := types.Describe(ctx, getRegion(ctx), in.Domain, in.ref())
		if err != nil {
			return nil, ActivityTypeResponse{}, MapError(err)
		}
		return nil, toActivityTypeResponse(*t), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "deprecate_activity_type",
		Description: "Deprecate a registered activity type version",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TypeParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		if err := types.Deprecate(ctx, getRegion(ctx), in.Domain, in.ref()); err != nil {
			return nil, StatusResponse{}, MapError(err)
		}
		return nil, in.status(registration.StatusDeprecated), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "undeprecate_activity_type",
		Description: "Return a deprecated activity type version to REGISTERED",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TypeParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		if err := types.Undeprecate(ctx, getRegion(ctx), in.Domain, in.ref()); err != nil {
			return nil, StatusResponse{}, MapError(err)
		}
		return nil, in.status(registration.StatusRegistered), nil
	})
}

func registerWorkflowTypeTools(server *sdkmcp.Server, types WorkflowTypeService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "register_workflow_type",
		Description: "Register a new workflow type version in a domain",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RegisterWorkflowTypeParams) (*sdkmcp.CallToolResult, WorkflowTypeResponse, error) {
		t, err := types.Register(ctx, getRegion(ctx), workflowtype.RegisterRequest{
			Domain:      in.Domain,
			Name:        in.Name,
			Version:     in.Version,
			Description: in.Description,
			Configuration: workflowtype.Configuration{
				DefaultTaskList:                     in.DefaultTaskList,
				DefaultTaskStartToCloseTimeout:      in.DefaultTaskStartToCloseTimeout,
				DefaultExecutionStartToCloseTimeout: in.DefaultExecutionStartToCloseTimeout,
				DefaultChildPolicy:                  workflowtype.ChildPolicy(in.DefaultChildPolicy),
				DefaultLambdaRole:                   in.DefaultLambdaRole,
				DefaultTaskPriority:                 in.DefaultTaskPriority,
			},
		})
		if err != nil {
			return nil, WorkflowTypeResponse{}, MapError(err)
		}
		return nil, toWorkflowTypeResponse(*t), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_workflow_types",
		Description: "List workflow types in a domain, ordered by name",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListTypesParams) (*sdkmcp.CallToolResult, WorkflowTypeListResponse, error) {
		res, err := types.List(ctx, getRegion(ctx), workflowtype.ListRequest{
			Domain:        in.Domain,
			Name:          in.Name,
			Status:        statusOrDefault(in.Status),
			ReverseOrder:  in.ReverseOrder,
			PageSize:      in.PageSize,
			NextPageToken: in.NextPageToken,
		})
		if err != nil {
			return nil, WorkflowTypeListResponse{}, MapError(err)
		}
		resp := WorkflowTypeListResponse{
			Types:         make([]WorkflowTypeResponse, 0, len(res.Types)),
			NextPageToken: res.NextPageToken,
		}
		for _, t := range res.Types {
			resp.Types = append(resp.Types, toWorkflowTypeResponse(t))
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "describe_workflow_type",
		Description: "Get a workflow type's status and default configuration",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TypeParams) (*sdkmcp.CallToolResult, WorkflowTypeResponse, error) {
		t, err := types.Describe(ctx, getRegion(ctx), in.Domain, in.ref())
		if err != nil {
			return nil, WorkflowTypeResponse{}, MapError(err)
		}
		return nil, toWorkflowTypeResponse(*t), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "deprecate_workflow_type",
		Description: "Deprecate a registered workflow type version",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TypeParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		if err := types.Deprecate(ctx, getRegion(ctx), in.Domain, in.ref()); err != nil {
			return nil, StatusResponse{}, MapError(err)
		}
		return nil, in.status(registration.StatusDeprecated), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "undeprecate_workflow_type",
		Description: "Return a deprecated workflow type version to REGISTERED",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TypeParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		if err := types.Undeprecate(ctx, getRegion(ctx), in.Domain, in.ref()); err != nil {
			return nil, StatusResponse{}, MapError(err)
		}
		return nil, in.status(registration.StatusRegistered), nil
	})
}

func statusOrDefault(s string) registration.Status {
	if s == "" {
		return registration.StatusRegistered
	}
	return registration.Status(s)
}

func (p TypeParams) ref() registration.TypeRef {
	return registration.TypeRef{Name: p.Name, Version: p.Version}
}

func (p TypeParams) status(s registration.Status) StatusResponse {
	return StatusResponse{Subject: p.Domain + "/" + p.Name + "@" + p.Version, Status: s.String()}
}
