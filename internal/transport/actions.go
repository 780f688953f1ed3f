package transport

import (
	"context"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
)

type actionFunc func(ctx context.Context, region string, raw []byte) (any, error)

// handler adapts a typed action to an actionFunc.
func handler[In any](fn func(ctx context.Context, region string, in In) (any, error)) actionFunc {
	return func(ctx context.Context, region string, raw []byte) (any, error) {
		in, err := decode[In](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, region, in)
	}
}

func (s *Server) actionTable() map[string]actionFunc {
	return map[string]actionFunc{
		"RegisterDomain":    handler(s.registerDomain),
		"DescribeDomain":    handler(s.describeDomain),
		"ListDomains":       handler(s.listDomains),
		"DeprecateDomain":   handler(s.deprecateDomain),
		"UndeprecateDomain": handler(s.undeprecateDomain),

		"RegisterActivityType":    handler(s.registerActivityType),
		"ListActivityTypes":       handler(s.listActivityTypes),
		"DescribeActivityType":    handler(s.describeActivityType),
		"DeprecateActivityType":   handler(s.deprecateActivityType),
		"UndeprecateActivityType": handler(s.undeprecateActivityType),

		"RegisterWorkflowType":    handler(s.registerWorkflowType),
		"ListWorkflowTypes":       handler(s.listWorkflowTypes),
		"DescribeWorkflowType":    handler(s.describeWorkflowType),
		"DeprecateWorkflowType":   handler(s.deprecateWorkflowType),
		"UndeprecateWorkflowType": handler(s.undeprecateWorkflowType),
	}
}

func (s *Server) registerDomain(ctx context.Context, region string, in registerDomainInput) (any, error) {
	_, err := s.services.Domains.Register(ctx, region, swfdomain.RegisterRequest{
		Name:                  in.Name,
		Description:           in.Description,
		RetentionPeriodInDays: in.WorkflowExecutionRetentionPeriodInDays,
	})
	return nil, err
}

func (s *Server) describeDomain(ctx context.Context, region string, in domainNameInput) (any, error) {
	d, err := s.services.Domains.Describe(ctx, region, in.Name)
	if err != nil {
		return nil, err
	}
	return describeDomainOutput{
		DomainInfo:    toDomainInfo(*d),
		Configuration: domainConfiguration{WorkflowExecutionRetentionPeriodInDays: d.RetentionPeriodInDays},
	}, nil
}

func (s *Server) listDomains(ctx context.Context, region string, in listDomainsInput) (any, error) {
	res, err := s.services.Domains.List(ctx, region, swfdomain.ListRequest{
		Status:        registration.Status(in.RegistrationStatus),
		ReverseOrder:  in.ReverseOrder,
		PageSize:      in.MaximumPageSize,
		NextPageToken: in.NextPageToken,
	})
	if err != nil {
		return nil, err
	}
	out := listDomainsOutput{DomainInfos: make([]domainInfo, 0, len(res.Domains)), NextPageToken: res.NextPageToken}
	for _, d := range res.Domains {
		out.DomainInfos = append(out.DomainInfos, toDomainInfo(d))
	}
	return out, nil
}

func (s *Server) deprecateDomain(ctx context.Context, region string, in domainNameInput) (any, error) {
	return nil, s.services.Domains.Deprecate(ctx, region, in.Name)
}

func (s *Server) undeprecateDomain(ctx context.Context, region string, in domainNameInput) (any, error) {
	return nil, s.services.Domains.Undeprecate(ctx, region, in.Name)
}

func (s *Server) registerActivityType(ctx context.Context, region string, in registerActivityTypeInput) (any, error) {
	_, err := s.services.ActivityTypes.Register(ctx, region, in.request())
	return nil, err
}

func (s *Server) listActivityTypes(ctx context.Context, region string, in listTypesInput) (any, error) {
	res, err := s.services.ActivityTypes.List(ctx, region, activitytype.ListRequest{
		Domain:        in.Domain,
		Name:          in.Name,
		Status:        registration.Status(in.RegistrationStatus),
		ReverseOrder:  in.ReverseOrder,
		PageSize:      in.MaximumPageSize,
		NextPageToken: in.NextPageToken,
	})
	if err != nil {
		return nil, err
	}
	out := listActivityTypesOutput{TypeInfos: make([]activityTypeInfo, 0, len(res.Types)), NextPageToken: res.NextPageToken}
	for _, t := range res.Types {
		out.TypeInfos = append(out.TypeInfos, toActivityTypeInfo(t))
	}
	return out, nil
}

func (s *Server) describeActivityType(ctx context.Context, region string, in activityTypeInput) (any, error) {
	t, err := s.services.ActivityTypes.Describe(ctx, region, in.Domain, in.ActivityType)
	if err != nil {
		return nil, err
	}
	return describeActivityTypeOutput{
		TypeInfo:      toActivityTypeInfo(*t),
		Configuration: toActivityTypeConfiguration(t.Configuration),
	}, nil
}

func (s *Server) deprecateActivityType(ctx context.Context, region string, in activityTypeInput) (any, error) {
	return nil, s.services.ActivityTypes.Deprecate(ctx, region, in.Domain, in.ActivityType)
}

func (s *Server) undeprecateActivityType(ctx context.Context, region string, in activityTypeInput) (any, error) {
	return nil, s.services.ActivityTypes.Undeprecate(ctx, region, in.Domain, in.ActivityType)
}

func (s *Server) registerWorkflowType(ctx context.Context, region string, in registerWorkflowTypeInput) (any, error) {
	_, err := s.services.WorkflowTypes.Register(ctx, region, in.request())
	return nil, err
}

func (s *Server) listWorkflowTypes(ctx context.Context, region string, in listTypesInput) (any, error) {
	res, err := s.services.WorkflowTypes.List(ctx, region, workflowtype.ListRequest{
		Domain:        in.Domain,
		Name:          in.Name,
		Status:        registration.Status(in.RegistrationStatus),
		ReverseOrder:  in.ReverseOrder,
		PageSize:      in.MaximumPageSize,
		NextPageToken: in.NextPageToken,
	})
	if err != nil {
		return nil, err
	}
	out := listWorkflowTypesOutput{TypeInfos: make([]workflowTypeInfo, 0, len(res.Types)), NextPageToken: res.NextPageToken}
	for _, t := range res.Types {
		out.TypeInfos = append(out.TypeInfos, toWorkflowTypeInfo(t))
	}
	return out, nil
}

func (s *Server) describeWorkflowType(ctx context.Context, region string, in workflowTypeInput) (any, error) {
	t, err := s.services.WorkflowTypes.Describe(ctx, region, in.Domain, in.WorkflowType)
	if err != nil {
		return nil, err
	}
	return describeWorkflowTypeOutput{
		TypeInfo:      toWorkflowTypeInfo(*t),
		Configuration: toWorkflowTypeConfiguration(t.Configuration),
	}, nil
}

func (s *Server) deprecateWorkflowType(ctx context.Context, region string, in workflowTypeInput) (any, error) {
	return nil, s.services.WorkflowTypes.Deprecate(ctx, region, in.Domain, in.WorkflowType)
}

func (s *Server) undeprecateWorkflowType(ctx context.Context, region string, in workflowTypeInput) (any, error) {
	return nil, s.services.WorkflowTypes.Undeprecate(ctx, region, in.Domain, in.WorkflowType)
}
