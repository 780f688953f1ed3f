package workflowtype

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/repository"
)

// Kind labels workflow types in metrics.
const Kind = "workflow"

// Service handles workflow type registration and lifecycle.
type Service struct {
	types   Repository
	domains DomainLookup
	audit   AuditLogger
	counter Counter
	clock   clockwork.Clock
	logger  *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

func WithAudit(a AuditLogger) Option {
	return func(s *Service) { s.audit = a }
}

func WithCounter(c Counter) Option {
	return func(s *Service) { s.counter = c }
}

func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService creates a new workflow type service.
func NewService(types Repository, domains DomainLookup, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		types:   types,
		domains: domains,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRequest describes a workflow type registration.
type RegisterRequest struct {
	Domain        string
	Name          string
	Version       string
	Description   string
	Configuration Configuration
}

// ListRequest describes a workflow type listing.
type ListRequest struct {
	Domain        string
	Name          string
	Status        registration.Status
	ReverseOrder  bool
	PageSize      int
	NextPageToken string
}

// ListResult is one page of workflow types.
type ListResult struct {
	Types         []WorkflowType
	NextPageToken string
}

// Register registers a new (name, version) in the domain.
func (s *Service) Register(ctx context.Context, region string, req RegisterRequest) (*WorkflowType, error) {
	ref := registration.TypeRef{Name: req.Name, Version: req.Version}
	if err := ValidateRegister(req); err != nil {
		return nil, err
	}
	if _, err := s.domains.Require(ctx, region, req.Domain); err != nil {
		return nil, err
	}

	t := &WorkflowType{
		Region:        region,
		Domain:        req.Domain,
		Name:          req.Name,
		Version:       req.Version,
		Description:   req.Description,
		Status:        registration.StatusRegistered,
		Configuration: req.Configuration,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.types.Create(ctx, region, t); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrTypeAlreadyExists, describe(ref))
		}
		return nil, fmt.Errorf("creating workflow type: %w", err)
	}

	if s.counter != nil {
		s.counter.TypeRegistered(Kind)
	}
	s.logger.Debug("workflow type registered",
		zap.String("region", region),
		zap.String("domain", req.Domain),
		zap.String("name", req.Name),
		zap.String("version", req.Version))
	s.record(ctx, region, req.Domain, ref, audit.ActionWorkflowTypeRegistered, t.Configuration)
	return t, nil
}

// Describe returns a registered workflow type with its configuration.
func (s *Service) Describe(ctx context.Context, region, domain string, ref registration.TypeRef) (*WorkflowType, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.domains.Require(ctx, region, domain); err != nil {
		return nil, err
	}
	return s.get(ctx, region, domain, ref)
}

// List returns a page of workflow types with the requested status, ordered by
// name ascending, or descending when ReverseOrder is set.
func (s *Service) List(ctx context.Context, region string, req ListRequest) (*ListResult, error) {
	if _, err := registration.ParseStatus(string(req.Status)); err != nil {
		return nil, err
	}
	if req.Name != "" {
		if err := registration.ValidateName("name", req.Name); err != nil {
			return nil, err
		}
	}
	if _, err := s.domains.Require(ctx, region, req.Domain); err != nil {
		return nil, err
	}

	types, err := s.types.List(ctx, region, req.Domain, ListOptions{Name: req.Name, Status: req.Status})
	if err != nil {
		return nil, fmt.Errorf("listing workflow types: %w", err)
	}
	if req.ReverseOrder {
		registration.Reverse(types)
	}

	page, next, err := registration.Paginate(types, req.PageSize, req.NextPageToken)
	if err != nil {
		return nil, err
	}
	return &ListResult{Types: page, NextPageToken: next}, nil
}

// Deprecate moves a registered workflow type to DEPRECATED.
func (s *Service) Deprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error {
	t, err := s.Describe(ctx, region, domain, ref)
	if err != nil {
		return err
	}
	if t.Status == registration.StatusDeprecated {
		return fmt.Errorf("%w: %s", ErrTypeDeprecated, describe(ref))
	}

	now := s.clock.Now()
	if err := s.updateStatus(ctx, region, domain, ref, registration.StatusDeprecated, &now); err != nil {
		return err
	}
	if s.counter != nil {
		s.counter.TypeDeprecated(Kind)
	}
	s.record(ctx, region, domain, ref, audit.ActionWorkflowTypeDeprecated, nil)
	return nil
}

// Undeprecate moves a deprecated workflow type back to REGISTERED.
func (s *Service) Undeprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error {
	t, err := s.Describe(ctx, region, domain, ref)
	if err != nil {
		return err
	}
	if t.Status == registration.StatusRegistered {
		return fmt.Errorf("%w: %s", ErrTypeAlreadyExists, describe(ref))
	}

	if err := s.updateStatus(ctx, region, domain, ref, registration.StatusRegistered, nil); err != nil {
		return err
	}
	if s.counter != nil {
		s.counter.TypeUndeprecated(Kind)
	}
	s.record(ctx, region, domain, ref, audit.ActionWorkflowTypeUndeprecated, nil)
	return nil
}

func (s *Service) get(ctx context.Context, region, domain string, ref registration.TypeRef) (*WorkflowType, error) {
	t, err := s.types.Get(ctx, region, domain, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, describe(ref))
		}
		return nil, fmt.Errorf("getting workflow type: %w", err)
	}
	return t, nil
}

func (s *Service) updateStatus(ctx context.Context, region, domain string, ref registration.TypeRef, status registration.Status, at *time.Time) error {
	if err := s.types.UpdateStatus(ctx, region, domain, ref, status, at); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTypeNotFound, describe(ref))
		}
		if errors.Is(err, repository.ErrUnchanged) {
			if status == registration.StatusDeprecated {
				return fmt.Errorf("%w: %s", ErrTypeDeprecated, describe(ref))
			}
			return fmt.Errorf("%w: %s", ErrTypeAlreadyExists, describe(ref))
		}
		return fmt.Errorf("updating workflow type status: %w", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, region, domain string, ref registration.TypeRef, action audit.Action, details any) {
	if s.audit == nil {
		return
	}
	entry := &audit.Entry{
		Domain:    domain,
		Action:    action,
		Subject:   describe(ref),
		Summary:   fmt.Sprintf("%s %s", action, describe(ref)),
		CreatedAt: s.clock.Now(),
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = string(data)
		}
	}
	if err := s.audit.Log(ctx, region, entry); err != nil {
		s.logger.Warn("audit log failed", zap.String("action", string(action)), zap.Error(err))
	}
}
