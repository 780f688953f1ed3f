package swfdomain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/repository"
)

// Service handles domain operations.
type Service struct {
	repo   Repository
	audit  AuditLogger
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewService creates a new domain service. auditLog may be nil.
func NewService(repo Repository, auditLog AuditLogger, clock clockwork.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, audit: auditLog, clock: clock, logger: logger}
}

// RegisterRequest defines domain registration inputs.
type RegisterRequest struct {
	Name                  string
	Description           string
	RetentionPeriodInDays string
}

// ListRequest defines domain listing inputs.
type ListRequest struct {
	Status        registration.Status
	ReverseOrder  bool
	PageSize      int
	NextPageToken string
}

// ListResult is one page of domains.
type ListResult struct {
	Domains       []Domain
	NextPageToken string
}

// Register creates a new domain.
func (s *Service) Register(ctx context.Context, region string, req RegisterRequest) (*Domain, error) {
	if err := registration.ValidateName("name", req.Name); err != nil {
		return nil, err
	}
	if err := registration.ValidateDescription(req.Description); err != nil {
		return nil, err
	}
	if err := registration.ValidateRetention(req.RetentionPeriodInDays); err != nil {
		return nil, err
	}

	d := &Domain{
		Region:                region,
		Name:                  req.Name,
		Description:           req.Description,
		RetentionPeriodInDays: req.RetentionPeriodInDays,
		Status:                registration.StatusRegistered,
		CreatedAt:             s.clock.Now(),
	}

	if err := s.repo.Create(ctx, region, d); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrDomainAlreadyExists, req.Name)
		}
		return nil, fmt.Errorf("creating domain: %w", err)
	}

	s.logger.Debug("domain registered", zap.String("region", region), zap.String("domain", d.Name))
	s.record(ctx, region, d.Name, audit.ActionDomainRegistered, "Registered domain "+d.Name)
	return d, nil
}

// Describe fetches a domain by name.
func (s *Service) Describe(ctx context.Context, region, name string) (*Domain, error) {
	return s.Require(ctx, region, name)
}

// Require fetches a domain by name, returning ErrDomainNotFound when missing.
func (s *Service) Require(ctx context.Context, region, name string) (*Domain, error) {
	d, err := s.repo.Get(ctx, region, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDomainNotFound, name)
		}
		return nil, fmt.Errorf("getting domain: %w", err)
	}
	return d, nil
}

// List returns a page of domains with the requested status.
func (s *Service) List(ctx context.Context, region string, req ListRequest) (*ListResult, error) {
	if _, err := registration.ParseStatus(string(req.Status)); err != nil {
		return nil, err
	}

	domains, err := s.repo.List(ctx, region, req.Status)
	if err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	if req.ReverseOrder {
		registration.Reverse(domains)
	}

	page, next, err := registration.Paginate(domains, req.PageSize, req.NextPageToken)
	if err != nil {
		return nil, err
	}
	return &ListResult{Domains: page, NextPageToken: next}, nil
}

// Deprecate marks a registered domain as deprecated.
func (s *Service) Deprecate(ctx context.Context, region, name string) error {
	d, err := s.Require(ctx, region, name)
	if err != nil {
		return err
	}
	if d.Status == registration.StatusDeprecated {
		return fmt.Errorf("%w: %s", ErrDomainDeprecated, name)
	}

	now := s.clock.Now()
	if err := s.updateStatus(ctx, region, name, registration.StatusDeprecated, &now); err != nil {
		return err
	}
	s.record(ctx, region, name, audit.ActionDomainDeprecated, "Deprecated domain "+name)
	return nil
}

// Undeprecate restores a deprecated domain.
func (s *Service) Undeprecate(ctx context.Context, region, name string) error {
	d, err := s.Require(ctx, region, name)
	if err != nil {
		return err
	}
	if d.Status == registration.StatusRegistered {
		return fmt.Errorf("%w: %s", ErrDomainAlreadyExists, name)
	}

	if err := s.updateStatus(ctx, region, name, registration.StatusRegistered, nil); err != nil {
		return err
	}
	s.record(ctx, region, name, audit.ActionDomainUndeprecated, "Undeprecated domain "+name)
	return nil
}

func (s *Service) updateStatus(ctx context.Context, region, name string, status registration.Status, at *time.Time) error {
	if err := s.repo.UpdateStatus(ctx, region, name, status, at); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDomainNotFound, name)
		}
		if errors.Is(err, repository.ErrUnchanged) {
			if status == registration.StatusDeprecated {
				return fmt.Errorf("%w: %s", ErrDomainDeprecated, name)
			}
			return fmt.Errorf("%w: %s", ErrDomainAlreadyExists, name)
		}
		return fmt.Errorf("updating domain status: %w", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, region, domain string, action audit.Action, summary string) {
	if s.audit == nil {
		return
	}
	entry := &audit.Entry{
		Domain:    domain,
		Action:    action,
		Subject:   domain,
		Summary:   summary,
		CreatedAt: s.clock.Now(),
	}
	if err := s.audit.Log(ctx, region, entry); err != nil {
		s.logger.Warn("audit log failed", zap.String("action", string(action)), zap.Error(err))
	}
}
