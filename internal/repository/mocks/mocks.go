package mocks

import (
	"context"
	"time"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
	"github.com/stretchr/testify/mock"
)

// DomainRepository is a mock for swfdomain.Repository.
type DomainRepository struct {
	mock.Mock
}

func (m *DomainRepository) Create(ctx context.Context, region string, d *swfdomain.Domain) error {
	args := m.Called(ctx, region, d)
	return args.Error(0)
}

func (m *DomainRepository) Get(ctx context.Context, region, name string) (*swfdomain.Domain, error) {
	args := m.Called(ctx, region, name)
	if d, ok := args.Get(0).(*swfdomain.Domain); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DomainRepository) List(ctx context.Context, region string, status registration.Status) ([]swfdomain.Domain, error) {
	args := m.Called(ctx, region, status)
	if list, ok := args.Get(0).([]swfdomain.Domain); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DomainRepository) UpdateStatus(ctx context.Context, region, name string, status registration.Status, deprecatedAt *time.Time) error {
	args := m.Called(ctx, region, name, status, deprecatedAt)
	return args.Error(0)
}

// ActivityTypeRepository is a mock for activitytype.Repository.
type ActivityTypeRepository struct {
	mock.Mock
}

func (m *ActivityTypeRepository) Create(ctx context.Context, region string, t *activitytype.ActivityType) error {
	args := m.Called(ctx, region, t)
	return args.Error(0)
}

func (m *ActivityTypeRepository) Get(ctx context.Context, region, domain string, ref registration.TypeRef) (*activitytype.ActivityType, error) {
	args := m.Called(ctx, region, domain, ref)
	if t, ok := args.Get(0).(*activitytype.ActivityType); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityTypeRepository) List(ctx context.Context, region, domain string, opts activitytype.ListOptions) ([]activitytype.ActivityType, error) {
	args := m.Called(ctx, region, domain, opts)
	if list, ok := args.Get(0).([]activitytype.ActivityType); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityTypeRepository) UpdateStatus(ctx context.Context, region, domain string, ref registration.TypeRef, status registration.Status, deprecatedAt *time.Time) error {
	args := m.Called(ctx, region, domain, ref, status, deprecatedAt)
	return args.Error(0)
}

// WorkflowTypeRepository is a mock for workflowtype.Repository.
type WorkflowTypeRepository struct {
	mock.Mock
}

func (m *WorkflowTypeRepository) Create(ctx context.Context, region string, t *workflowtype.WorkflowType) error {
	args := m.Called(ctx, region, t)
	return args.Error(0)
}

func (m *WorkflowTypeRepository) Get(ctx context.Context, region, domain string, ref registration.TypeRef) (*workflowtype.WorkflowType, error) {
	args := m.Called(ctx, region, domain, ref)
	if t, ok := args.Get(0).(*workflowtype.WorkflowType); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkflowTypeRepository) List(ctx context.Context, region, domain string, opts workflowtype.ListOptions) ([]workflowtype.WorkflowType, error) {
	args := m.Called(ctx, region, domain, opts)
	if list, ok := args.Get(0).([]workflowtype.WorkflowType); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkflowTypeRepository) UpdateStatus(ctx context.Context, region, domain string, ref registration.TypeRef, status registration.Status, deprecatedAt *time.Time) error {
	args := m.Called(ctx, region, domain, ref, status, deprecatedAt)
	return args.Error(0)
}

// AuditRepository is a mock for audit.Repository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Log(ctx context.Context, region string, entry *audit.Entry) error {
	args := m.Called(ctx, region, entry)
	return args.Error(0)
}

func (m *AuditRepository) List(ctx context.Context, region string, opts audit.ListOptions) ([]audit.Entry, error) {
	args := m.Called(ctx, region, opts)
	if list, ok := args.Get(0).([]audit.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Publisher is a mock for audit.Publisher.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, entry audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
