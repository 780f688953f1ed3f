package activitytype_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/repository"
	"github.com/rpggio/loom/internal/repository/mocks"
)

type domainStub struct {
	known map[string]bool
}

func (d domainStub) Require(_ context.Context, region, name string) (*swfdomain.Domain, error) {
	if !d.known[name] {
		return nil, fmt.Errorf("%w: %s", swfdomain.ErrDomainNotFound, name)
	}
	return &swfdomain.Domain{Region: region, Name: name, Status: registration.StatusRegistered}, nil
}

type countingStub struct {
	registered, deprecated, undeprecated int
}

func (c *countingStub) TypeRegistered(string)   { c.registered++ }
func (c *countingStub) TypeDeprecated(string)   { c.deprecated++ }
func (c *countingStub) TypeUndeprecated(string) { c.undeprecated++ }

var testDomains = domainStub{known: map[string]bool{"test-domain": true}}

func TestActivityTypeService_Register(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	counter := &countingStub{}

	repo := &mocks.ActivityTypeRepository{}
	repo.On("Create", ctx, "us-east-1", mock.Anything).Return(nil)
	auditRepo := &mocks.AuditRepository{}
	auditRepo.On("Log", ctx, "us-east-1", mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action == audit.ActionActivityTypeRegistered &&
			e.Subject == "ActivityType=[name=test-activity, version=v1.0]" &&
			e.Details != ""
	})).Return(nil)

	svc := activitytype.NewService(repo, testDomains, nil,
		activitytype.WithClock(clock),
		activitytype.WithCounter(counter),
		activitytype.WithAudit(audit.NewService(auditRepo, nil, clock, nil)),
	)
	at, err := svc.Register(ctx, "us-east-1", activitytype.RegisterRequest{
		Domain:  "test-domain",
		Name:    "test-activity",
		Version: "v1.0",
		Configuration: activitytype.Configuration{
			DefaultTaskList:             "foo",
			DefaultTaskHeartbeatTimeout: "32",
		},
	})
	require.NoError(t, err)
	require.Equal(t, registration.StatusRegistered, at.Status)
	require.Equal(t, "foo", at.Configuration.DefaultTaskList)
	require.Equal(t, clock.Now(), at.CreatedAt)
	require.Equal(t, 1, counter.registered)
	auditRepo.AssertExpectations(t)
}

func TestActivityTypeService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityTypeRepository{}
	repo.On("Create", ctx, "us-east-1", mock.Anything).Return(repository.ErrAlreadyExists)

	svc := activitytype.NewService(repo, testDomains, nil)
	_, err := svc.Register(ctx, "us-east-1", activitytype.RegisterRequest{
		Domain:  "test-domain",
		Name:    "test-activity",
		Version: "v1.0",
	})
	require.ErrorIs(t, err, activitytype.ErrTypeAlreadyExists)
	require.Contains(t, err.Error(), "ActivityType=[name=test-activity, version=v1.0]")
}

func TestActivityTypeService_RegisterUnknownDomain(t *testing.T) {
	ctx := context.Background()

	svc := activitytype.NewService(&mocks.ActivityTypeRepository{}, testDomains, nil)
	_, err := svc.Register(ctx, "us-east-1", activitytype.RegisterRequest{
		Domain:  "other-domain",
		Name:    "test-activity",
		Version: "v1.0",
	})
	require.ErrorIs(t, err, swfdomain.ErrDomainNotFound)
}

func TestActivityTypeService_RegisterInvalidTimeout(t *testing.T) {
	ctx := context.Background()

	svc := activitytype.NewService(&mocks.ActivityTypeRepository{}, testDomains, nil)
	_, err := svc.Register(ctx, "us-east-1", activitytype.RegisterRequest{
		Domain:  "test-domain",
		Name:    "test-activity",
		Version: "v1.0",
		Configuration: activitytype.Configuration{
			DefaultTaskHeartbeatTimeout: "soon",
		},
	})
	require.ErrorIs(t, err, registration.ErrInvalidInput)
}

func TestActivityTypeService_ListOrdering(t *testing.T) {
	ctx := context.Background()

	stored := []activitytype.ActivityType{
		{Name: "a-test-activity", Version: "v1.0"},
		{Name: "b-test-activity", Version: "v1.0"},
		{Name: "c-test-activity", Version: "v1.0"},
	}
	repo := &mocks.ActivityTypeRepository{}
	repo.On("List", ctx, "us-east-1", "test-domain", activitytype.ListOptions{Status: registration.StatusRegistered}).
		Return(append([]activitytype.ActivityType(nil), stored...), nil).Once()
	repo.On("List", ctx, "us-east-1", "test-domain", activitytype.ListOptions{Status: registration.StatusRegistered}).
		Return(append([]activitytype.ActivityType(nil), stored...), nil).Once()

	svc := activitytype.NewService(repo, testDomains, nil)

	res, err := svc.List(ctx, "us-east-1", activitytype.ListRequest{Domain: "test-domain", Status: registration.StatusRegistered})
	require.NoError(t, err)
	require.Equal(t, []string{"a-test-activity", "b-test-activity", "c-test-activity"}, names(res.Types))

	res, err = svc.List(ctx, "us-east-1", activitytype.ListRequest{Domain: "test-domain", Status: registration.StatusRegistered, ReverseOrder: true})
	require.NoError(t, err)
	require.Equal(t, []string{"c-test-activity", "b-test-activity", "a-test-activity"}, names(res.Types))
}

func TestActivityTypeService_ListRequiresStatus(t *testing.T) {
	svc := activitytype.NewService(&mocks.ActivityTypeRepository{}, testDomains, nil)
	_, err := svc.List(context.Background(), "us-east-1", activitytype.ListRequest{Domain: "test-domain"})
	require.ErrorIs(t, err, registration.ErrInvalidInput)
}

func TestActivityTypeService_Deprecate(t *testing.T) {
	ctx := context.Background()
	ref := registration.TypeRef{Name: "test-activity", Version: "v1.0"}
	counter := &countingStub{}

	repo := &mocks.ActivityTypeRepository{}
	repo.On("Get", ctx, "us-east-1", "test-domain", ref).
		Return(&activitytype.ActivityType{Name: ref.Name, Version: ref.Version, Status: registration.StatusRegistered}, nil).Once()
	repo.On("UpdateStatus", ctx, "us-east-1", "test-domain", ref, registration.StatusDeprecated, mock.Anything).Return(nil)

	svc := activitytype.NewService(repo, testDomains, nil, activitytype.WithCounter(counter))
	require.NoError(t, svc.Deprecate(ctx, "us-east-1", "test-domain", ref))
	require.Equal(t, 1, counter.deprecated)

	repo.On("Get", ctx, "us-east-1", "test-domain", ref).
		Return(&activitytype.ActivityType{Name: ref.Name, Version: ref.Version, Status: registration.StatusDeprecated}, nil)
	err := svc.Deprecate(ctx, "us-east-1", "test-domain", ref)
	require.ErrorIs(t, err, activitytype.ErrTypeDeprecated)
	repo.AssertExpectations(t)
}

func TestActivityTypeService_DeprecateUnknown(t *testing.T) {
	ctx := context.Background()
	ref := registration.TypeRef{Name: "non-existent", Version: "v1.0"}

	repo := &mocks.ActivityTypeRepository{}
	repo.On("Get", ctx, "us-east-1", "test-domain", ref).Return(nil, repository.ErrNotFound)

	svc := activitytype.NewService(repo, testDomains, nil)
	err := svc.Deprecate(ctx, "us-east-1", "test-domain", ref)
	require.ErrorIs(t, err, activitytype.ErrTypeNotFound)
	require.Contains(t, err.Error(), "ActivityType=[name=non-existent, version=v1.0]")
}

func TestActivityTypeService_Undeprecate(t *testing.T) {
	ctx := context.Background()
	ref := registration.TypeRef{Name: "test-activity", Version: "v1.0"}

	repo := &mocks.ActivityTypeRepository{}
	repo.On("Get", ctx, "us-east-1", "test-domain", ref).
		Return(&activitytype.ActivityType{Name: ref.Name, Version: ref.Version, Status: registration.StatusRegistered}, nil)

	svc := activitytype.NewService(repo, testDomains, nil)
	require.ErrorIs(t, svc.Undeprecate(ctx, "us-east-1", "test-domain", ref), activitytype.ErrTypeAlreadyExists)
}

func TestActivityTypeService_DescribeUnknown(t *testing.T) {
	ctx := context.Background()
	ref := registration.TypeRef{Name: "non-existent", Version: "v1.0"}

	repo := &mocks.ActivityTypeRepository{}
	repo.On("Get", ctx, "us-east-1", "test-domain", ref).Return(nil, repository.ErrNotFound)

	svc := activitytype.NewService(repo, testDomains, nil)
	_, err := svc.Describe(ctx, "us-east-1", "test-domain", ref)
	require.ErrorIs(t, err, activitytype.ErrTypeNotFound)
}

func names(types []activitytype.ActivityType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.Name)
	}
	return out
}

func TestActivityTypeService_DeprecateLostRace(t *testing.T) {
	ctx := context.Background()
	ref := registration.TypeRef{Name: "test-activity", Version: "v1.0"}
	counter := &countingStub{}

	repo := &mocks.ActivityTypeRepository{}
	repo.On("Get", ctx, "us-east-1", "test-domain", ref).
		Return(&activitytype.ActivityType{Name: ref.Name, Version: ref.Version, Status: registration.StatusRegistered}, nil)
	repo.On("UpdateStatus", ctx, "us-east-1", "test-domain", ref, registration.StatusDeprecated, mock.Anything).
		Return(repository.ErrUnchanged)
	auditRepo := &mocks.AuditRepository{}

	svc := activitytype.NewService(repo, testDomains, nil,
		activitytype.WithCounter(counter),
		activitytype.WithAudit(audit.NewService(auditRepo, nil, nil, nil)),
	)
	err := svc.Deprecate(ctx, "us-east-1", "test-domain", ref)
	require.ErrorIs(t, err, activitytype.ErrTypeDeprecated)
	require.Zero(t, counter.deprecated)
	auditRepo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything, mock.Anything)
}

func TestActivityTypeService_UndeprecateLostRace(t *testing.T) {
	ctx := context.Background()
	ref := registration.TypeRef{Name: "test-activity", Version: "v1.0"}

	repo := &mocks.ActivityTypeRepository{}
	repo.On("Get", ctx, "us-east-1", "test-domain", ref).
		Return(&activitytype.ActivityType{Name: ref.Name, Version: ref.Version, Status: registration.StatusDeprecated}, nil)
	repo.On("UpdateStatus", ctx, "us-east-1", "test-domain", ref, registration.StatusRegistered, mock.Anything).
		Return(repository.ErrUnchanged)

	svc := activitytype.NewService(repo, testDomains, nil)
	require.ErrorIs(t, svc.Undeprecate(ctx, "us-east-1", "test-domain", ref), activitytype.ErrTypeAlreadyExists)
}
