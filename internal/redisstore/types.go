package redisstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/workflowtype"
	"github.com/rpggio/loom/internal/repository"
)

// ActivityTypeRepository implements activitytype.Repository on Redis.
type ActivityTypeRepository struct {
	client  *redis.Client
	keys    keyspace
	domains *DomainRepository
}

// NewActivityTypeRepository creates an ActivityTypeRepository under prefix.
func NewActivityTypeRepository(client *redis.Client, prefix string) *ActivityTypeRepository {
	return &ActivityTypeRepository{
		client:  client,
		keys:    newKeyspace(prefix),
		domains: NewDomainRepository(client, prefix),
	}
}

func (r *ActivityTypeRepository) hash(region, domain string) string {
	return r.keys.key(region, "activity_types", domain)
}

// Create stores a new activity type with HSETNX. The domain must exist, and a
// duplicate (name, version) fails whatever its status.
func (r *ActivityTypeRepository) Create(ctx context.Context, region string, t *activitytype.ActivityType) error {
	if err := requireDomain(ctx, r.domains, region, t.Domain); err != nil {
		return err
	}
	t.Region = region
	return createJSON(ctx, r.client, r.hash(region, t.Domain), typeField(t.Name, t.Version), t)
}

// Get retrieves an activity type by name and version
func (r *ActivityTypeRepository) Get(ctx context.Context, region, domain string, ref registration.TypeRef) (*activitytype.ActivityType, error) {
	return getJSON[activitytype.ActivityType](ctx, r.client, r.hash(region, domain), typeField(ref.Name, ref.Version))
}

// List returns activity types matching the filters ordered by name then version
func (r *ActivityTypeRepository) List(ctx context.Context, region, domain string, opts activitytype.ListOptions) ([]activitytype.ActivityType, error) {
	types, err := listJSON(ctx, r.client, r.hash(region, domain), func(t *activitytype.ActivityType) bool {
		return t.Status == opts.Status && (opts.Name == "" || t.Name == opts.Name)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(types, func(i, j int) bool {
		return lessRef(types[i].Ref(), types[j].Ref())
	})
	return types, nil
}

// UpdateStatus sets the status and deprecation time of an activity type. It returns
// repository.ErrUnchanged when the type already has status.
func (r *ActivityTypeRepository) UpdateStatus(ctx context.Context, region, domain string, ref registration.TypeRef, status registration.Status, deprecatedAt *time.Time) error {
	return updateJSON(ctx, r.client, r.hash(region, domain), typeField(ref.Name, ref.Version), func(t *activitytype.ActivityType) error {
		return setStatus(&t.Status, &t.DeprecatedAt, status, deprecatedAt)
	})
}

// WorkflowTypeRepository implements workflowtype.Repository on Redis.
type WorkflowTypeRepository struct {
	client  *redis.Client
	keys    keyspace
	domains *DomainRepository
}

// NewWorkflowTypeRepository creates a WorkflowTypeRepository under prefix.
func NewWorkflowTypeRepository(client *redis.Client, prefix string) *WorkflowTypeRepository {
	return &WorkflowTypeRepository{
		client:  client,
		keys:    newKeyspace(prefix),
		domains: NewDomainRepository(client, prefix),
	}
}

func (r *WorkflowTypeRepository) hash(region, domain string) string {
	return r.keys.key(region, "workflow_types", domain)
}

// Create stores a new workflow type with HSETNX. The domain must exist, and a
// duplicate (name, version) fails whatever its status.
func (r *WorkflowTypeRepository) Create(ctx context.Context, region string, t *workflowtype.WorkflowType) error {
	if err := requireDomain(ctx, r.domains, region, t.Domain); err != nil {
		return err
	}
	t.Region = region
	return createJSON(ctx, r.client, r.hash(region, t.Domain), typeField(t.Name, t.Version), t)
}

// Get retrieves a workflow type by name and version
func (r *WorkflowTypeRepository) Get(ctx context.Context, region, domain string, ref registration.TypeRef) (*workflowtype.WorkflowType, error) {
	return getJSON[workflowtype.WorkflowType](ctx, r.client, r.hash(region, domain), typeField(ref.Name, ref.Version))
}

// List returns workflow types matching the filters ordered by name then version
func (r *WorkflowTypeRepository) List(ctx context.Context, region, domain string, opts workflowtype.ListOptions) ([]workflowtype.WorkflowType, error) {
	types, err := listJSON(ctx, r.client, r.hash(region, domain), func(t *workflowtype.WorkflowType) bool {
		return t.Status == opts.Status && (opts.Name == "" || t.Name == opts.Name)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(types, func(i, j int) bool {
		return lessRef(types[i].Ref(), types[j].Ref())
	})
	return types, nil
}

// UpdateStatus sets the status and deprecation time of a workflow type. It returns
// repository.ErrUnchanged when the type already has status.
func (r *WorkflowTypeRepository) UpdateStatus(ctx context.Context, region, domain string, ref registration.TypeRef, status registration.Status, deprecatedAt *time.Time) error {
	return updateJSON(ctx, r.client, r.hash(region, domain), typeField(ref.Name, ref.Version), func(t *workflowtype.WorkflowType) error {
		return setStatus(&t.Status, &t.DeprecatedAt, status, deprecatedAt)
	})
}

func requireDomain(ctx context.Context, domains *DomainRepository, region, name string) error {
	ok, err := domains.exists(ctx, region, name)
	if err != nil {
		return fmt.Errorf("failed to check domain %s: %w", name, err)
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func lessRef(a, b registration.TypeRef) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Version < b.Version
}
