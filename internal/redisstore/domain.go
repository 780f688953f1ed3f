package redisstore

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
)

// DomainRepository implements swfdomain.Repository on Redis.
type DomainRepository struct {
	client *redis.Client
	keys   keyspace
}

// NewDomainRepository creates a DomainRepository under prefix.
func NewDomainRepository(client *redis.Client, prefix string) *DomainRepository {
	return &DomainRepository{client: client, keys: newKeyspace(prefix)}
}

func (r *DomainRepository) hash(region string) string {
	return r.keys.key(region, "domains")
}

// Create stores a new domain, failing when the name is taken in region
func (r *DomainRepository) Create(ctx context.Context, region string, d *swfdomain.Domain) error {
	d.Region = region
	return createJSON(ctx, r.client, r.hash(region), d.Name, d)
}

// Get retrieves a domain by name
func (r *DomainRepository) Get(ctx context.Context, region, name string) (*swfdomain.Domain, error) {
	return getJSON[swfdomain.Domain](ctx, r.client, r.hash(region), name)
}

// List returns the domains with status ordered by name
func (r *DomainRepository) List(ctx context.Context, region string, status registration.Status) ([]swfdomain.Domain, error) {
	domains, err := listJSON(ctx, r.client, r.hash(region), func(d *swfdomain.Domain) bool {
		return d.Status == status
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].Name < domains[j].Name })
	return domains, nil
}

// UpdateStatus sets the status and deprecation time of a domain. It returns
// repository.ErrUnchanged when the domain already has status.
func (r *DomainRepository) UpdateStatus(ctx context.Context, region, name string, status registration.Status, deprecatedAt *time.Time) error {
	return updateJSON(ctx, r.client, r.hash(region), name, func(d *swfdomain.Domain) error {
		return setStatus(&d.Status, &d.DeprecatedAt, status, deprecatedAt)
	})
}

func (r *DomainRepository) exists(ctx context.Context, region, name string) (bool, error) {
	return r.client.HExists(ctx, r.hash(region), name).Result()
}
