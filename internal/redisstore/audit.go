package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rpggio/loom/internal/domain/audit"
)

// MaxAuditEntries caps the per-region audit list.
const MaxAuditEntries = 10000

// AuditRepository implements audit.Repository on a capped Redis list, newest first.
type AuditRepository struct {
	client *redis.Client
	keys   keyspace
}

// NewAuditRepository creates an AuditRepository under prefix.
func NewAuditRepository(client *redis.Client, prefix string) *AuditRepository {
	return &AuditRepository{client: client, keys: newKeyspace(prefix)}
}

func (r *AuditRepository) list(region string) string {
	return r.keys.key(region, "audit")
}

// Log prepends entry to the region's audit list, trimming it to MaxAuditEntries
func (r *AuditRepository) Log(ctx context.Context, region string, entry *audit.Entry) error {
	entry.Region = region
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}
	key := r.list(region)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, MaxAuditEntries-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to log audit entry: %w", err)
	}
	return nil
}

// List returns audit entries newest first, filtered by domain and action
func (r *AuditRepository) List(ctx context.Context, region string, opts audit.ListOptions) ([]audit.Entry, error) {
	values, err := r.client.LRange(ctx, r.list(region), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	var entries []audit.Entry
	skipped := 0
	for _, raw := range values {
		var entry audit.Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode audit entry: %w", err)
		}
		if opts.Domain != "" && entry.Domain != opts.Domain {
			continue
		}
		if opts.Action != nil && entry.Action != *opts.Action {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		entries = append(entries, entry)
		if opts.Limit > 0 && len(entries) == opts.Limit {
			break
		}
	}
	return entries, nil
}
