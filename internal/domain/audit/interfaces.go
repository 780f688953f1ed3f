package audit

import "context"

// Repository provides persistence operations for audit entries.
type Repository interface {
	Log(ctx context.Context, region string, entry *Entry) error
	List(ctx context.Context, region string, opts ListOptions) ([]Entry, error)
}

// Publisher forwards persisted entries to an external stream.
type Publisher interface {
	Publish(ctx context.Context, entry Entry) error
}
