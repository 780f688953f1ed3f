package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Service handles the registry audit log.
type Service struct {
	repo      Repository
	publisher Publisher
	clock     clockwork.Clock
	logger    *zap.Logger
}

// NewService creates a new audit service. publisher may be nil.
func NewService(repo Repository, publisher Publisher, clock clockwork.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, publisher: publisher, clock: clock, logger: logger}
}

// Log persists an entry, filling ID and timestamp when missing, then publishes it.
// A publish failure is logged and does not fail the call.
func (s *Service) Log(ctx context.Context, region string, entry *Entry) error {
	if entry == nil || entry.Action == "" {
		return ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.clock.Now()
	}
	entry.Region = region

	if err := s.repo.Log(ctx, region, entry); err != nil {
		return fmt.Errorf("logging audit entry: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, *entry); err != nil {
			s.logger.Warn("audit publish failed",
				zap.String("action", string(entry.Action)),
				zap.String("domain", entry.Domain),
				zap.Error(err))
		}
	}
	return nil
}

// Recent lists audit entries, newest first.
func (s *Service) Recent(ctx context.Context, region string, opts ListOptions) ([]Entry, error) {
	entries, err := s.repo.List(ctx, region, opts)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return entries, nil
}
